package dto

import (
	"taskBoard/internal/models/task"
	"time"

	"github.com/google/uuid"
)

type PositionDTO struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type CreateTaskRequest struct {
	Text     string       `json:"text"`
	DueDate  *string      `json:"dueDate,omitempty"`
	Position *PositionDTO `json:"position,omitempty"`
}

type UpdateTaskRequest struct {
	Text      *string      `json:"text,omitempty"`
	Completed *bool        `json:"completed,omitempty"`
	DueDate   *string      `json:"dueDate,omitempty"`
	Position  *PositionDTO `json:"position,omitempty"`
}

type TaskResponse struct {
	ID        uuid.UUID    `json:"id"`
	Text      string       `json:"text"`
	Completed bool         `json:"completed"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
	DueDate   *time.Time   `json:"dueDate"`
	Position  *PositionDTO `json:"position"`
}

func FromTask(t *task.Task) TaskResponse {
	resp := TaskResponse{
		ID:        t.ID,
		Text:      t.Text,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
		DueDate:   t.DueDate,
	}
	if t.Position != nil {
		resp.Position = &PositionDTO{X: t.Position.X, Y: t.Position.Y}
	}
	return resp
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

func (p *PositionDTO) ToModel() *task.Position {
	if p == nil {
		return nil
	}
	return &task.Position{X: p.X, Y: p.Y}
}

var dueDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseDueDate разбирает дедлайн из запроса.
// Нечитаемое значение превращается в «без дедлайна», а не в ошибку валидации
func ParseDueDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	for _, layout := range dueDateLayouts {
		if parsed, err := time.Parse(layout, *raw); err == nil {
			return &parsed
		}
	}
	return nil
}
