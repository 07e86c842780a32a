package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	Text      string     `json:"text" db:"text"`
	Completed bool       `json:"completed" db:"completed"`
	DueDate   *time.Time `json:"dueDate" db:"due_date"`
	Position  *Position  `json:"position"`
	CreatedAt time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" db:"updated_at"`
}

// Position - координаты карточки на доске, сервер их не интерпретирует
type Position struct {
	X float64 `json:"x" db:"pos_x"`
	Y float64 `json:"y" db:"pos_y"`
}

// Clone возвращает независимую копию задачи,
// чтобы хранилище не отдавало ссылки на своё состояние
func (t *Task) Clone() *Task {
	if t == nil {
		return nil
	}
	clone := *t
	if t.DueDate != nil {
		due := *t.DueDate
		clone.DueDate = &due
	}
	if t.Position != nil {
		pos := *t.Position
		clone.Position = &pos
	}
	return &clone
}
