package task

import (
	"time"
)

// TaskOption - функция частичного обновления задачи
type TaskOption func(*Task)

func WithText(text string) TaskOption {
	return func(task *Task) {
		task.Text = text
	}
}

func WithCompleted(completed bool) TaskOption {
	return func(task *Task) {
		task.Completed = completed
	}
}

// WithDueDate принимает nil как «сбросить дедлайн»
func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		if dueDate == nil {
			task.DueDate = nil
			return
		}
		due := *dueDate
		task.DueDate = &due
	}
}

func WithPosition(position *Position) TaskOption {
	return func(task *Task) {
		if position == nil {
			task.Position = nil
			return
		}
		pos := *position
		task.Position = &pos
	}
}
