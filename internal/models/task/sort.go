package task

import "sort"

// SortTasks сортирует задачи по контракту выдачи:
// невыполненные раньше выполненных, внутри группы по возрастанию дедлайна,
// задачи без дедлайна в конце, при равенстве - по времени создания
func SortTasks(tasks []*Task) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return Less(tasks[i], tasks[j])
	})
}

func Less(a, b *Task) bool {
	if a.Completed != b.Completed {
		return !a.Completed
	}

	switch {
	case a.DueDate == nil && b.DueDate == nil:
		// обе без дедлайна
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	case !a.DueDate.Equal(*b.DueDate):
		return a.DueDate.Before(*b.DueDate)
	}

	return a.CreatedAt.Before(b.CreatedAt)
}
