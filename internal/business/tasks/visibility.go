package tasks

import "github.com/SergeyKozhin/planner-calendar/internal/model"

// IsVisible reports whether the task's calendar is toggled on.
func IsVisible(t *model.Task, visible model.CalendarSet) bool {
	return visible.Contains(t.CalendarID)
}

func FilterVisible(tasks []*model.Task, visible model.CalendarSet) []*model.Task {
	res := make([]*model.Task, 0, len(tasks))
	for _, t := range tasks {
		if IsVisible(t, visible) {
			res = append(res, t)
		}
	}

	return res
}
