package tasks

import (
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

type taskDTO struct {
	ID            int64      `db:"id"`
	CalendarID    int64      `db:"calendar_id"`
	Title         string     `db:"title"`
	Description   string     `db:"description"`
	Date          time.Time  `db:"date"`
	EndDate       *time.Time `db:"end_date"`
	IsAllDay      bool       `db:"is_all_day"`
	StartTime     string     `db:"start_time"`
	EndTime       string     `db:"end_time"`
	Color         string     `db:"color"`
	Participants  []int64    `db:"participants"`
	Location      string     `db:"location"`
	Status        string     `db:"status"`
	RecurringRule string     `db:"recurring_rule"`
	CreatedBy     *int64     `db:"created_by"`
}

func mapToTask(dto *taskDTO) *model.Task {
	return &model.Task{
		ID: dto.ID,
		TaskCreate: model.TaskCreate{
			CalendarID:    dto.CalendarID,
			Title:         dto.Title,
			Description:   dto.Description,
			Date:          dto.Date,
			EndDate:       dto.EndDate,
			IsAllDay:      dto.IsAllDay,
			StartTime:     dto.StartTime,
			EndTime:       dto.EndTime,
			Color:         dto.Color,
			Participants:  dto.Participants,
			Location:      dto.Location,
			Status:        model.TaskStatus(dto.Status),
			RecurringRule: dto.RecurringRule,
			CreatedBy:     dto.CreatedBy,
		},
	}
}

func columnValues(task *model.TaskCreate) map[string]interface{} {
	participants := task.Participants
	if participants == nil {
		participants = []int64{}
	}

	return map[string]interface{}{
		"calendar_id":    task.CalendarID,
		"title":          task.Title,
		"description":    task.Description,
		"date":           task.Date,
		"end_date":       task.EndDate,
		"is_all_day":     task.IsAllDay,
		"start_time":     task.StartTime,
		"end_time":       task.EndTime,
		"color":          task.Color,
		"participants":   participants,
		"location":       task.Location,
		"status":         string(task.Status),
		"recurring_rule": task.RecurringRule,
		"created_by":     task.CreatedBy,
	}
}
