package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func (s *Service) GetTask(ctx context.Context, id int64) (*model.Task, error) {
	task, err := s.tasks.GetTaskByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.GetTaskByID: %w", err)
	}

	return task, nil
}

// GetOccurrences expands the tasks of the user's visible calendars around ref.
func (s *Service) GetOccurrences(ctx context.Context, userID int64, ref time.Time) ([]*model.Occurrence, error) {
	calendars, err := s.calendars.GetUserCalendars(ctx, s.db, userID)
	if err != nil {
		return nil, fmt.Errorf("calendarsRepository.GetUserCalendars: %w", err)
	}

	return s.GetCalendarsOccurrences(ctx, model.VisibleCalendars(calendars), ref)
}

// GetCalendarsOccurrences expands the tasks of the given calendars around ref.
func (s *Service) GetCalendarsOccurrences(ctx context.Context, calendars model.CalendarSet, ref time.Time) ([]*model.Occurrence, error) {
	if len(calendars) == 0 {
		return nil, nil
	}

	from, to := s.expander.Window(ref)
	tasks, err := s.tasks.GetTasks(ctx, s.db, model.TasksFilter{
		CalendarIDs: calendars.IDs(),
		From:        from,
		To:          to,
	})
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.GetTasks: %w", err)
	}

	return s.expander.Expand(tasks, ref, calendars), nil
}

// GetCalendarTasks returns the stored source tasks of one calendar.
func (s *Service) GetCalendarTasks(ctx context.Context, calendarID int64) ([]*model.Task, error) {
	tasks, err := s.tasks.GetTasks(ctx, s.db, model.TasksFilter{CalendarIDs: []int64{calendarID}})
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.GetTasks: %w", err)
	}

	return tasks, nil
}
