package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/recurrence"
)

// DeleteTask removes the task, the occurrence starting at ts, or that occurrence and every
// later one, depending on scope. ts is ignored for DeleteScopeAll.
func (s *Service) DeleteTask(ctx context.Context, id int64, scope model.DeleteScope, ts time.Time) error {
	task, err := s.tasks.GetTaskByID(ctx, s.db, id)
	if err != nil {
		return fmt.Errorf("tasksRepository.GetTaskByID: %w", err)
	}

	if scope == model.DeleteScopeAll || !task.IsRecurring() {
		return s.deleteTask(ctx, id)
	}

	var rule string
	switch scope {
	case model.DeleteScopeThis:
		rule, err = recurrence.ExcludeOccurrence(task.RecurringRule, s.expander.Anchor(task), ts)
	case model.DeleteScopeFuture:
		var ok bool
		rule, ok, err = recurrence.EndBefore(task.RecurringRule, s.expander.Anchor(task), ts)
		if err == nil && !ok {
			return s.deleteTask(ctx, id)
		}
	default:
		return fmt.Errorf("unknown delete scope %q", scope)
	}

	if err != nil {
		var parseErr *recurrence.ParseError
		switch {
		case errors.Is(err, recurrence.ErrNoOccurrence):
			return model.ErrNoRecord
		case errors.As(err, &parseErr):
			// Shown as a single unexpanded task, so it goes as a whole.
			return s.deleteTask(ctx, id)
		default:
			return fmt.Errorf("edit rule: %w", err)
		}
	}

	task.RecurringRule = rule
	if err := s.tasks.UpdateTask(ctx, s.db, task); err != nil {
		return fmt.Errorf("tasksRepository.UpdateTask: %w", err)
	}

	return nil
}

func (s *Service) deleteTask(ctx context.Context, id int64) error {
	if err := s.tasks.DeleteTask(ctx, s.db, id); err != nil {
		return fmt.Errorf("tasksRepository.DeleteTask: %w", err)
	}

	return nil
}
