package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/recurrence"
)

// UpdateTask replaces the whole series.
func (s *Service) UpdateTask(ctx context.Context, id int64, info *model.TaskCreate) error {
	if err := checkRule(info); err != nil {
		return err
	}

	if _, err := s.tasks.GetTaskByID(ctx, s.db, id); err != nil {
		return fmt.Errorf("get old task: %w", err)
	}

	if err := s.tasks.UpdateTask(ctx, s.db, &model.Task{ID: id, TaskCreate: *info}); err != nil {
		return fmt.Errorf("tasksRepository.UpdateTask: %w", err)
	}

	return nil
}

// UpdateTaskInstance detaches the occurrence starting at ts from its series and stores
// info as a standalone task in its place.
func (s *Service) UpdateTaskInstance(ctx context.Context, id int64, ts time.Time, info *model.TaskCreate) (*model.Task, error) {
	oldTask, err := s.tasks.GetTaskByID(ctx, s.db, id)
	if err != nil {
		return nil, fmt.Errorf("get old task: %w", err)
	}

	if !oldTask.IsRecurring() {
		if err := s.UpdateTask(ctx, id, info); err != nil {
			return nil, err
		}
		return &model.Task{ID: id, TaskCreate: *info}, nil
	}

	rule, err := recurrence.ExcludeOccurrence(oldTask.RecurringRule, s.expander.Anchor(oldTask), ts)
	if err != nil {
		if errors.Is(err, recurrence.ErrNoOccurrence) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("exclude occurrence: %w", err)
	}

	detached := *info
	detached.RecurringRule = ""

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	oldTask.RecurringRule = rule
	if err := s.tasks.UpdateTask(ctx, tx, oldTask); err != nil {
		return nil, fmt.Errorf("tasksRepository.UpdateTask: %w", err)
	}

	newID, err := s.tasks.CreateTask(ctx, tx, &detached)
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.CreateTask: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return &model.Task{ID: newID, TaskCreate: detached}, nil
}
