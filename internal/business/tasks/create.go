package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/recurrence"
)

func (s *Service) CreateTask(ctx context.Context, info *model.TaskCreate) (*model.Task, error) {
	if err := checkRule(info); err != nil {
		return nil, err
	}

	id, err := s.tasks.CreateTask(ctx, s.db, info)
	if err != nil {
		return nil, fmt.Errorf("tasksRepository.CreateTask: %w", err)
	}

	return &model.Task{ID: id, TaskCreate: *info}, nil
}

// checkRule rejects rules that would only ever show the task unexpanded.
func checkRule(info *model.TaskCreate) error {
	if info.RecurringRule == "" {
		return nil
	}

	if _, err := recurrence.Parse(info.RecurringRule, info.Date); err != nil {
		var parseErr *recurrence.ParseError
		if errors.As(err, &parseErr) {
			return &InvalidRuleError{Err: parseErr}
		}
		return err
	}

	return nil
}

type InvalidRuleError struct {
	Err error
}

func (e *InvalidRuleError) Error() string {
	return e.Err.Error()
}

func (e *InvalidRuleError) Unwrap() error {
	return e.Err
}
