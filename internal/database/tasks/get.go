package tasks

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func (*Repository) GetTaskByID(ctx context.Context, q database.Queryable, id int64) (*model.Task, error) {
	qb := baseQuery.
		Where(sq.Eq{"id": id})

	dto := &taskDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToTask(dto), nil
}

// GetTasks returns tasks of the filtered calendars. With a time range set, one-off tasks
// outside of it are skipped; recurring tasks are always returned since their anchor may
// lie before the range.
func (*Repository) GetTasks(ctx context.Context, q database.Queryable, filter model.TasksFilter) ([]*model.Task, error) {
	qb := baseQuery.
		OrderBy("date", "id")

	if len(filter.CalendarIDs) != 0 {
		qb = qb.Where(sq.Eq{"calendar_id": filter.CalendarIDs})
	}

	if !filter.From.IsZero() && !filter.To.IsZero() {
		qb = qb.Where(sq.Or{
			sq.NotEq{"recurring_rule": ""},
			sq.And{
				sq.LtOrEq{"date": filter.To},
				sq.Expr("coalesce(end_date, date) >= ?", filter.From),
			},
		})
	}

	var dtos []*taskDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Task, len(dtos))
	for i, d := range dtos {
		res[i] = mapToTask(d)
	}

	return res, nil
}
