package tasks

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func (*Repository) UpdateTask(ctx context.Context, q database.Queryable, task *model.Task) error {
	qb := database.PSQL.
		Update(database.TasksTable).
		SetMap(columnValues(&task.TaskCreate)).
		Where(sq.Eq{"id": task.ID})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}
