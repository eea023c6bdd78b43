package tasks

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func (*Repository) CreateTask(ctx context.Context, q database.Queryable, task *model.TaskCreate) (int64, error) {
	qb := database.PSQL.
		Insert(database.TasksTable).
		SetMap(columnValues(task)).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}
