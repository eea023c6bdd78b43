package tasks

import (
	"context"

	"go.uber.org/zap"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

type Service struct {
	db        database.PGX
	logger    *zap.SugaredLogger
	expander  *Expander
	tasks     tasksRepository
	calendars calendarsRepository
}

type tasksRepository interface {
	CreateTask(ctx context.Context, q database.Queryable, task *model.TaskCreate) (int64, error)
	GetTaskByID(ctx context.Context, q database.Queryable, id int64) (*model.Task, error)
	GetTasks(ctx context.Context, q database.Queryable, filter model.TasksFilter) ([]*model.Task, error)
	UpdateTask(ctx context.Context, q database.Queryable, task *model.Task) error
	DeleteTask(ctx context.Context, q database.Queryable, id int64) error
}

type calendarsRepository interface {
	GetUserCalendars(ctx context.Context, q database.Queryable, userID int64) ([]*model.UserCalendar, error)
}

func NewService(
	db database.PGX,
	logger *zap.SugaredLogger,
	expander *Expander,
	tasks tasksRepository,
	calendars calendarsRepository,
) *Service {
	return &Service{
		db:        db,
		logger:    logger,
		expander:  expander,
		tasks:     tasks,
		calendars: calendars,
	}
}
