package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/SergeyKozhin/planner-calendar/internal/business/views"
	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

type Api struct {
	handler  http.Handler
	logger   *zap.SugaredLogger
	location *time.Location
	views    *views.Builder
	now      func() time.Time

	jwts jwtManager

	db           database.PGX
	users        userRepository
	calendars    calendarRepository
	tasksService tasksService
}

type jwtManager interface {
	GetIdFromToken(token string) (int64, error)
}

type userRepository interface {
	GetUserByID(ctx context.Context, q database.Queryable, id int64) (*model.User, error)
}

type calendarRepository interface {
	CreateCalendar(ctx context.Context, q database.Queryable, calendar *model.CalendarCreate) (int64, error)
	AddUserToCalendar(ctx context.Context, q database.Queryable, settings *model.CalendarSettings) error
	GetCalendar(ctx context.Context, q database.Queryable, id int64) (*model.Calendar, error)
	GetUserCalendars(ctx context.Context, q database.Queryable, userID int64) ([]*model.UserCalendar, error)
	UpdateCalendarSettings(ctx context.Context, q database.Queryable, settings *model.CalendarSettings) error
	UpdateNotifications(ctx context.Context, q database.Queryable, calendarID int64, n model.NotificationSettings) error
}

type tasksService interface {
	CreateTask(ctx context.Context, info *model.TaskCreate) (*model.Task, error)
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	GetOccurrences(ctx context.Context, userID int64, ref time.Time) ([]*model.Occurrence, error)
	GetCalendarTasks(ctx context.Context, calendarID int64) ([]*model.Task, error)
	UpdateTask(ctx context.Context, id int64, info *model.TaskCreate) error
	UpdateTaskInstance(ctx context.Context, id int64, ts time.Time, info *model.TaskCreate) (*model.Task, error)
	DeleteTask(ctx context.Context, id int64, scope model.DeleteScope, ts time.Time) error
}

func NewApi(
	logger *zap.SugaredLogger,
	location *time.Location,
	builder *views.Builder,
	jwts jwtManager,
	db database.PGX,
	users userRepository,
	calendars calendarRepository,
	tasksService tasksService,
) (*Api, error) {
	a := &Api{
		logger:       logger,
		location:     location,
		views:        builder,
		now:          time.Now,
		jwts:         jwts,
		db:           db,
		users:        users,
		calendars:    calendars,
		tasksService: tasksService,
	}
	a.setupHandler()

	return a, nil
}

func (a *Api) setupHandler() {
	middleware.DefaultLogger = func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			a.logger.Debugw(r.URL.RequestURI(),
				"addr", r.RemoteAddr,
				"protocol", r.Proto,
				"method", r.Method,
			)
			next.ServeHTTP(w, r)
		})
	}

	r := chi.NewMux()

	r.Use(middleware.Logger, middleware.Recoverer, middleware.StripSlashes)
	r.NotFound(a.notFoundResponse)
	r.MethodNotAllowed(a.methodNotAllowedResponse)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.With(a.auth).Route("/", func(r chi.Router) {
		r.With(a.userCtx).Get("/user", a.getUserHandler)

		r.Route("/calendars", func(r chi.Router) {
			r.Get("/", a.getCalendarsHandler)
			r.Post("/", a.createCalendarHandler)

			r.With(a.calendarCtx).Route("/{calendarID}", func(r chi.Router) {
				r.Patch("/visibility", a.updateCalendarSettingsHandler)
				r.Put("/notifications", a.updateNotificationsHandler)
				r.Get("/export.ics", a.exportCalendarHandler)
			})
		})

		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", a.getTasksViewHandler)
			r.Post("/", a.createTaskHandler)

			r.With(a.taskCtx).Route("/{taskID}", func(r chi.Router) {
				r.Get("/", a.getTaskHandler)
				r.Put("/", a.updateTaskHandler)
				r.Delete("/", a.deleteTaskHandler)
			})
		})
	})

	a.handler = r
}

func (a *Api) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.handler.ServeHTTP(w, r)
}
