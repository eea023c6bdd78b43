package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/pkg/jwt"
)

type contextKey string

const (
	contextKeyID       = contextKey("id")
	contextKeyUser     = contextKey("user")
	contextKeyCalendar = contextKey("calendar")
	contextKeyTask     = contextKey("task")
)

var errCantRetrieveID = errors.New("can't retrieve id")

func (a *Api) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			a.unauthorizedResponse(w, r, errors.New("no token provided"))
			return
		}

		token = strings.TrimPrefix(token, "Bearer ")

		id, err := a.jwts.GetIdFromToken(token)
		if err != nil {
			invalidTokenErr := &jwt.InvalidTokenError{}
			switch {
			case errors.As(err, &invalidTokenErr):
				a.unauthorizedResponse(w, r, invalidTokenErr)
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		idContext := context.WithValue(r.Context(), contextKeyID, id)
		next.ServeHTTP(w, r.WithContext(idContext))
	})
}

func (a *Api) userCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := r.Context().Value(contextKeyID).(int64)
		if !ok {
			a.serverErrorResponse(w, r, errCantRetrieveID)
			return
		}

		user, err := a.users.GetUserByID(r.Context(), a.db, id)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoRecord):
				a.forbiddenResponse(w, r, "user does not exists")
			default:
				a.serverErrorResponse(w, r, err)
			}
			return
		}

		userCtx := context.WithValue(r.Context(), contextKeyUser, user)
		next.ServeHTTP(w, r.WithContext(userCtx))
	})
}

// calendarCtx loads the calendar from the URL. Calendars the user is not a member of are
// reported as missing.
func (a *Api) calendarCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(contextKeyID).(int64)
		if !ok {
			a.serverErrorResponse(w, r, errCantRetrieveID)
			return
		}

		calendarID, err := strconv.ParseInt(chi.URLParam(r, "calendarID"), 10, 64)
		if err != nil {
			a.notFoundResponse(w, r)
			return
		}

		calendar, ok := a.memberCalendar(w, r, calendarID, userID)
		if !ok {
			return
		}

		calendarCtx := context.WithValue(r.Context(), contextKeyCalendar, calendar)
		next.ServeHTTP(w, r.WithContext(calendarCtx))
	})
}

func (a *Api) taskCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := r.Context().Value(contextKeyID).(int64)
		if !ok {
			a.serverErrorResponse(w, r, errCantRetrieveID)
			return
		}

		taskID, err := strconv.ParseInt(chi.URLParam(r, "taskID"), 10, 64)
		if err != nil {
			a.notFoundResponse(w, r)
			return
		}

		task, err := a.tasksService.GetTask(r.Context(), taskID)
		if err != nil {
			switch {
			case errors.Is(err, model.ErrNoRecord):
				a.notFoundResponse(w, r)
			default:
				a.serverErrorResponse(w, r, fmt.Errorf("get task: %w", err))
			}
			return
		}

		if _, ok := a.memberCalendar(w, r, task.CalendarID, userID); !ok {
			return
		}

		taskCtx := context.WithValue(r.Context(), contextKeyTask, task)
		next.ServeHTTP(w, r.WithContext(taskCtx))
	})
}

// memberCalendar writes a response and returns false unless userID is a member of the calendar.
func (a *Api) memberCalendar(w http.ResponseWriter, r *http.Request, calendarID, userID int64) (*model.Calendar, bool) {
	calendar, err := a.calendars.GetCalendar(r.Context(), a.db, calendarID)
	if err != nil {
		switch {
		case errors.Is(err, model.ErrNoRecord):
			a.notFoundResponse(w, r)
		default:
			a.serverErrorResponse(w, r, fmt.Errorf("get calendar: %w", err))
		}
		return nil, false
	}

	if !isMember(calendar, userID) {
		a.notFoundResponse(w, r)
		return nil, false
	}

	return calendar, true
}

func isMember(calendar *model.Calendar, userID int64) bool {
	for _, id := range calendar.UsersIDs {
		if id == userID {
			return true
		}
	}

	return false
}
