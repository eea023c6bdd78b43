package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SergeyKozhin/planner-calendar/internal/business/tasks"
	"github.com/SergeyKozhin/planner-calendar/internal/business/views"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/pkg/validator"
)

var errCantRetrieveTask = errors.New("can't retrieve task from context")

type taskReq struct {
	CalendarID    flexID           `json:"calendar_id"`
	Title         string           `json:"title"`
	Description   string           `json:"description"`
	Date          dateTime         `json:"date"`
	EndDate       *dateTime        `json:"end_date"`
	IsAllDay      bool             `json:"is_all_day"`
	StartTime     string           `json:"start_time"`
	EndTime       string           `json:"end_time"`
	Color         string           `json:"color"`
	Participants  []flexID         `json:"participants"`
	Location      string           `json:"location"`
	Status        model.TaskStatus `json:"status"`
	RecurringRule string           `json:"recurring_rule"`
}

func (t *taskReq) validate(v *validator.Validator) {
	if t.Status == "" {
		t.Status = model.TaskStatusConfirmed
	}

	v.Check(len(t.Title) != 0, "title", "title must be provided")
	v.Check(!time.Time(t.Date).IsZero(), "date", "date must be provided")
	if t.EndDate != nil {
		v.Check(!time.Time(*t.EndDate).Before(time.Time(t.Date)), "end_date", "end date must not be before date")
	}
	if t.StartTime != "" {
		v.Check(validator.Matches(t.StartTime, validator.ClockRX), "start_time", "start time must be HH:MM")
	}
	if t.EndTime != "" {
		v.Check(validator.Matches(t.EndTime, validator.ClockRX), "end_time", "end time must be HH:MM")
	}
	if t.Color != "" {
		v.Check(validator.Matches(t.Color, validator.HexRX), "color", "color must be valid HEX color")
	}
	v.Check(t.Status.Valid(), "status", "status must be one of confirmed, tentative, cancelled")
}

func (t *taskReq) taskCreate(loc *time.Location, creator int64) *model.TaskCreate {
	res := &model.TaskCreate{
		CalendarID:    int64(t.CalendarID),
		Title:         t.Title,
		Description:   t.Description,
		Date:          time.Time(t.Date).In(loc),
		IsAllDay:      t.IsAllDay,
		StartTime:     t.StartTime,
		EndTime:       t.EndTime,
		Color:         t.Color,
		Participants:  flexIDs(t.Participants),
		Location:      t.Location,
		Status:        t.Status,
		RecurringRule: t.RecurringRule,
		CreatedBy:     &creator,
	}

	if t.EndDate != nil {
		end := time.Time(*t.EndDate).In(loc)
		res.EndDate = &end
	}

	return res
}

func (a *Api) readTask(w http.ResponseWriter, r *http.Request, userID int64) (*model.TaskCreate, bool) {
	req := &taskReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return nil, false
	}

	v := validator.New()
	req.validate(v)

	if v.Valid() {
		calendar, err := a.calendars.GetCalendar(r.Context(), a.db, int64(req.CalendarID))
		switch {
		case errors.Is(err, model.ErrNoRecord):
			v.AddError("calendar_id", "calendar does not exist")
		case err != nil:
			a.serverErrorResponse(w, r, fmt.Errorf("get calendar: %w", err))
			return nil, false
		case !isMember(calendar, userID):
			v.AddError("calendar_id", "calendar does not exist")
		}
	}

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return nil, false
	}

	return req.taskCreate(a.location, userID), true
}

func (a *Api) createTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	info, ok := a.readTask(w, r, userID)
	if !ok {
		return
	}

	task, err := a.tasksService.CreateTask(r.Context(), info)
	if err != nil {
		a.taskErrorResponse(w, r, fmt.Errorf("create task: %w", err))
		return
	}

	resp, _ := mapToTaskResp(task)

	if err := a.writeJSON(w, http.StatusCreated, resp); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) getTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, ok := r.Context().Value(contextKeyTask).(*model.Task)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTask)
		return
	}

	resp, _ := mapToTaskResp(task)

	if err := a.writeJSON(w, http.StatusOK, resp); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

// updateTaskHandler replaces the whole series, or only the occurrence given in the
// occurrence query parameter.
func (a *Api) updateTaskHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	task, ok := r.Context().Value(contextKeyTask).(*model.Task)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTask)
		return
	}

	occurrence, err := parseOccurrenceParam(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	info, ok := a.readTask(w, r, userID)
	if !ok {
		return
	}
	info.CreatedBy = task.CreatedBy

	if occurrence.IsZero() {
		if err := a.tasksService.UpdateTask(r.Context(), task.ID, info); err != nil {
			a.taskErrorResponse(w, r, fmt.Errorf("update task: %w", err))
			return
		}

		resp, _ := mapToTaskResp(&model.Task{ID: task.ID, TaskCreate: *info})
		if err := a.writeJSON(w, http.StatusOK, resp); err != nil {
			a.serverErrorResponse(w, r, err)
		}
		return
	}

	detached, err := a.tasksService.UpdateTaskInstance(r.Context(), task.ID, occurrence, info)
	if err != nil {
		a.taskErrorResponse(w, r, fmt.Errorf("update task instance: %w", err))
		return
	}

	resp, _ := mapToTaskResp(detached)
	if err := a.writeJSON(w, http.StatusOK, resp); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) deleteTaskHandler(w http.ResponseWriter, r *http.Request) {
	task, ok := r.Context().Value(contextKeyTask).(*model.Task)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveTask)
		return
	}

	scope := model.DeleteScope(r.URL.Query().Get("scope"))
	if scope == "" {
		scope = model.DeleteScopeAll
	}

	occurrence, err := parseOccurrenceParam(r)
	if err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	v.Check(validator.In(string(scope), string(model.DeleteScopeThis), string(model.DeleteScopeFuture), string(model.DeleteScopeAll)),
		"scope", "scope must be one of this, future, all")
	if scope != model.DeleteScopeAll {
		v.Check(!occurrence.IsZero(), "occurrence", "occurrence must be provided")
	}
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.tasksService.DeleteTask(r.Context(), task.ID, scope, occurrence); err != nil {
		a.taskErrorResponse(w, r, fmt.Errorf("delete task: %w", err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

// getTasksViewHandler expands the user's visible calendars and lays the occurrences out as
// a month grid, a week, a single day or a date-grouped list.
func (a *Api) getTasksViewHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	today := a.now().In(a.location)

	kind := views.Kind(r.URL.Query().Get("view"))
	if kind == "" {
		kind = views.KindMonth
	}

	current := today
	if d := r.URL.Query().Get("date"); d != "" {
		var err error
		current, err = time.ParseInLocation(model.DateLayout, d, a.location)
		if err != nil {
			a.badRequestResponse(w, r, fmt.Errorf("invalid date format: %w", err))
			return
		}
	}

	if !kind.Valid() {
		a.failedValidationResponse(w, r, map[string]string{"view": "view must be one of month, week, day, list"})
		return
	}

	occurrences, err := a.tasksService.GetOccurrences(r.Context(), userID, current)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get occurrences: %w", err))
		return
	}

	var resp interface{}
	switch kind {
	case views.KindMonth:
		resp, _ = mapSlice(a.views.Month(current, today, occurrences), mapToDayResp)
	case views.KindWeek:
		resp, _ = mapSlice(a.views.Week(current, today, occurrences), mapToDayResp)
	case views.KindDay:
		resp, _ = mapToDayResp(a.views.Day(current, today, occurrences))
	case views.KindList:
		resp, _ = mapSlice(a.views.List(occurrences), mapToDateGroupResp)
	}

	if err := a.writeJSON(w, http.StatusOK, resp); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) taskErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var ruleErr *tasks.InvalidRuleError
	switch {
	case errors.As(err, &ruleErr):
		a.failedValidationResponse(w, r, map[string]string{"recurring_rule": ruleErr.Error()})
	case errors.Is(err, model.ErrNoRecord):
		a.notFoundResponse(w, r)
	default:
		a.serverErrorResponse(w, r, err)
	}
}
