package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/SergeyKozhin/planner-calendar/internal/business/tasks"
	"github.com/SergeyKozhin/planner-calendar/internal/business/views"
	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/pkg/jwt"
)

const testToken = "Bearer good"

type jwtStub struct{}

func (jwtStub) GetIdFromToken(token string) (int64, error) {
	if token != "good" {
		return 0, &jwt.InvalidTokenError{}
	}
	return 1, nil
}

type usersStub struct{}

func (usersStub) GetUserByID(_ context.Context, _ database.Queryable, id int64) (*model.User, error) {
	return &model.User{ID: id, UserCreate: model.UserCreate{FullName: "Jane Doe"}}, nil
}

type dbStub struct{}

func (dbStub) Exec(context.Context, database.Sqlizer) (pgconn.CommandTag, error) { return nil, nil }
func (dbStub) Get(context.Context, interface{}, database.Sqlizer) error          { return nil }
func (dbStub) Select(context.Context, interface{}, database.Sqlizer) error       { return nil }
func (dbStub) ExecRaw(context.Context, string, ...interface{}) (pgconn.CommandTag, error) {
	return nil, nil
}
func (dbStub) GetPool(context.Context) *pgxpool.Pool { return nil }
func (dbStub) BeginTx(context.Context, *pgx.TxOptions) (database.Tx, error) {
	return txStub{}, nil
}

type txStub struct {
	dbStub
}

func (txStub) Commit(context.Context) error   { return nil }
func (txStub) Rollback(context.Context) error { return nil }

type calendarsStub struct {
	calendars map[int64]*model.Calendar
	added     []*model.CalendarSettings
	updated   *model.CalendarSettings
}

func (c *calendarsStub) CreateCalendar(context.Context, database.Queryable, *model.CalendarCreate) (int64, error) {
	return 10, nil
}

func (c *calendarsStub) AddUserToCalendar(_ context.Context, _ database.Queryable, settings *model.CalendarSettings) error {
	c.added = append(c.added, settings)
	return nil
}

func (c *calendarsStub) GetCalendar(_ context.Context, _ database.Queryable, id int64) (*model.Calendar, error) {
	cal, ok := c.calendars[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return cal, nil
}

func (c *calendarsStub) GetUserCalendars(_ context.Context, _ database.Queryable, userID int64) ([]*model.UserCalendar, error) {
	var res []*model.UserCalendar
	for _, cal := range c.calendars {
		if isMember(cal, userID) {
			res = append(res, &model.UserCalendar{Calendar: *cal, Visible: true})
		}
	}
	return res, nil
}

func (c *calendarsStub) UpdateCalendarSettings(_ context.Context, _ database.Queryable, settings *model.CalendarSettings) error {
	c.updated = settings
	return nil
}

func (c *calendarsStub) UpdateNotifications(context.Context, database.Queryable, int64, model.NotificationSettings) error {
	return nil
}

type tasksStub struct {
	tasks       map[int64]*model.Task
	occurrences []*model.Occurrence
	created     *model.TaskCreate
	createErr   error
	deleted     []model.DeleteScope
	deleteErr   error
}

func (s *tasksStub) CreateTask(_ context.Context, info *model.TaskCreate) (*model.Task, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = info
	return &model.Task{ID: 99, TaskCreate: *info}, nil
}

func (s *tasksStub) GetTask(_ context.Context, id int64) (*model.Task, error) {
	t, ok := s.tasks[id]
	if !ok {
		return nil, model.ErrNoRecord
	}
	return t, nil
}

func (s *tasksStub) GetOccurrences(context.Context, int64, time.Time) ([]*model.Occurrence, error) {
	return s.occurrences, nil
}

func (s *tasksStub) GetCalendarTasks(_ context.Context, calendarID int64) ([]*model.Task, error) {
	var res []*model.Task
	for _, t := range s.tasks {
		if t.CalendarID == calendarID {
			res = append(res, t)
		}
	}
	return res, nil
}

func (s *tasksStub) UpdateTask(context.Context, int64, *model.TaskCreate) error {
	return nil
}

func (s *tasksStub) UpdateTaskInstance(_ context.Context, _ int64, _ time.Time, info *model.TaskCreate) (*model.Task, error) {
	return &model.Task{ID: 100, TaskCreate: *info}, nil
}

func (s *tasksStub) DeleteTask(_ context.Context, _ int64, scope model.DeleteScope, _ time.Time) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deleted = append(s.deleted, scope)
	return nil
}

func newTestApi(t *testing.T) (*Api, *calendarsStub, *tasksStub) {
	t.Helper()

	calendars := &calendarsStub{calendars: map[int64]*model.Calendar{
		1: {ID: 1, UsersIDs: []int64{1, 2}, CalendarCreate: model.CalendarCreate{Name: "work"}},
		2: {ID: 2, UsersIDs: []int64{2}, CalendarCreate: model.CalendarCreate{Name: "private"}},
	}}
	tasksService := &tasksStub{tasks: map[int64]*model.Task{
		5: {ID: 5, TaskCreate: model.TaskCreate{
			CalendarID:    1,
			Title:         "Standup",
			Date:          time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC),
			RecurringRule: "FREQ=WEEKLY;COUNT=4",
			Status:        model.TaskStatusConfirmed,
		}},
		6: {ID: 6, TaskCreate: model.TaskCreate{CalendarID: 2, Title: "Secret"}},
	}}

	a, err := NewApi(
		zap.NewNop().Sugar(),
		time.UTC,
		views.NewBuilder(time.Monday, time.UTC),
		jwtStub{},
		dbStub{},
		usersStub{},
		calendars,
		tasksService,
	)
	require.NoError(t, err)
	a.now = func() time.Time { return time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC) }

	return a, calendars, tasksService
}

func do(a *Api, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Authorization", testToken)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	a, _, _ := newTestApi(t)

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	rec := httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req.Header.Set("Authorization", "Bearer bad")
	rec = httptest.NewRecorder()
	a.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(a, http.MethodGet, "/user", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Jane Doe")
}

func TestGetTasksMonthView(t *testing.T) {
	a, _, tasksService := newTestApi(t)
	start := time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)
	tasksService.occurrences = []*model.Occurrence{{
		OccurrenceID: "5-recur-0",
		Task:         *tasksService.tasks[5],
	}}
	tasksService.occurrences[0].Date = start

	rec := do(a, http.MethodGet, "/tasks?view=month&date=2025-05-10", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dayResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 35)
	assert.Equal(t, "2025-04-28", resp[0].Date)
	assert.False(t, resp[0].IsCurrentMonth)
	assert.True(t, resp[22].IsToday)

	require.Len(t, resp[7].Tasks, 1)
	assert.Equal(t, "2025-05-05", resp[7].Date)
	assert.Equal(t, "5-recur-0", resp[7].Tasks[0].OccurrenceID)
	assert.True(t, resp[7].Tasks[0].IsInstance)
}

func TestGetTasksInvalidQuery(t *testing.T) {
	a, _, _ := newTestApi(t)

	assert.Equal(t, http.StatusUnprocessableEntity, do(a, http.MethodGet, "/tasks?view=year", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(a, http.MethodGet, "/tasks?date=10.05.2025", "").Code)
}

func TestGetTasksListView(t *testing.T) {
	a, _, tasksService := newTestApi(t)
	tasksService.occurrences = []*model.Occurrence{
		{OccurrenceID: "7", Sequence: -1, Task: model.Task{ID: 7, TaskCreate: model.TaskCreate{Date: time.Date(2025, 5, 7, 9, 0, 0, 0, time.UTC)}}},
		{OccurrenceID: "8", Sequence: -1, Task: model.Task{ID: 8, TaskCreate: model.TaskCreate{Date: time.Date(2025, 5, 5, 9, 0, 0, 0, time.UTC)}}},
	}

	rec := do(a, http.MethodGet, "/tasks?view=list", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp []dateGroupResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "2025-05-05", resp[0].Date)
	assert.Equal(t, "2025-05-07", resp[1].Date)
}

func TestCreateTask(t *testing.T) {
	a, _, tasksService := newTestApi(t)

	rec := do(a, http.MethodPost, "/tasks", `{
		"calendar_id": "1",
		"title": "Gym",
		"date": "2025-05-05T18:00:00Z",
		"end_date": "2025-05-05T19:00:00Z",
		"start_time": "18:00",
		"participants": [2, "3"],
		"recurring_rule": "FREQ=WEEKLY"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	require.NotNil(t, tasksService.created)
	assert.Equal(t, int64(1), tasksService.created.CalendarID)
	assert.Equal(t, []int64{2, 3}, tasksService.created.Participants)
	assert.Equal(t, model.TaskStatusConfirmed, tasksService.created.Status)
	require.NotNil(t, tasksService.created.CreatedBy)
	assert.Equal(t, int64(1), *tasksService.created.CreatedBy)
}

func TestCreateTaskValidation(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		field string
	}{
		{
			name:  "foreign calendar",
			body:  `{"calendar_id": 2, "title": "x", "date": "2025-05-05T18:00:00Z"}`,
			field: "calendar_id",
		},
		{
			name:  "missing title",
			body:  `{"calendar_id": 1, "date": "2025-05-05T18:00:00Z"}`,
			field: "title",
		},
		{
			name:  "bad clock",
			body:  `{"calendar_id": 1, "title": "x", "date": "2025-05-05T18:00:00Z", "start_time": "25:00"}`,
			field: "start_time",
		},
		{
			name:  "end before start",
			body:  `{"calendar_id": 1, "title": "x", "date": "2025-05-05T18:00:00Z", "end_date": "2025-05-05T17:00:00Z"}`,
			field: "end_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _, _ := newTestApi(t)

			rec := do(a, http.MethodPost, "/tasks", tt.body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

			var resp struct {
				Error map[string]string `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Contains(t, resp.Error, tt.field)
		})
	}
}

func TestCreateTaskInvalidRule(t *testing.T) {
	a, _, tasksService := newTestApi(t)
	tasksService.createErr = &tasks.InvalidRuleError{Err: errors.New("unsupported frequency")}

	rec := do(a, http.MethodPost, "/tasks", `{"calendar_id": 1, "title": "x", "date": "2025-05-05T18:00:00Z", "recurring_rule": "FREQ=HOURLY"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "recurring_rule")
}

func TestTaskPermissions(t *testing.T) {
	a, _, tasksService := newTestApi(t)

	assert.Equal(t, http.StatusNotFound, do(a, http.MethodGet, "/tasks/6", "").Code)
	assert.Equal(t, http.StatusNotFound, do(a, http.MethodDelete, "/tasks/6", "").Code)
	assert.Equal(t, http.StatusNotFound, do(a, http.MethodGet, "/tasks/404", "").Code)
	assert.Equal(t, http.StatusNotFound, do(a, http.MethodGet, "/tasks/abc", "").Code)
	assert.Empty(t, tasksService.deleted)

	rec := do(a, http.MethodGet, "/tasks/5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"recurring_rule":"FREQ=WEEKLY;COUNT=4"`)
}

func TestDeleteTask(t *testing.T) {
	a, _, tasksService := newTestApi(t)

	assert.Equal(t, http.StatusUnprocessableEntity, do(a, http.MethodDelete, "/tasks/5?scope=this", "").Code)
	assert.Equal(t, http.StatusUnprocessableEntity, do(a, http.MethodDelete, "/tasks/5?scope=some", "").Code)
	assert.Equal(t, http.StatusBadRequest, do(a, http.MethodDelete, "/tasks/5?scope=this&occurrence=yesterday", "").Code)

	assert.Equal(t, http.StatusOK, do(a, http.MethodDelete, "/tasks/5?scope=this&occurrence=2025-05-12T09:00:00Z", "").Code)
	assert.Equal(t, http.StatusOK, do(a, http.MethodDelete, "/tasks/5", "").Code)
	assert.Equal(t, []model.DeleteScope{model.DeleteScopeThis, model.DeleteScopeAll}, tasksService.deleted)

	tasksService.deleteErr = model.ErrNoRecord
	assert.Equal(t, http.StatusNotFound, do(a, http.MethodDelete, "/tasks/5?scope=future&occurrence=2025-05-13T09:00:00Z", "").Code)
}

func TestUpdateTaskInstance(t *testing.T) {
	a, _, _ := newTestApi(t)

	rec := do(a, http.MethodPut, "/tasks/5?occurrence=2025-05-12T09:00:00Z",
		`{"calendar_id": 1, "title": "Moved", "date": "2025-05-12T15:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp taskResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "Moved", resp.Title)
}

func TestCalendars(t *testing.T) {
	a, calendars, _ := newTestApi(t)

	rec := do(a, http.MethodGet, "/calendars", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []calendarResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "work", list[0].Name)

	rec = do(a, http.MethodPost, "/calendars", `{"name": "family", "color": "#FF0000", "users_ids": ["2", 1]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, calendars.added, 2)
	assert.Equal(t, int64(1), calendars.added[0].UserID)
	assert.Equal(t, int64(2), calendars.added[1].UserID)

	rec = do(a, http.MethodPatch, "/calendars/1/visibility", `{"visible": false}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	require.NotNil(t, calendars.updated)
	assert.False(t, calendars.updated.Visible)

	assert.Equal(t, http.StatusNotFound, do(a, http.MethodPatch, "/calendars/2/visibility", `{"visible": false}`).Code)

	rec = do(a, http.MethodPut, "/calendars/1/notifications", `{"channel": "fax"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = do(a, http.MethodPut, "/calendars/1/notifications", `{"channel": "email", "lead_time_minutes": 30, "repeat_count": 2}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateNotificationsBounds(t *testing.T) {
	a, _, _ := newTestApi(t)

	tests := []struct {
		body   string
		status int
	}{
		{body: `{"channel": "push", "lead_time_minutes": 40320, "repeat_count": 10}`, status: http.StatusOK},
		{body: `{"channel": "push", "lead_time_minutes": 40321, "repeat_count": 1}`, status: http.StatusUnprocessableEntity},
		{body: `{"channel": "push", "lead_time_minutes": 10080, "repeat_count": 100000}`, status: http.StatusUnprocessableEntity},
		{body: `{"channel": "push", "lead_time_minutes": -1}`, status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			rec := do(a, http.MethodPut, "/calendars/1/notifications", tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestExportCalendar(t *testing.T) {
	a, _, _ := newTestApi(t)

	rec := do(a, http.MethodGet, "/calendars/1/export.ics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "SUMMARY:Standup")
	assert.Contains(t, rec.Body.String(), "FREQ=WEEKLY;COUNT=4")
	assert.NotContains(t, rec.Body.String(), "Secret")
}

func TestFlexID(t *testing.T) {
	var ids []flexID
	require.NoError(t, json.Unmarshal([]byte(`[1, "2", " 3 ", 4.0]`), &ids))
	assert.Equal(t, []int64{1, 2, 3, 4}, flexIDs(ids))

	assert.Error(t, json.Unmarshal([]byte(`["x"]`), &ids))
	assert.Error(t, json.Unmarshal([]byte(`[1.5]`), &ids))
}
