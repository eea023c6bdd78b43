package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"github.com/gerow/go-color"

	"github.com/SergeyKozhin/planner-calendar/internal/ics"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
	"github.com/SergeyKozhin/planner-calendar/internal/pkg/validator"
)

var errCantRetrieveCalendar = errors.New("can't retrieve calendar from context")

func (a *Api) getCalendarsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	calendars, err := a.calendars.GetUserCalendars(r.Context(), a.db, userID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get calendars by user id %v: %w", userID, err))
		return
	}

	resp, _ := mapSlice(calendars, mapToCalendarResp)

	if err := a.writeJSON(w, http.StatusOK, resp); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

type notificationsReq struct {
	Channel     model.NotificationChannel `json:"channel"`
	LeadTime    int64                     `json:"lead_time_minutes"`
	RepeatCount int                       `json:"repeat_count"`
	Template    string                    `json:"template"`
}

func (n *notificationsReq) validate(v *validator.Validator) {
	v.Check(n.Channel.Valid(), "channel", "channel must be one of push, email, whatsapp or empty")
	v.Check(n.LeadTime >= 0, "lead_time_minutes", "lead time must not be negative")
	v.Check(n.LeadTime <= int64(model.MaxLeadTime/time.Minute), "lead_time_minutes",
		fmt.Sprintf("lead time must not exceed %d minutes", int64(model.MaxLeadTime/time.Minute)))
	v.Check(n.RepeatCount >= 0, "repeat_count", "repeat count must not be negative")
	v.Check(n.RepeatCount <= model.MaxRepeatCount, "repeat_count",
		fmt.Sprintf("repeat count must not exceed %d", model.MaxRepeatCount))

	if n.Template != "" {
		_, err := template.New("notification").Parse(n.Template)
		v.Check(err == nil, "template", "template must be a valid text template")
	}
}

func (n *notificationsReq) settings() model.NotificationSettings {
	return model.NotificationSettings{
		Channel:     n.Channel,
		LeadTime:    time.Duration(n.LeadTime) * time.Minute,
		RepeatCount: n.RepeatCount,
		Template:    n.Template,
	}
}

func (a *Api) createCalendarHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	req := &struct {
		Name          string           `json:"name"`
		UsersIDs      []flexID         `json:"users_ids"`
		Color         string           `json:"color"`
		Notifications notificationsReq `json:"notifications"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()

	v.Check(len(req.Name) != 0, "name", "name must be provided")
	v.Check(validator.Matches(req.Color, validator.HexRX), "color", "color must be valid HEX color")
	req.Notifications.validate(v)

	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	colorRGB, err := color.HTMLToRGB(req.Color)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("parse color: %w", err))
		return
	}

	tx, err := a.db.BeginTx(r.Context(), nil)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("tx begin: %w", err))
		return
	}
	defer tx.Rollback(r.Context())

	calendarID, err := a.calendars.CreateCalendar(r.Context(), tx, &model.CalendarCreate{
		Name:          req.Name,
		CreatorID:     userID,
		Notifications: req.Notifications.settings(),
	})
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("create calendar: %w", err))
		return
	}

	members := model.NewCalendarSet(append([]int64{userID}, flexIDs(req.UsersIDs)...)...)
	for _, user := range members.IDs() {
		if err := a.calendars.AddUserToCalendar(r.Context(), tx, &model.CalendarSettings{
			UserID:     user,
			CalendarID: calendarID,
			Color:      colorRGB,
			Visible:    true,
		}); err != nil {
			a.serverErrorResponse(w, r, fmt.Errorf("add user to calendar: %w", err))
			return
		}
	}

	if err := tx.Commit(r.Context()); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("commit tx: %w", err))
		return
	}

	if err := a.writeJSON(w, http.StatusCreated, map[string]int64{"id": calendarID}); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateCalendarSettingsHandler(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(contextKeyID).(int64)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveID)
		return
	}

	calendar, ok := r.Context().Value(contextKeyCalendar).(*model.Calendar)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveCalendar)
		return
	}

	req := &struct {
		Visible *bool   `json:"visible"`
		Color   *string `json:"color"`
	}{}

	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	if req.Color != nil {
		v.Check(validator.Matches(*req.Color, validator.HexRX), "color", "color must be valid HEX color")
	}
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	calendars, err := a.calendars.GetUserCalendars(r.Context(), a.db, userID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get calendars by user id %v: %w", userID, err))
		return
	}

	var current *model.UserCalendar
	for _, c := range calendars {
		if c.ID == calendar.ID {
			current = c
			break
		}
	}
	if current == nil {
		a.notFoundResponse(w, r)
		return
	}

	settings := &model.CalendarSettings{
		UserID:     userID,
		CalendarID: calendar.ID,
		Color:      current.Color,
		Visible:    current.Visible,
	}
	if req.Visible != nil {
		settings.Visible = *req.Visible
	}
	if req.Color != nil {
		settings.Color, err = color.HTMLToRGB(*req.Color)
		if err != nil {
			a.serverErrorResponse(w, r, fmt.Errorf("parse color: %w", err))
			return
		}
	}

	if err := a.calendars.UpdateCalendarSettings(r.Context(), a.db, settings); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("update calendar settings: %w", err))
		return
	}

	current.Visible = settings.Visible
	current.Color = settings.Color
	resp, _ := mapToCalendarResp(current)

	if err := a.writeJSON(w, http.StatusOK, resp); err != nil {
		a.serverErrorResponse(w, r, err)
	}
}

func (a *Api) updateNotificationsHandler(w http.ResponseWriter, r *http.Request) {
	calendar, ok := r.Context().Value(contextKeyCalendar).(*model.Calendar)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveCalendar)
		return
	}

	req := &notificationsReq{}
	if err := a.readJSON(w, r, req); err != nil {
		a.badRequestResponse(w, r, err)
		return
	}

	v := validator.New()
	req.validate(v)
	if !v.Valid() {
		a.failedValidationResponse(w, r, v.Errors)
		return
	}

	if err := a.calendars.UpdateNotifications(r.Context(), a.db, calendar.ID, req.settings()); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("update notifications: %w", err))
		return
	}

	w.WriteHeader(http.StatusOK)
}

func (a *Api) exportCalendarHandler(w http.ResponseWriter, r *http.Request) {
	calendar, ok := r.Context().Value(contextKeyCalendar).(*model.Calendar)
	if !ok {
		a.serverErrorResponse(w, r, errCantRetrieveCalendar)
		return
	}

	tasks, err := a.tasksService.GetCalendarTasks(r.Context(), calendar.ID)
	if err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("get calendar tasks: %w", err))
		return
	}

	var buf bytes.Buffer
	if err := ics.Encode(&buf, calendar, tasks, a.now()); err != nil {
		a.serverErrorResponse(w, r, fmt.Errorf("encode calendar: %w", err))
		return
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=calendar-%d.ics", calendar.ID))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
