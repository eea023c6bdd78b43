package notifications

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

type Sender struct {
	db            database.PGX
	logger        *zap.SugaredLogger
	location      *time.Location
	calendars     calendarsRepository
	users         usersRepository
	tasksService  tasksService
	dispatcher    Dispatcher
	cron          *cron.Cron
	lastProcessed time.Time
}

type calendarsRepository interface {
	GetNotifyingCalendars(ctx context.Context, q database.Queryable) ([]*model.Calendar, error)
}

type usersRepository interface {
	GetUsersByIDs(ctx context.Context, q database.Queryable, ids []int64) ([]*model.User, error)
}

type tasksService interface {
	GetCalendarsOccurrences(ctx context.Context, calendars model.CalendarSet, ref time.Time) ([]*model.Occurrence, error)
}

type Dispatcher interface {
	Dispatch(ctx context.Context, m *Message) error
}

func NewSender(
	db database.PGX,
	logger *zap.SugaredLogger,
	location *time.Location,
	calendars calendarsRepository,
	users usersRepository,
	tasksService tasksService,
	dispatcher Dispatcher,
) *Sender {
	return &Sender{
		db:           db,
		logger:       logger,
		location:     location,
		calendars:    calendars,
		users:        users,
		tasksService: tasksService,
		dispatcher:   dispatcher,
	}
}

// Start schedules reminder runs on the cron schedule. Each run covers the minutes since the previous one.
func (s *Sender) Start(ctx context.Context, schedule string) error {
	s.lastProcessed = time.Now().Truncate(time.Minute)
	s.cron = cron.New(
		cron.WithLocation(s.location),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)

	if _, err := s.cron.AddFunc(schedule, func() {
		to := time.Now().Truncate(time.Minute).Add(time.Minute)
		from := s.lastProcessed
		s.lastProcessed = to
		s.findAndSendNotifications(ctx, from, to)
	}); err != nil {
		return fmt.Errorf("schedule %q: %w", schedule, err)
	}

	s.cron.Start()
	return nil
}

// Stop waits for a running job to finish.
func (s *Sender) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

type notification struct {
	calendar   *model.Calendar
	occurrence *model.Occurrence
	at         time.Time
}

func (s *Sender) findAndSendNotifications(ctx context.Context, from, to time.Time) {
	s.logger.Debugw("sending notifications", "from", from, "to", to)

	calendars, err := s.calendars.GetNotifyingCalendars(ctx, s.db)
	if err != nil {
		s.logger.Errorw("failed to get calendars", "err", err)
		return
	}
	if len(calendars) == 0 {
		return
	}

	byID := make(map[int64]*model.Calendar, len(calendars))
	ids := make([]int64, 0, len(calendars))
	for _, c := range calendars {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	occurrences, err := s.tasksService.GetCalendarsOccurrences(ctx, model.NewCalendarSet(ids...), from.In(s.location))
	if err != nil {
		s.logger.Errorw("failed to get occurrences", "err", err)
		return
	}

	notifications := getPossibleNotifications(occurrences, byID, from, to)
	for _, n := range notifications {
		if err := s.send(ctx, n); err != nil {
			s.logger.Errorw("failed to send notification",
				"occurrence_id", n.occurrence.OccurrenceID,
				"err", err,
			)
		}
	}
}

func (s *Sender) send(ctx context.Context, n *notification) error {
	text, err := renderMessage(n.calendar, n.occurrence, s.location)
	if err != nil {
		return fmt.Errorf("render message: %w", err)
	}

	ids := recipients(n.occurrence)
	if len(ids) == 0 {
		return nil
	}

	users, err := s.users.GetUsersByIDs(ctx, s.db, ids)
	if err != nil {
		return fmt.Errorf("get recipients: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	return s.dispatcher.Dispatch(ctx, &Message{
		Channel:      n.calendar.Notifications.Channel,
		CalendarID:   n.calendar.ID,
		TaskID:       n.occurrence.ID,
		OccurrenceID: n.occurrence.OccurrenceID,
		Recipients:   users,
		At:           n.at,
		Text:         text,
	})
}

// reminderTimes spreads RepeatCount reminders evenly over the lead time before start.
// Settings outside the model bounds are clamped.
func reminderTimes(start time.Time, settings model.NotificationSettings) []time.Time {
	n := settings.RepeatCount
	if n < 1 {
		n = 1
	}
	if n > model.MaxRepeatCount {
		n = model.MaxRepeatCount
	}

	lead := settings.LeadTime
	if lead < 0 {
		lead = 0
	}
	if lead > model.MaxLeadTime {
		lead = model.MaxLeadTime
	}

	step := lead / time.Duration(n)
	res := make([]time.Time, n)
	for k := 0; k < n; k++ {
		res[k] = start.Add(-step * time.Duration(n-k))
	}

	return res
}

func getPossibleNotifications(occurrences []*model.Occurrence, calendars map[int64]*model.Calendar, from, to time.Time) []*notification {
	var res []*notification
	for _, o := range occurrences {
		if o.Status == model.TaskStatusCancelled {
			continue
		}

		cal, ok := calendars[o.CalendarID]
		if !ok || cal.Notifications.Channel == model.NotificationChannelNone {
			continue
		}

		for _, at := range reminderTimes(o.Date, cal.Notifications) {
			if !at.Before(from) && at.Before(to) {
				res = append(res, &notification{
					calendar:   cal,
					occurrence: o,
					at:         at,
				})
			}
		}
	}

	return res
}
