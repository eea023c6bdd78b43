package notifications

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

// LogDispatcher writes reminders to the log. Delivery integrations plug in as other Dispatchers.
type LogDispatcher struct {
	logger *zap.SugaredLogger
}

func NewLogDispatcher(logger *zap.SugaredLogger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Dispatch(_ context.Context, m *Message) error {
	recipients := make([]string, 0, len(m.Recipients))
	for _, u := range m.Recipients {
		switch m.Channel {
		case model.NotificationChannelEmail:
			recipients = append(recipients, u.Email)
		case model.NotificationChannelWhatsApp:
			recipients = append(recipients, u.PhoneNumber)
		default:
			recipients = append(recipients, strconv.FormatInt(u.ID, 10))
		}
	}

	d.logger.Infow("reminder",
		"channel", m.Channel,
		"calendar_id", m.CalendarID,
		"task_id", m.TaskID,
		"occurrence_id", m.OccurrenceID,
		"recipients", recipients,
		"at", m.At,
		"text", m.Text,
	)
	return nil
}
