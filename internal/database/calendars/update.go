package calendars

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func (*Repository) UpdateCalendarSettings(ctx context.Context, q database.Queryable, settings *model.CalendarSettings) error {
	qb := database.PSQL.
		Update(database.CalendarUsersTable).
		Set("color", "#"+settings.Color.ToHTML()).
		Set("visible", settings.Visible).
		Where(sq.Eq{"calendar_id": settings.CalendarID, "user_id": settings.UserID})

	tag, err := q.Exec(ctx, qb)
	if err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNoRecord
	}

	return nil
}

func (*Repository) UpdateNotifications(ctx context.Context, q database.Queryable, calendarID int64, n model.NotificationSettings) error {
	qb := database.PSQL.
		Update(database.CalendarsTable).
		SetMap(notificationValues(n)).
		Where(sq.Eq{"id": calendarID})

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
