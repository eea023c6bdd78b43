package calendars

import (
	"context"
	"fmt"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func (*Repository) CreateCalendar(ctx context.Context, q database.Queryable, calendar *model.CalendarCreate) (int64, error) {
	values := notificationValues(calendar.Notifications)
	values["name"] = calendar.Name
	values["creator_id"] = calendar.CreatorID

	qb := database.PSQL.
		Insert(database.CalendarsTable).
		SetMap(values).
		Suffix("returning id")

	var id int64
	if err := q.Get(ctx, &id, qb); err != nil {
		return 0, fmt.Errorf("SQL request: %w", err)
	}

	return id, nil
}

func (*Repository) AddUserToCalendar(ctx context.Context, q database.Queryable, settings *model.CalendarSettings) error {
	qb := database.PSQL.
		Insert(database.CalendarUsersTable).
		Columns("user_id", "calendar_id", "color", "visible").
		Values(
			settings.UserID,
			settings.CalendarID,
			"#"+settings.Color.ToHTML(),
			settings.Visible,
		)

	if _, err := q.Exec(ctx, qb); err != nil {
		return fmt.Errorf("SQL request: %w", err)
	}

	return nil
}
