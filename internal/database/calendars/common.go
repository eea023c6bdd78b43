package calendars

import "github.com/SergeyKozhin/planner-calendar/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"c.id",
		"c.name",
		"c.creator_id",
		"c.notify_channel",
		"c.notify_lead_seconds",
		"c.notify_repeat",
		"c.notify_template",
		"array_agg(cu.user_id) users_ids",
	).
	From(database.CalendarsTable + " c").
	Join(database.CalendarUsersTable + " cu on c.id = cu.calendar_id").
	GroupBy("c.id")
