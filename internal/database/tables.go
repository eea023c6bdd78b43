package database

import sq "github.com/Masterminds/squirrel"

var PSQL = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const (
	UsersTable         = "users"
	CalendarsTable     = "calendars"
	CalendarUsersTable = "calendar_users"
	TasksTable         = "tasks"
)
