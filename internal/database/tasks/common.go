package tasks

import "github.com/SergeyKozhin/planner-calendar/internal/database"

type Repository struct{}

func NewRepository() *Repository {
	return &Repository{}
}

var baseQuery = database.PSQL.
	Select(
		"id",
		"calendar_id",
		"title",
		"description",
		"date",
		"end_date",
		"is_all_day",
		"start_time",
		"end_time",
		"color",
		"participants",
		"location",
		"status",
		"recurring_rule",
		"created_by",
	).
	From(database.TasksTable)
