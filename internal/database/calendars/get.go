package calendars

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v4"

	"github.com/SergeyKozhin/planner-calendar/internal/database"
	"github.com/SergeyKozhin/planner-calendar/internal/model"
)

func (*Repository) GetCalendar(ctx context.Context, q database.Queryable, id int64) (*model.Calendar, error) {
	qb := baseQuery.
		Where(sq.Eq{"c.id": id})

	dto := &calendarDTO{}
	if err := q.Get(ctx, dto, qb); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoRecord
		}
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	return mapToCalendar(dto), nil
}

func (*Repository) GetUserCalendars(ctx context.Context, q database.Queryable, userID int64) ([]*model.UserCalendar, error) {
	qb := baseQuery.
		Columns("me.color", "me.visible").
		Join(database.CalendarUsersTable+" me on c.id = me.calendar_id").
		Where(sq.Eq{"me.user_id": userID}).
		GroupBy("me.color", "me.visible").
		OrderBy("c.id")

	var dtos []*userCalendarDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.UserCalendar, len(dtos))
	for i, d := range dtos {
		var err error
		res[i], err = mapToUserCalendar(d)
		if err != nil {
			return nil, fmt.Errorf("map calendar: %w", err)
		}
	}

	return res, nil
}

// GetNotifyingCalendars returns calendars with a notification channel configured.
func (*Repository) GetNotifyingCalendars(ctx context.Context, q database.Queryable) ([]*model.Calendar, error) {
	qb := baseQuery.
		Where(sq.NotEq{"c.notify_channel": ""})

	var dtos []*calendarDTO
	if err := q.Select(ctx, &dtos, qb); err != nil {
		return nil, fmt.Errorf("SQL request: %w", err)
	}

	res := make([]*model.Calendar, len(dtos))
	for i, d := range dtos {
		res[i] = mapToCalendar(d)
	}

	return res, nil
}
