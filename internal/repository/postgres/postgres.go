// Package postgres implements the repositories on PostgreSQL with pgx.
//
// Queries run on the transaction carried by the context when there is one,
// otherwise on the pool.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	tableMeetings            = "meetings"
	tableParticipants        = "participants"
	tableAttachments         = "attachments"
	tableCalendars           = "calendars"
	tableMeetingParticipants = "meeting_participants"
	tableMeetingAttachments  = "meeting_attachments"
	tableCalendarMeetings    = "calendar_meetings"
)

type repo struct {
	db *database.Database
}

func (r repo) conn(ctx context.Context) database.Querier {
	return database.Conn(ctx, r.db.Pool)
}

// idArgs encodes ids as text so the `::uuid[]` casts in queries apply.
func idArgs(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// collectOne maps pgx.ErrNoRows to the not-found error of table.
func collectOne[T any](rows pgx.Rows, table string, id uuid.UUID) (T, error) {
	item, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return item, sqlerr.NotFound(table, id)
		}
		return item, fmt.Errorf("failed to collect row from table:%s for id=%s: %w", table, id, err)
	}
	return item, nil
}

func (r repo) exists(ctx context.Context, table string, id uuid.UUID) (bool, error) {
	var found bool
	stmt := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = @id)`, table)
	if err := r.conn(ctx).QueryRow(ctx, stmt, pgx.NamedArgs{"id": id.String()}).Scan(&found); err != nil {
		return false, fmt.Errorf("failed to check %s for id=%s: %w", table, id, err)
	}
	return found, nil
}

func (r repo) mustExist(ctx context.Context, table string, id uuid.UUID) error {
	found, err := r.exists(ctx, table, id)
	if err != nil {
		return err
	}
	if !found {
		return sqlerr.NotFound(table, id)
	}
	return nil
}

func (r repo) collectIDs(ctx context.Context, stmt string, args pgx.NamedArgs) ([]uuid.UUID, error) {
	rows, err := r.conn(ctx).Query(ctx, stmt, args)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
}
