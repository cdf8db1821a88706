package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testDatabase connects to CALENDAR_TEST_DATABASE_URL, migrates it and
// truncates every table. Tests are skipped when the variable is unset.
func testDatabase(t *testing.T) *database.Database {
	t.Helper()

	dsn := os.Getenv("CALENDAR_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CALENDAR_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	logger := zerolog.Nop()

	require.NoError(t, database.MigrateDSN(ctx, &logger, dsn))

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, `TRUNCATE calendar_meetings, meeting_attachments, meeting_participants, calendars, meetings, attachments, participants`)
	require.NoError(t, err)

	return database.Wrap(pool, &logger)
}

func TestMeetingRepositoryRoundTrip(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	meetings := NewMeetingRepository(db)
	participants := NewParticipantRepository(db)

	dt := model.NewDateTime(time.Now().Add(24 * time.Hour))
	m, err := meetings.Create(ctx, &meeting.Meeting{
		Base:     model.NewBase(time.Now()),
		Title:    "Planning",
		DateTime: &dt,
		Location: "Room 4",
	})
	require.NoError(t, err)
	assert.Empty(t, m.Participants)

	p, err := participants.Create(ctx, &participant.Participant{Base: model.NewBase(time.Now()), Name: "Alice", Email: "alice@example.com"})
	require.NoError(t, err)

	added, err := meetings.AddParticipants(ctx, m.ID, []uuid.UUID{p.ID, p.ID, uuid.New()})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{p.ID}, added)

	loaded, err := meetings.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Planning", loaded.Title)
	assert.Equal(t, dt.String(), loaded.DateTime.String())
	require.Len(t, loaded.Participants, 1)
	assert.Equal(t, "alice@example.com", loaded.Participants[0].Email)

	require.NoError(t, participants.Delete(ctx, p.ID))
	empty, err := meetings.WithoutParticipants(ctx, []uuid.UUID{m.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{m.ID}, empty)

	require.NoError(t, meetings.Delete(ctx, m.ID))
	_, err = meetings.GetByID(ctx, m.ID)
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestCalendarRepositoryDeleteEmpty(t *testing.T) {
	db := testDatabase(t)
	ctx := context.Background()

	meetings := NewMeetingRepository(db)
	calendars := NewCalendarRepository(db)

	m, err := meetings.Create(ctx, &meeting.Meeting{Base: model.NewBase(time.Now()), Title: "Sync"})
	require.NoError(t, err)

	c, err := calendars.Create(ctx, &calendar.Calendar{Base: model.NewBase(time.Now()), Title: "Team"})
	require.NoError(t, err)
	require.NoError(t, calendars.AddMeetings(ctx, c.ID, []uuid.UUID{m.ID, uuid.New()}))

	ids, err := calendars.MeetingIDs(ctx, []uuid.UUID{c.ID})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{m.ID}, ids[c.ID])

	deleted, err := calendars.DeleteEmpty(ctx, []uuid.UUID{c.ID})
	require.NoError(t, err)
	assert.Empty(t, deleted)

	err = db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := meetings.Delete(ctx, m.ID); err != nil {
			return err
		}
		deleted, err = calendars.DeleteEmpty(ctx, []uuid.UUID{c.ID})
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{c.ID}, deleted)
}
