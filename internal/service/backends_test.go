package service

import (
	"context"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newPostgresServices runs the services over CALENDAR_TEST_DATABASE_URL after
// migrating and truncating it. Tests are skipped when the variable is unset.
func newPostgresServices(t *testing.T) (*Services, *recordingInviter) {
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

	inviter := &recordingInviter{}
	repos := repository.NewPostgresRepositories(database.Wrap(pool, &logger))
	return newServices(&AuthService{}, repos, inviter, steppingClock()), inviter
}

// forEachBackend runs fn against the memory store and against postgres.
func forEachBackend(t *testing.T, fn func(t *testing.T, svc *Services, inviter *recordingInviter)) {
	t.Run("memory", func(t *testing.T) {
		svc, inviter := newTestServices(t)
		fn(t, svc, inviter)
	})
	t.Run("postgres", func(t *testing.T) {
		svc, inviter := newPostgresServices(t)
		fn(t, svc, inviter)
	})
}

func TestCalendarConcurrentRemovalsKeepOne(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services, _ *recordingInviter) {
		ctx := context.Background()

		for range 10 {
			first := mustMeeting(t, svc, "First")
			second := mustMeeting(t, svc, "Second")
			c := mustCalendar(t, svc, "Team", first.ID, second.ID)

			results := make([]error, 2)
			var wg sync.WaitGroup
			for i, id := range []uuid.UUID{first.ID, second.ID} {
				wg.Add(1)
				go func() {
					defer wg.Done()
					_, results[i] = svc.Calendars.RemoveMeetings(ctx, &calendar.MeetingsPayload{
						ID:  c.ID.String(),
						IDs: []uuid.UUID{id},
					})
				}()
			}
			wg.Wait()

			failed := 0
			for _, err := range results {
				if err != nil {
					requireHTTPStatus(t, err, http.StatusBadRequest)
					failed++
				}
			}
			assert.Equal(t, 1, failed)

			kept, err := svc.Calendars.GetByID(ctx, c.ID)
			require.NoError(t, err)
			assert.Len(t, kept.MeetingIDs(), 1)
		}
	})
}

func TestCalendarRemovalRacingMeetingDelete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services, _ *recordingInviter) {
		ctx := context.Background()

		for range 10 {
			first := mustMeeting(t, svc, "First")
			second := mustMeeting(t, svc, "Second")
			c := mustCalendar(t, svc, "Team", first.ID, second.ID)

			var removeErr, deleteErr error
			var wg sync.WaitGroup
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, removeErr = svc.Calendars.RemoveMeetings(ctx, &calendar.MeetingsPayload{
					ID:  c.ID.String(),
					IDs: []uuid.UUID{first.ID},
				})
			}()
			go func() {
				defer wg.Done()
				deleteErr = svc.Meetings.Delete(ctx, second.ID)
			}()
			wg.Wait()

			require.NoError(t, deleteErr)

			// Either the removal won and the delete emptied the calendar, or
			// the delete won and the removal was refused.
			kept, err := svc.Calendars.GetByID(ctx, c.ID)
			if errors.Is(err, pgx.ErrNoRows) {
				assert.NoError(t, removeErr)
				continue
			}
			require.NoError(t, err)
			requireHTTPStatus(t, removeErr, http.StatusBadRequest)
			assert.Equal(t, []uuid.UUID{first.ID}, kept.MeetingIDs())
		}
	})
}
