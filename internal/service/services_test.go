package service

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/deppfellow/go-calendar/internal/errs"
	"github.com/deppfellow/go-calendar/internal/lib/job"
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/deppfellow/go-calendar/internal/repository"
	"github.com/deppfellow/go-calendar/internal/repository/memory"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingInviter struct {
	mu   sync.Mutex
	sent []job.MeetingInvitationPayload
}

func (r *recordingInviter) EnqueueMeetingInvitation(_ context.Context, p job.MeetingInvitationPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, p)
	return nil
}

func (r *recordingInviter) recipients() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.sent))
	for _, p := range r.sent {
		out = append(out, p.To)
	}
	return out
}

// steppingClock advances one second per call so creation order is stable.
func steppingClock() clock {
	var mu sync.Mutex
	current := time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		current = current.Add(time.Second)
		return current
	}
}

func newTestServices(t *testing.T) (*Services, *recordingInviter) {
	t.Helper()
	inviter := &recordingInviter{}
	repos := repository.NewMemoryRepositories(memory.NewStore())
	return newServices(&AuthService{}, repos, inviter, steppingClock()), inviter
}

func mustParticipant(t *testing.T, svc *Services, name, email string) *participant.Participant {
	t.Helper()
	p, err := svc.Participants.Create(context.Background(), &participant.CreateParticipantPayload{Name: name, Email: email})
	require.NoError(t, err)
	return p
}

func mustMeeting(t *testing.T, svc *Services, title string, participantIDs ...uuid.UUID) *meeting.Meeting {
	t.Helper()
	m, err := svc.Meetings.Create(context.Background(), &meeting.CreateMeetingPayload{
		Title:          title,
		ParticipantIDs: participantIDs,
	})
	require.NoError(t, err)
	return m
}

func mustCalendar(t *testing.T, svc *Services, title string, meetingIDs ...uuid.UUID) *calendar.Calendar {
	t.Helper()
	c, err := svc.Calendars.Create(context.Background(), &calendar.CreateCalendarPayload{
		Title:      title,
		MeetingIDs: meetingIDs,
	})
	require.NoError(t, err)
	return c
}

func requireHTTPStatus(t *testing.T, err error, status int) *errs.HTTPError {
	t.Helper()
	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, status, httpErr.Status)
	return httpErr
}

func TestMeetingCreateLinksExistingRelations(t *testing.T) {
	svc, inviter := newTestServices(t)
	ctx := context.Background()

	alice := mustParticipant(t, svc, "Alice", "alice@example.com")
	bob := mustParticipant(t, svc, "Bob", "")
	doc, err := svc.Attachments.Create(ctx, &attachment.CreateAttachmentPayload{URL: "https://example.com/doc"})
	require.NoError(t, err)

	m, err := svc.Meetings.Create(ctx, &meeting.CreateMeetingPayload{
		Title:          "Standup",
		ParticipantIDs: []uuid.UUID{alice.ID, bob.ID, uuid.New()},
		AttachmentIDs:  []uuid.UUID{doc.ID, uuid.New()},
	})
	require.NoError(t, err)

	assert.Equal(t, []uuid.UUID{alice.ID, bob.ID}, m.ParticipantIDs())
	require.Len(t, m.Attachments, 1)
	assert.Equal(t, doc.ID, m.Attachments[0].ID)
	assert.Empty(t, m.CalendarIDs)

	assert.Equal(t, []string{"alice@example.com"}, inviter.recipients())
}

func TestMeetingAddParticipantsIsIdempotent(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services, inviter *recordingInviter) {
		ctx := context.Background()

		alice := mustParticipant(t, svc, "Alice", "alice@example.com")
		carol := mustParticipant(t, svc, "Carol", "carol@example.com")
		m := mustMeeting(t, svc, "Planning", alice.ID)

		payload := &meeting.ParticipantsPayload{ID: m.ID.String(), IDs: []uuid.UUID{alice.ID, carol.ID}}

		updated, err := svc.Meetings.AddParticipants(ctx, payload)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{alice.ID, carol.ID}, updated.ParticipantIDs())
		assert.True(t, updated.UpdatedAt.After(m.UpdatedAt))

		updated, err = svc.Meetings.AddParticipants(ctx, payload)
		require.NoError(t, err)
		assert.Len(t, updated.Participants, 2)

		assert.Equal(t, []string{"alice@example.com", "carol@example.com"}, inviter.recipients())

		updated, err = svc.Meetings.RemoveParticipants(ctx, &meeting.ParticipantsPayload{ID: m.ID.String(), IDs: []uuid.UUID{alice.ID}})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{carol.ID}, updated.ParticipantIDs())
	})
}

func TestMeetingAssociationUnknownParent(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Meetings.AddAttachments(context.Background(), &meeting.AttachmentsPayload{ID: uuid.NewString()})
	assert.ErrorIs(t, err, pgx.ErrNoRows)

	_, err = svc.Meetings.AddParticipants(context.Background(), &meeting.ParticipantsPayload{ID: uuid.NewString()})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMeetingUpdateIsPartial(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	m, err := svc.Meetings.Create(ctx, &meeting.CreateMeetingPayload{Title: "Standup", Location: "Room 1"})
	require.NoError(t, err)

	title := "Daily"
	updated, err := svc.Meetings.Update(ctx, &meeting.UpdateMeetingPayload{ID: m.ID.String(), Title: &title})
	require.NoError(t, err)

	assert.Equal(t, m.ID, updated.ID)
	assert.Equal(t, "Daily", updated.Title)
	assert.Equal(t, "Room 1", updated.Location)
	assert.Equal(t, m.CreatedAt, updated.CreatedAt)

	_, err = svc.Meetings.Update(ctx, &meeting.UpdateMeetingPayload{ID: uuid.NewString(), Title: &title})
	assert.ErrorIs(t, err, pgx.ErrNoRows)
}

func TestMeetingDeleteRemovesEmptyCalendars(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services, _ *recordingInviter) {
		ctx := context.Background()

		first := mustMeeting(t, svc, "First")
		second := mustMeeting(t, svc, "Second")

		solo := mustCalendar(t, svc, "Solo", first.ID)
		shared := mustCalendar(t, svc, "Shared", first.ID, second.ID)

		require.NoError(t, svc.Meetings.Delete(ctx, first.ID))

		_, err := svc.Calendars.GetByID(ctx, solo.ID)
		assert.ErrorIs(t, err, pgx.ErrNoRows)

		kept, err := svc.Calendars.GetByID(ctx, shared.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.ID}, kept.MeetingIDs())

		// Deleting an unknown meeting is not an error.
		require.NoError(t, svc.Meetings.Delete(ctx, uuid.New()))
	})
}

func TestParticipantDeleteCascades(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services, _ *recordingInviter) {
		ctx := context.Background()

		alice := mustParticipant(t, svc, "Alice", "")
		bob := mustParticipant(t, svc, "Bob", "")

		aliceOnly := mustMeeting(t, svc, "1:1", alice.ID)
		together := mustMeeting(t, svc, "Sync", alice.ID, bob.ID)
		empty := mustMeeting(t, svc, "Unstaffed")

		doomed := mustCalendar(t, svc, "Doomed", aliceOnly.ID)
		survivor := mustCalendar(t, svc, "Survivor", aliceOnly.ID, together.ID)

		require.NoError(t, svc.Participants.Delete(ctx, alice.ID))

		_, err := svc.Meetings.GetByID(ctx, aliceOnly.ID)
		assert.ErrorIs(t, err, pgx.ErrNoRows)

		kept, err := svc.Meetings.GetByID(ctx, together.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{bob.ID}, kept.ParticipantIDs())

		// Only meetings that had the participant are cascaded.
		_, err = svc.Meetings.GetByID(ctx, empty.ID)
		require.NoError(t, err)

		_, err = svc.Calendars.GetByID(ctx, doomed.ID)
		assert.ErrorIs(t, err, pgx.ErrNoRows)

		cal, err := svc.Calendars.GetByID(ctx, survivor.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{together.ID}, cal.MeetingIDs())
	})
}

func TestAttachmentDeleteDetaches(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	doc, err := svc.Attachments.Create(ctx, &attachment.CreateAttachmentPayload{URL: "https://example.com/doc"})
	require.NoError(t, err)
	m, err := svc.Meetings.Create(ctx, &meeting.CreateMeetingPayload{Title: "Review", AttachmentIDs: []uuid.UUID{doc.ID}})
	require.NoError(t, err)
	require.Len(t, m.Attachments, 1)

	require.NoError(t, svc.Attachments.Delete(ctx, doc.ID))

	reloaded, err := svc.Meetings.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Empty(t, reloaded.Attachments)
}

func TestCalendarCreateNeedsExistingMeeting(t *testing.T) {
	svc, _ := newTestServices(t)

	_, err := svc.Calendars.Create(context.Background(), &calendar.CreateCalendarPayload{
		Title:      "Empty",
		MeetingIDs: []uuid.UUID{uuid.New()},
	})
	httpErr := requireHTTPStatus(t, err, http.StatusBadRequest)
	assert.Equal(t, codeCalendarMeetingsRequired, httpErr.Code)

	cals, err := svc.Calendars.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cals)
}

func TestCalendarRemoveMeetingsKeepsOne(t *testing.T) {
	forEachBackend(t, func(t *testing.T, svc *Services, _ *recordingInviter) {
		ctx := context.Background()

		first := mustMeeting(t, svc, "First")
		second := mustMeeting(t, svc, "Second")
		c := mustCalendar(t, svc, "Team", first.ID)

		updated, err := svc.Calendars.AddMeetings(ctx, &calendar.MeetingsPayload{
			ID:  c.ID.String(),
			IDs: []uuid.UUID{second.ID, first.ID, uuid.New()},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{first.ID, second.ID}, updated.MeetingIDs())

		_, err = svc.Calendars.RemoveMeetings(ctx, &calendar.MeetingsPayload{
			ID:  c.ID.String(),
			IDs: []uuid.UUID{first.ID, second.ID},
		})
		requireHTTPStatus(t, err, http.StatusBadRequest)

		updated, err = svc.Calendars.RemoveMeetings(ctx, &calendar.MeetingsPayload{
			ID:  c.ID.String(),
			IDs: []uuid.UUID{first.ID},
		})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{second.ID}, updated.MeetingIDs())

		m, err := svc.Meetings.GetByID(ctx, second.ID)
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{c.ID}, m.CalendarIDs)
	})
}

func TestCalendarListOrdersByCreation(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	m := mustMeeting(t, svc, "Shared")
	a := mustCalendar(t, svc, "A", m.ID)
	b := mustCalendar(t, svc, "B", m.ID)

	cals, err := svc.Calendars.List(ctx)
	require.NoError(t, err)
	require.Len(t, cals, 2)
	assert.Equal(t, a.ID, cals[0].ID)
	assert.Equal(t, b.ID, cals[1].ID)
	assert.Equal(t, []uuid.UUID{m.ID}, cals[1].MeetingIDs())

	// Deleting a calendar leaves its meetings alone.
	require.NoError(t, svc.Calendars.Delete(ctx, a.ID))
	reloaded, err := svc.Meetings.GetByID(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b.ID}, reloaded.CalendarIDs)
}

func TestCalendarExport(t *testing.T) {
	svc, _ := newTestServices(t)
	ctx := context.Background()

	start := model.NewDateTime(time.Date(2030, 6, 1, 10, 0, 0, 0, time.UTC))
	scheduled, err := svc.Meetings.Create(ctx, &meeting.CreateMeetingPayload{Title: "Kickoff", DateTime: &start})
	require.NoError(t, err)
	unscheduled := mustMeeting(t, svc, "Later")

	c := mustCalendar(t, svc, "Launch", scheduled.ID)
	data, err := svc.Calendars.Export(ctx, c.ID)
	require.NoError(t, err)
	assert.Contains(t, string(data), "BEGIN:VCALENDAR")
	assert.Contains(t, string(data), "SUMMARY:Kickoff")

	backlog := mustCalendar(t, svc, "Backlog", unscheduled.ID)
	_, err = svc.Calendars.Export(ctx, backlog.ID)
	requireHTTPStatus(t, err, http.StatusBadRequest)

	_, err = svc.Calendars.Export(ctx, uuid.New())
	assert.True(t, errors.Is(err, pgx.ErrNoRows))
}
