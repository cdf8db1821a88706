// Package repository declares the persistence contracts used by the service
// layer. Two implementations exist: postgres (pgx) and memory.
//
// Every method accepts a context that may carry a transaction started by
// Transactor.WithinTransaction; implementations join it transparently.
// Lookups of a single unknown id fail with an error wrapping pgx.ErrNoRows
// (see sqlerr.NotFound), which the HTTP layer turns into a 404.
package repository

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/google/uuid"
)

// Transactor runs fn atomically. Nested calls join the outer transaction.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MeetingRepository loads meetings together with their participants,
// attachments and calendar ids.
type MeetingRepository interface {
	List(ctx context.Context) ([]meeting.Meeting, error)
	GetByID(ctx context.Context, id uuid.UUID) (*meeting.Meeting, error)
	// GetByIDs skips unknown ids.
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]meeting.Meeting, error)
	// ExistingIDs filters ids down to the meetings that exist.
	ExistingIDs(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
	Create(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error)
	Update(ctx context.Context, m *meeting.Meeting) (*meeting.Meeting, error)
	// Delete removes the meeting and its join rows. Unknown ids are not an error.
	Delete(ctx context.Context, id uuid.UUID) error

	CalendarIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// WithoutParticipants filters ids down to meetings with no participant left.
	WithoutParticipants(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)

	// AddParticipants links the existing participants among ids and returns
	// the ones that were not linked before.
	AddParticipants(ctx context.Context, id uuid.UUID, participantIDs []uuid.UUID) ([]uuid.UUID, error)
	RemoveParticipants(ctx context.Context, id uuid.UUID, participantIDs []uuid.UUID) error
	AddAttachments(ctx context.Context, id uuid.UUID, attachmentIDs []uuid.UUID) error
	RemoveAttachments(ctx context.Context, id uuid.UUID, attachmentIDs []uuid.UUID) error
}

type ParticipantRepository interface {
	List(ctx context.Context) ([]participant.Participant, error)
	GetByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]participant.Participant, error)
	Create(ctx context.Context, p *participant.Participant) (*participant.Participant, error)
	Update(ctx context.Context, p *participant.Participant) (*participant.Participant, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MeetingIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
}

type AttachmentRepository interface {
	List(ctx context.Context) ([]attachment.Attachment, error)
	GetByID(ctx context.Context, id uuid.UUID) (*attachment.Attachment, error)
	Create(ctx context.Context, a *attachment.Attachment) (*attachment.Attachment, error)
	Update(ctx context.Context, a *attachment.Attachment) (*attachment.Attachment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CalendarRepository stores calendars and their meeting membership. Returned
// calendars carry no meetings; the service resolves them from MeetingIDs.
type CalendarRepository interface {
	List(ctx context.Context) ([]calendar.Calendar, error)
	GetByID(ctx context.Context, id uuid.UUID) (*calendar.Calendar, error)
	Create(ctx context.Context, c *calendar.Calendar) (*calendar.Calendar, error)
	Update(ctx context.Context, c *calendar.Calendar) (*calendar.Calendar, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// Lock holds the calendars among ids against concurrent membership
	// changes until the surrounding transaction ends.
	Lock(ctx context.Context, ids []uuid.UUID) error

	// MeetingIDs returns the meeting ids of every known calendar among
	// calendarIDs.
	MeetingIDs(ctx context.Context, calendarIDs []uuid.UUID) (map[uuid.UUID][]uuid.UUID, error)
	// AddMeetings links the existing meetings among meetingIDs.
	AddMeetings(ctx context.Context, id uuid.UUID, meetingIDs []uuid.UUID) error
	RemoveMeetings(ctx context.Context, id uuid.UUID, meetingIDs []uuid.UUID) error
	// DeleteEmpty deletes the calendars among ids that hold no meeting and
	// returns their ids.
	DeleteEmpty(ctx context.Context, ids []uuid.UUID) ([]uuid.UUID, error)
}
