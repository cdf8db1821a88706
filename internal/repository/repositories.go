package repository

import (
	"github.com/deppfellow/go-calendar/internal/database"
	"github.com/deppfellow/go-calendar/internal/repository/memory"
	"github.com/deppfellow/go-calendar/internal/repository/postgres"
	"github.com/deppfellow/go-calendar/internal/server"
)

// Repositories is the container handed to the service layer.
type Repositories struct {
	Transactor   Transactor
	Meetings     MeetingRepository
	Participants ParticipantRepository
	Attachments  AttachmentRepository
	Calendars    CalendarRepository
}

// NewRepositories picks the implementation matching the configured driver.
// The memory store is created once here and shared by every repository.
func NewRepositories(s *server.Server) *Repositories {
	if s.DB != nil {
		return NewPostgresRepositories(s.DB)
	}

	return NewMemoryRepositories(memory.NewStore())
}

func NewPostgresRepositories(db *database.Database) *Repositories {
	return &Repositories{
		Transactor:   db,
		Meetings:     postgres.NewMeetingRepository(db),
		Participants: postgres.NewParticipantRepository(db),
		Attachments:  postgres.NewAttachmentRepository(db),
		Calendars:    postgres.NewCalendarRepository(db),
	}
}

// NewMemoryRepositories wires every repository to store.
func NewMemoryRepositories(store *memory.Store) *Repositories {
	return &Repositories{
		Transactor:   store,
		Meetings:     memory.NewMeetingRepository(store),
		Participants: memory.NewParticipantRepository(store),
		Attachments:  memory.NewAttachmentRepository(store),
		Calendars:    memory.NewCalendarRepository(store),
	}
}
