package meeting

import (
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/google/uuid"
)

const (
	TitleMaxLength    = 2000
	LocationMaxLength = 2000
	DetailsMaxLength  = 10000
)

type Meeting struct {
	model.Base
	Title    string          `json:"title"`
	DateTime *model.DateTime `json:"dateTime"`
	Location string          `json:"location"`
	Details  string          `json:"details"`

	Participants []participant.Participant `json:"participants"`
	Attachments  []attachment.Attachment   `json:"attachments"`
	CalendarIDs  []uuid.UUID               `json:"calendarIds"`
}

// EnsureRelations replaces nil relation slices with empty ones so they
// encode as [] rather than null.
func (m *Meeting) EnsureRelations() {
	if m.Participants == nil {
		m.Participants = []participant.Participant{}
	}
	if m.Attachments == nil {
		m.Attachments = []attachment.Attachment{}
	}
	if m.CalendarIDs == nil {
		m.CalendarIDs = []uuid.UUID{}
	}
}

// ParticipantIDs lists the ids of the loaded participants.
func (m *Meeting) ParticipantIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(m.Participants))
	for _, p := range m.Participants {
		ids = append(ids, p.ID)
	}
	return ids
}
