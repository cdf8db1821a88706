package calendar

import (
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/google/uuid"
)

const (
	TitleMaxLength   = 2000
	DetailsMaxLength = 10000
)

type Calendar struct {
	model.Base
	Title   string `json:"title"`
	Details string `json:"details"`

	Meetings []meeting.Meeting `json:"meetings"`
}

func (c *Calendar) EnsureRelations() {
	if c.Meetings == nil {
		c.Meetings = []meeting.Meeting{}
	}
	for i := range c.Meetings {
		c.Meetings[i].EnsureRelations()
	}
}

func (c *Calendar) MeetingIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Meetings))
	for _, m := range c.Meetings {
		ids = append(ids, m.ID)
	}
	return ids
}
