package calendar

import (
	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

// CreateCalendarPayload needs at least one meeting id; ids of meetings that
// do not exist are ignored, but at least one must resolve.
type CreateCalendarPayload struct {
	Title      string      `json:"title" validate:"required,max=2000"`
	Details    string      `json:"details" validate:"max=10000"`
	MeetingIDs []uuid.UUID `json:"meetingIds" validate:"required,min=1"`
}

func (p *CreateCalendarPayload) Normalize() {
	p.Title = validation.LimitString(p.Title, TitleMaxLength)
	p.Details = validation.LimitString(p.Details, DetailsMaxLength)
	p.MeetingIDs = model.UniqueIDs(p.MeetingIDs)
}

func (p *CreateCalendarPayload) Validate() error {
	return validation.Validator().Struct(p)
}

// ------------------------------------------------------------

type UpdateCalendarPayload struct {
	ID      string  `param:"id" json:"-" validate:"required,uuid"`
	Title   *string `json:"title" validate:"omitempty,min=1,max=2000"`
	Details *string `json:"details" validate:"omitempty,max=10000"`
}

func (p *UpdateCalendarPayload) Normalize() {
	validation.LimitStringPtr(p.Title, TitleMaxLength)
	validation.LimitStringPtr(p.Details, DetailsMaxLength)
}

func (p *UpdateCalendarPayload) Validate() error {
	return validation.Validator().Struct(p)
}

func (p *UpdateCalendarPayload) CalendarID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

func (p *UpdateCalendarPayload) Apply(calendar *Calendar) {
	if p.Title != nil {
		calendar.Title = *p.Title
	}
	if p.Details != nil {
		calendar.Details = *p.Details
	}
}

// ------------------------------------------------------------

type (
	GetCalendarByIDPayload = model.IDPayload
	DeleteCalendarPayload  = model.IDPayload
	ExportCalendarPayload  = model.IDPayload

	MeetingsPayload = model.AssociationPayload
)

type ListCalendarsPayload struct{}

func (p *ListCalendarsPayload) Validate() error {
	return nil
}
