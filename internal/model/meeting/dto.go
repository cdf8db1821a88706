package meeting

import (
	"time"

	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/validation"
	"github.com/google/uuid"
)

// now is replaced in tests.
var now = time.Now

func validateDateTime(dt *model.DateTime) error {
	if dt != nil && !dt.NotBefore(now()) {
		return validation.CustomValidationErrors{
			{Field: "dateTime", Message: "must be in the present or future"},
		}
	}
	return nil
}

// ------------------------------------------------------------

type CreateMeetingPayload struct {
	Title          string          `json:"title" validate:"required,max=2000"`
	DateTime       *model.DateTime `json:"dateTime"`
	Location       string          `json:"location" validate:"max=2000"`
	Details        string          `json:"details" validate:"max=10000"`
	ParticipantIDs []uuid.UUID     `json:"participantIds"`
	AttachmentIDs  []uuid.UUID     `json:"attachmentIds"`
}

func (p *CreateMeetingPayload) Normalize() {
	p.Title = validation.LimitString(p.Title, TitleMaxLength)
	p.Location = validation.LimitString(p.Location, LocationMaxLength)
	p.Details = validation.LimitString(p.Details, DetailsMaxLength)
	p.ParticipantIDs = model.UniqueIDs(p.ParticipantIDs)
	p.AttachmentIDs = model.UniqueIDs(p.AttachmentIDs)
}

func (p *CreateMeetingPayload) Validate() error {
	if err := validation.Validator().Struct(p); err != nil {
		return err
	}
	return validateDateTime(p.DateTime)
}

// ------------------------------------------------------------

type UpdateMeetingPayload struct {
	ID       string          `param:"id" json:"-" validate:"required,uuid"`
	Title    *string         `json:"title" validate:"omitempty,min=1,max=2000"`
	DateTime *model.DateTime `json:"dateTime"`
	Location *string         `json:"location" validate:"omitempty,max=2000"`
	Details  *string         `json:"details" validate:"omitempty,max=10000"`
}

func (p *UpdateMeetingPayload) Normalize() {
	validation.LimitStringPtr(p.Title, TitleMaxLength)
	validation.LimitStringPtr(p.Location, LocationMaxLength)
	validation.LimitStringPtr(p.Details, DetailsMaxLength)
}

func (p *UpdateMeetingPayload) Validate() error {
	if err := validation.Validator().Struct(p); err != nil {
		return err
	}
	return validateDateTime(p.DateTime)
}

func (p *UpdateMeetingPayload) MeetingID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

// Apply copies the fields present in the payload onto meeting.
func (p *UpdateMeetingPayload) Apply(meeting *Meeting) {
	if p.Title != nil {
		meeting.Title = *p.Title
	}
	if p.DateTime != nil {
		dt := *p.DateTime
		meeting.DateTime = &dt
	}
	if p.Location != nil {
		meeting.Location = *p.Location
	}
	if p.Details != nil {
		meeting.Details = *p.Details
	}
}

// ------------------------------------------------------------

type (
	GetMeetingByIDPayload = model.IDPayload
	DeleteMeetingPayload  = model.IDPayload

	ParticipantsPayload = model.AssociationPayload
	AttachmentsPayload  = model.AssociationPayload
)

type ListMeetingsPayload struct{}

func (p *ListMeetingsPayload) Validate() error {
	return nil
}
