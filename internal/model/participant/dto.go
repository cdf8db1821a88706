package participant

import (
	"strings"

	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

type CreateParticipantPayload struct {
	Name  string `json:"name" validate:"required,max=600"`
	Email string `json:"email" validate:"omitempty,email,max=320"`
}

func (p *CreateParticipantPayload) Normalize() {
	p.Name = validation.LimitString(p.Name, NameMaxLength)
	p.Email = strings.TrimSpace(p.Email)
}

func (p *CreateParticipantPayload) Validate() error {
	return validation.Validator().Struct(p)
}

// ------------------------------------------------------------

type UpdateParticipantPayload struct {
	ID    string  `param:"id" json:"-" validate:"required,uuid"`
	Name  *string `json:"name" validate:"omitempty,min=1,max=600"`
	Email *string `json:"email" validate:"omitempty,max=320"`
}

func (p *UpdateParticipantPayload) Normalize() {
	validation.LimitStringPtr(p.Name, NameMaxLength)
	if p.Email != nil {
		*p.Email = strings.TrimSpace(*p.Email)
	}
}

// Validate accepts an empty email, which clears the stored one.
func (p *UpdateParticipantPayload) Validate() error {
	if err := validation.Validator().Struct(p); err != nil {
		return err
	}

	if p.Email != nil && *p.Email != "" {
		if err := validation.Validator().Var(*p.Email, "email"); err != nil {
			return validation.CustomValidationErrors{
				{Field: "email", Message: "must be a valid email address"},
			}
		}
	}

	return nil
}

func (p *UpdateParticipantPayload) ParticipantID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

// Apply copies the fields present in the payload onto participant.
func (p *UpdateParticipantPayload) Apply(participant *Participant) {
	if p.Name != nil {
		participant.Name = *p.Name
	}
	if p.Email != nil {
		participant.Email = *p.Email
	}
}

// ------------------------------------------------------------

type (
	GetParticipantByIDPayload = model.IDPayload
	DeleteParticipantPayload  = model.IDPayload
)

type ListParticipantsPayload struct{}

func (p *ListParticipantsPayload) Validate() error {
	return nil
}
