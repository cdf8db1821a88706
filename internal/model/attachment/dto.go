package attachment

import (
	"strings"

	"github.com/deppfellow/go-calendar/internal/model"
	"github.com/deppfellow/go-calendar/internal/validation"
	"github.com/google/uuid"
)

// ------------------------------------------------------------

type CreateAttachmentPayload struct {
	URL string `json:"url" validate:"required,url,max=2048"`
}

func (p *CreateAttachmentPayload) Normalize() {
	p.URL = strings.TrimSpace(p.URL)
}

func (p *CreateAttachmentPayload) Validate() error {
	return validation.Validator().Struct(p)
}

// ------------------------------------------------------------

type UpdateAttachmentPayload struct {
	ID  string  `param:"id" json:"-" validate:"required,uuid"`
	URL *string `json:"url" validate:"omitempty,url,max=2048"`
}

func (p *UpdateAttachmentPayload) Normalize() {
	if p.URL != nil {
		*p.URL = strings.TrimSpace(*p.URL)
	}
}

func (p *UpdateAttachmentPayload) Validate() error {
	return validation.Validator().Struct(p)
}

func (p *UpdateAttachmentPayload) AttachmentID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

func (p *UpdateAttachmentPayload) Apply(attachment *Attachment) {
	if p.URL != nil {
		attachment.URL = *p.URL
	}
}

// ------------------------------------------------------------

type (
	GetAttachmentByIDPayload = model.IDPayload
	DeleteAttachmentPayload  = model.IDPayload
)

type ListAttachmentsPayload struct{}

func (p *ListAttachmentsPayload) Validate() error {
	return nil
}
