package model

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/deppfellow/go-calendar/internal/validation"
	"github.com/google/uuid"
)

// AssociationPayload is the body of the bulk add/remove endpoints, e.g.
// POST /meetings/:id/participants. The body is either a bare JSON array of
// ids or an object of the form {"ids": [...]}.
type AssociationPayload struct {
	ID  string      `param:"id" json:"-" validate:"required,uuid"`
	IDs []uuid.UUID `json:"ids"`
}

// UnmarshalJSON only touches IDs, so the path id bound beforehand survives.
func (p *AssociationPayload) UnmarshalJSON(data []byte) error {
	ids, err := DecodeIDs(data)
	if err != nil {
		return err
	}
	p.IDs = ids
	return nil
}

func (p *AssociationPayload) Validate() error {
	return validation.Validator().Struct(p)
}

// ParentID is the parsed path id. Only call it after Validate succeeded.
func (p *AssociationPayload) ParentID() uuid.UUID {
	return uuid.MustParse(p.ID)
}

// DecodeIDs reads `[...]` or `{"ids": [...]}` into a de-duplicated id list.
func DecodeIDs(data []byte) ([]uuid.UUID, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}

	var ids []uuid.UUID
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &ids); err != nil {
			return nil, fmt.Errorf("invalid id list: %w", err)
		}
	case '{':
		var wrapper struct {
			IDs []uuid.UUID `json:"ids"`
		}
		if err := json.Unmarshal(trimmed, &wrapper); err != nil {
			return nil, fmt.Errorf("invalid id list: %w", err)
		}
		ids = wrapper.IDs
	default:
		return nil, fmt.Errorf("invalid id list: expected an array or an object with ids")
	}

	return UniqueIDs(ids), nil
}

// IDPayload binds a single :id path parameter.
type IDPayload struct {
	ID string `param:"id" json:"-" validate:"required,uuid"`
}

func (p *IDPayload) Validate() error {
	return validation.Validator().Struct(p)
}

// ParsedID is the parsed path id. Only call it after Validate succeeded.
func (p *IDPayload) ParsedID() uuid.UUID {
	return uuid.MustParse(p.ID)
}
