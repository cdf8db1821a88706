// Package model holds the resource types shared by the repository, service
// and handler layers. Each resource lives in its own subpackage together
// with its request payloads.
package model

import (
	"time"

	"github.com/google/uuid"
)

type BaseWithID struct {
	ID uuid.UUID `json:"id" db:"id"`
}

type BaseWithCreatedAt struct {
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type BaseWithUpdatedAt struct {
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Base struct {
	BaseWithID
	BaseWithCreatedAt
	BaseWithUpdatedAt
}

// NewBase assigns a fresh random id and sets both timestamps to now.
func NewBase(now time.Time) Base {
	now = now.UTC()
	return Base{
		BaseWithID:        BaseWithID{ID: uuid.New()},
		BaseWithCreatedAt: BaseWithCreatedAt{CreatedAt: now},
		BaseWithUpdatedAt: BaseWithUpdatedAt{UpdatedAt: now},
	}
}

// UniqueIDs drops duplicates while keeping the first occurrence order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
