package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateTimeJSON(t *testing.T) {
	var dt DateTime
	require.NoError(t, json.Unmarshal([]byte(`"2030-05-01 09:30"`), &dt))
	assert.Equal(t, time.Date(2030, 5, 1, 9, 30, 0, 0, time.UTC), dt.Time)

	out, err := json.Marshal(dt)
	require.NoError(t, err)
	assert.JSONEq(t, `"2030-05-01 09:30"`, string(out))

	require.NoError(t, json.Unmarshal([]byte(`"2030-05-01T11:30:45+02:00"`), &dt))
	assert.Equal(t, "2030-05-01 09:30", dt.String())

	assert.Error(t, json.Unmarshal([]byte(`"tomorrow"`), &dt))
	assert.Error(t, json.Unmarshal([]byte(`42`), &dt))
}

func TestDateTimeNotBefore(t *testing.T) {
	now := time.Date(2030, 1, 1, 12, 0, 40, 0, time.UTC)

	assert.True(t, NewDateTime(time.Date(2030, 1, 1, 12, 0, 0, 0, time.UTC)).NotBefore(now))
	assert.False(t, NewDateTime(time.Date(2030, 1, 1, 11, 59, 0, 0, time.UTC)).NotBefore(now))
}

func TestDecodeIDs(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	ids, err := DecodeIDs([]byte(`["` + a.String() + `","` + b.String() + `","` + a.String() + `"]`))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{a, b}, ids)

	ids, err = DecodeIDs([]byte(`{"ids":["` + b.String() + `"]}`))
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{b}, ids)

	ids, err = DecodeIDs([]byte(` null `))
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = DecodeIDs([]byte(`["not-a-uuid"]`))
	assert.Error(t, err)

	_, err = DecodeIDs([]byte(`"x"`))
	assert.Error(t, err)
}

func TestAssociationPayloadKeepsPathID(t *testing.T) {
	id := uuid.New()
	p := &AssociationPayload{ID: "6f1c2a9e-8d3b-4c1a-9f2e-3b4a5c6d7e8f"}

	require.NoError(t, json.Unmarshal([]byte(`["`+id.String()+`"]`), p))
	assert.Equal(t, "6f1c2a9e-8d3b-4c1a-9f2e-3b4a5c6d7e8f", p.ID)
	assert.Equal(t, []uuid.UUID{id}, p.IDs)
	require.NoError(t, p.Validate())
	assert.Equal(t, uuid.MustParse(p.ID), p.ParentID())

	p.ID = "nope"
	assert.Error(t, p.Validate())
}

func TestNewBaseAndUniqueIDs(t *testing.T) {
	now := time.Now()
	b := NewBase(now)
	assert.NotEqual(t, uuid.Nil, b.ID)
	assert.Equal(t, b.CreatedAt, b.UpdatedAt)
	assert.Nil(t, UniqueIDs(nil))
}
