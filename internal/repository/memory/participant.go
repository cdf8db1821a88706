package memory

import (
	"context"

	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/deppfellow/go-calendar/internal/sqlerr"
	"github.com/google/uuid"
)

type ParticipantRepository struct {
	store *Store
}

func NewParticipantRepository(store *Store) *ParticipantRepository {
	return &ParticipantRepository{store: store}
}

func participantKey(p participant.Participant) (int64, uuid.UUID) {
	return p.CreatedAt.UnixNano(), p.ID
}

func (st *state) participantsByIDs(ids []uuid.UUID) []participant.Participant {
	out := make([]participant.Participant, 0, len(ids))
	for _, id := range ids {
		if p, ok := st.participants[id]; ok {
			out = append(out, p)
		}
	}
	sortByCreation(out, participantKey)
	return out
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	return run(ctx, r.store, func(st *state) ([]participant.Participant, error) {
		out := make([]participant.Participant, 0, len(st.participants))
		for _, p := range st.participants {
			out = append(out, p)
		}
		sortByCreation(out, participantKey)
		return out, nil
	})
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id uuid.UUID) (*participant.Participant, error) {
	return run(ctx, r.store, func(st *state) (*participant.Participant, error) {
		p, ok := st.participants[id]
		if !ok {
			return nil, sqlerr.NotFound("participants", id)
		}
		return &p, nil
	})
}

func (r *ParticipantRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]participant.Participant, error) {
	return run(ctx, r.store, func(st *state) ([]participant.Participant, error) {
		return st.participantsByIDs(ids), nil
	})
}

func (r *ParticipantRepository) Create(ctx context.Context, p *participant.Participant) (*participant.Participant, error) {
	return run(ctx, r.store, func(st *state) (*participant.Participant, error) {
		st.participants[p.ID] = *p
		created := *p
		return &created, nil
	})
}

func (r *ParticipantRepository) Update(ctx context.Context, p *participant.Participant) (*participant.Participant, error) {
	return run(ctx, r.store, func(st *state) (*participant.Participant, error) {
		current, ok := st.participants[p.ID]
		if !ok {
			return nil, sqlerr.NotFound("participants", p.ID)
		}
		updated := *p
		updated.CreatedAt = current.CreatedAt
		st.participants[p.ID] = updated
		return &updated, nil
	})
}

func (r *ParticipantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return write(ctx, r.store, func(st *state) error {
		delete(st.participants, id)
		st.meetingParticipants.dropRight(id)
		return nil
	})
}

func (r *ParticipantRepository) MeetingIDs(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return run(ctx, r.store, func(st *state) ([]uuid.UUID, error) {
		return st.meetingParticipants.right[id].ids(), nil
	})
}
