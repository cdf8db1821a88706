// Package memory keeps every resource in process memory. It backs the
// "memory" database driver and the service and handler tests.
//
// All repositories created from one Store share its state. A single mutex
// serializes operations; WithinTransaction holds it for the whole callback
// and restores a snapshot when the callback fails.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/deppfellow/go-calendar/internal/model/attachment"
	"github.com/deppfellow/go-calendar/internal/model/calendar"
	"github.com/deppfellow/go-calendar/internal/model/meeting"
	"github.com/deppfellow/go-calendar/internal/model/participant"
	"github.com/google/uuid"
)

// links is an insertion-ordered set of ids.
type links struct {
	order []uuid.UUID
	set   map[uuid.UUID]struct{}
}

func (l *links) add(id uuid.UUID) bool {
	if l.set == nil {
		l.set = make(map[uuid.UUID]struct{})
	}
	if _, ok := l.set[id]; ok {
		return false
	}
	l.set[id] = struct{}{}
	l.order = append(l.order, id)
	return true
}

func (l *links) remove(id uuid.UUID) {
	if _, ok := l.set[id]; !ok {
		return
	}
	delete(l.set, id)
	l.order = slices.DeleteFunc(l.order, func(other uuid.UUID) bool { return other == id })
}

func (l *links) len() int {
	if l == nil {
		return 0
	}
	return len(l.order)
}

func (l *links) ids() []uuid.UUID {
	if l == nil {
		return nil
	}
	return slices.Clone(l.order)
}

func (l *links) clone() *links {
	out := &links{order: slices.Clone(l.order), set: make(map[uuid.UUID]struct{}, len(l.set))}
	for id := range l.set {
		out.set[id] = struct{}{}
	}
	return out
}

// relation is one join table, indexed from both sides.
type relation struct {
	left  map[uuid.UUID]*links
	right map[uuid.UUID]*links
}

func newRelation() relation {
	return relation{left: make(map[uuid.UUID]*links), right: make(map[uuid.UUID]*links)}
}

func (r relation) link(left, right uuid.UUID) bool {
	if r.left[left] == nil {
		r.left[left] = &links{}
	}
	if r.right[right] == nil {
		r.right[right] = &links{}
	}
	r.right[right].add(left)
	return r.left[left].add(right)
}

func (r relation) unlink(left, right uuid.UUID) {
	if l := r.left[left]; l != nil {
		l.remove(right)
	}
	if l := r.right[right]; l != nil {
		l.remove(left)
	}
}

func (r relation) dropLeft(left uuid.UUID) {
	for _, right := range r.left[left].ids() {
		r.unlink(left, right)
	}
	delete(r.left, left)
}

func (r relation) dropRight(right uuid.UUID) {
	for _, left := range r.right[right].ids() {
		r.unlink(left, right)
	}
	delete(r.right, right)
}

func (r relation) clone() relation {
	out := newRelation()
	for id, l := range r.left {
		out.left[id] = l.clone()
	}
	for id, l := range r.right {
		out.right[id] = l.clone()
	}
	return out
}

type state struct {
	meetings     map[uuid.UUID]meeting.Meeting
	participants map[uuid.UUID]participant.Participant
	attachments  map[uuid.UUID]attachment.Attachment
	calendars    map[uuid.UUID]calendar.Calendar

	meetingParticipants relation // meeting -> participant
	meetingAttachments  relation // meeting -> attachment
	calendarMeetings    relation // calendar -> meeting
}

func newState() *state {
	return &state{
		meetings:            make(map[uuid.UUID]meeting.Meeting),
		participants:        make(map[uuid.UUID]participant.Participant),
		attachments:         make(map[uuid.UUID]attachment.Attachment),
		calendars:           make(map[uuid.UUID]calendar.Calendar),
		meetingParticipants: newRelation(),
		meetingAttachments:  newRelation(),
		calendarMeetings:    newRelation(),
	}
}

func cloneMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func (s *state) clone() *state {
	return &state{
		meetings:            cloneMap(s.meetings),
		participants:        cloneMap(s.participants),
		attachments:         cloneMap(s.attachments),
		calendars:           cloneMap(s.calendars),
		meetingParticipants: s.meetingParticipants.clone(),
		meetingAttachments:  s.meetingAttachments.clone(),
		calendarMeetings:    s.calendarMeetings.clone(),
	}
}

// Store is the shared in-memory database.
type Store struct {
	mu    sync.Mutex
	state *state
}

func NewStore() *Store {
	return &Store{state: newState()}
}

type txKey struct{}

func inTransaction(ctx context.Context) bool {
	held, _ := ctx.Value(txKey{}).(bool)
	return held
}

// WithinTransaction runs fn while holding the store lock. On error the
// state from before fn is restored.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTransaction(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.state.clone()
	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		s.state = snapshot
		return err
	}
	return nil
}

// run runs fn against the state, taking the lock unless ctx is already
// inside a transaction.
func run[T any](ctx context.Context, s *Store, fn func(st *state) (T, error)) (T, error) {
	if err := ctx.Err(); err != nil {
		var zero T
		return zero, err
	}
	if inTransaction(ctx) {
		return fn(s.state)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.state)
}

func write(ctx context.Context, s *Store, fn func(st *state) error) error {
	_, err := run(ctx, s, func(st *state) (struct{}, error) {
		return struct{}{}, fn(st)
	})
	return err
}

// sortByCreation orders records by creation time, then id.
func sortByCreation[T any](items []T, key func(T) (int64, uuid.UUID)) {
	slices.SortFunc(items, func(a, b T) int {
		at, aid := key(a)
		bt, bid := key(b)
		if at != bt {
			if at < bt {
				return -1
			}
			return 1
		}
		return slices.Compare(aid[:], bid[:])
	})
}
