package conversation

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/raphaelgruber/aura-go/internal/models"
)

// EventType identifies a store mutation kind for subscribers.
type EventType string

const (
	EventTurnAppended   EventType = "turn_appended"
	EventTurnResolved   EventType = "turn_resolved"
	EventRequestAdded   EventType = "request_added"
	EventRequestRemoved EventType = "request_removed"
	EventCleared        EventType = "cleared"
)

// Event describes one store mutation. Turn is a snapshot copy and safe to
// retain.
type Event struct {
	Type      EventType
	Turn      *models.Turn
	RequestID string
}

// TurnPatch is the in-place resolution applied to a pending agent turn.
// Nil fields are left untouched.
type TurnPatch struct {
	Text *string
	Tool *models.ToolCall
	Err  *string
}

// Store is the single source of truth for the conversation: the ordered
// turn history plus the set of in-flight requests. Turns are append-only
// except for the one-time in-place resolution of a pending placeholder.
//
// All mutation goes through AppendTurn/ResolveTurn/Clear and the request
// primitives, which are safe for concurrent use. Mutations are expected to
// come from a single Manager; the lock guards against concurrent resolves
// from parallel sends.
type Store struct {
	mu      sync.RWMutex
	turns   []models.Turn
	pending map[string]*PendingRequest
	subs    map[string]chan Event
	turnSeq uint64
}

// NewStore creates an empty conversation store.
func NewStore() *Store {
	return &Store{
		pending: make(map[string]*PendingRequest),
		subs:    make(map[string]chan Event),
	}
}

// NextTurnID returns a fresh monotonic turn id. A counter rather than a
// timestamp: two sends inside the same millisecond must never collide.
func (s *Store) NextTurnID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.turnSeq++
	return fmt.Sprintf("t-%d", s.turnSeq)
}

// AppendTurn appends a turn to the history.
func (s *Store) AppendTurn(t models.Turn) {
	s.mu.Lock()
	s.turns = append(s.turns, t)
	s.mu.Unlock()
	s.publish(Event{Type: EventTurnAppended, Turn: &t})
}

// AppendExchange appends a user turn and its agent placeholder as one unit
// and returns both (with ids assigned) plus the history as of the user turn,
// placeholder excluded. Running under a single critical section keeps the
// pair adjacent in the log and gives each send a consistent snapshot even
// when sends race.
func (s *Store) AppendExchange(user, placeholder models.Turn) (models.Turn, models.Turn, []models.Turn) {
	s.mu.Lock()
	s.turnSeq++
	user.ID = fmt.Sprintf("t-%d", s.turnSeq)
	s.turns = append(s.turns, user)

	history := make([]models.Turn, len(s.turns))
	copy(history, s.turns)

	s.turnSeq++
	placeholder.ID = fmt.Sprintf("t-%d", s.turnSeq)
	s.turns = append(s.turns, placeholder)
	s.mu.Unlock()

	s.publish(Event{Type: EventTurnAppended, Turn: &user})
	s.publish(Event{Type: EventTurnAppended, Turn: &placeholder})
	return user, placeholder, history
}

// ResolveTurn patches the turn with the given id in place. The patch is
// applied only while the turn is still in its pending placeholder shape, so
// resolving the same turn twice is a no-op on the second call. Returns
// whether the patch was applied.
func (s *Store) ResolveTurn(id string, patch TurnPatch) bool {
	s.mu.Lock()
	var resolved *models.Turn
	for i := range s.turns {
		if s.turns[i].ID != id {
			continue
		}
		if !s.turns[i].Pending() {
			break
		}
		if patch.Text != nil {
			s.turns[i].Text = *patch.Text
		}
		if patch.Tool != nil {
			s.turns[i].Tool = patch.Tool
		}
		if patch.Err != nil {
			s.turns[i].Error = *patch.Err
		}
		snapshot := s.turns[i]
		resolved = &snapshot
		break
	}
	s.mu.Unlock()

	if resolved == nil {
		return false
	}
	s.publish(Event{Type: EventTurnResolved, Turn: resolved})
	return true
}

// Turns returns a snapshot copy of the turn history.
func (s *Store) Turns() []models.Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

// Turn returns a snapshot of one turn by id.
func (s *Store) Turn(id string) (models.Turn, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.turns {
		if s.turns[i].ID == id {
			return s.turns[i], true
		}
	}
	return models.Turn{}, false
}

// AddRequest registers an in-flight request.
func (s *Store) AddRequest(r *PendingRequest) {
	s.mu.Lock()
	s.pending[r.ID] = r
	s.mu.Unlock()
	s.publish(Event{Type: EventRequestAdded, RequestID: r.ID})
}

// RemoveRequest drops a request from the pending set. Removing an unknown
// id is a no-op.
func (s *Store) RemoveRequest(id string) {
	s.mu.Lock()
	_, ok := s.pending[id]
	if ok {
		delete(s.pending, id)
	}
	s.mu.Unlock()
	if ok {
		s.publish(Event{Type: EventRequestRemoved, RequestID: id})
	}
}

// Request looks up a pending request by id.
func (s *Store) Request(id string) *PendingRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending[id]
}

// Requests returns the current pending requests.
func (s *Store) Requests() []*PendingRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*PendingRequest, 0, len(s.pending))
	for _, r := range s.pending {
		out = append(out, r)
	}
	return out
}

// Busy reports whether any request is in flight.
func (s *Store) Busy() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pending) > 0
}

// Clear resets the conversation to empty. Only turns and requests are
// dropped; externally owned data (fleet, dealers) is untouched. The turn id
// sequence keeps counting so ids stay unique across a session.
func (s *Store) Clear() {
	s.mu.Lock()
	s.turns = nil
	s.pending = make(map[string]*PendingRequest)
	s.mu.Unlock()
	s.publish(Event{Type: EventCleared})
}

// Subscribe registers an observer channel for store events. The returned
// cancel function unsubscribes and closes the channel. Slow subscribers drop
// events rather than block mutations.
func (s *Store) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)
	id := uuid.New().String()

	s.mu.Lock()
	s.subs[id] = ch
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		sub, ok := s.subs[id]
		if ok {
			delete(s.subs, id)
		}
		s.mu.Unlock()
		if ok {
			close(sub)
		}
	}
	return ch, cancel
}

func (s *Store) publish(ev Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, ch := range s.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
