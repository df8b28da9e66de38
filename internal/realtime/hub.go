package realtime

import (
	"sync"

	"github.com/google/uuid"
)

// Event is the envelope written to live connections.
type Event struct {
	Name    string `json:"event"`
	Payload any    `json:"payload"`
}

// Session is one live connection belonging to a user. Deliver must not
// block; implementations drop the session when their buffer overflows.
type Session interface {
	Deliver(ev Event)
}

type connSet struct {
	mu       sync.Mutex
	sessions map[Session]struct{}
}

// Hub maps user IDs to their live sessions. A user may hold several
// simultaneous connections (multiple devices). Each user's set carries its
// own lock so pushes to unrelated users never serialize on each other; the
// outer map lock only guards registry membership.
type Hub struct {
	mu    sync.RWMutex
	users map[uuid.UUID]*connSet
}

func NewHub() *Hub {
	return &Hub{users: make(map[uuid.UUID]*connSet)}
}

func (h *Hub) Join(userID uuid.UUID, s Session) {
	h.mu.Lock()
	set, ok := h.users[userID]
	if !ok {
		set = &connSet{sessions: make(map[Session]struct{})}
		h.users[userID] = set
	}

	// The add happens under the registry lock: a concurrent Leave emptying
	// the set would otherwise unlink it from the map between our lookup and
	// the insert, leaving this session unreachable by Send.
	set.mu.Lock()
	set.sessions[s] = struct{}{}
	set.mu.Unlock()
	h.mu.Unlock()
}

func (h *Hub) Leave(userID uuid.UUID, s Session) {
	h.mu.Lock()
	set, ok := h.users[userID]
	if !ok {
		h.mu.Unlock()
		return
	}

	set.mu.Lock()
	delete(set.sessions, s)
	empty := len(set.sessions) == 0
	set.mu.Unlock()

	if empty {
		delete(h.users, userID)
	}
	h.mu.Unlock()
}

// Send delivers an event to every live connection of a user. Best effort:
// if the user has no connection the event is dropped, authoritative state
// already lives in the stores.
func (h *Hub) Send(userID uuid.UUID, event string, payload any) {
	h.mu.RLock()
	set, ok := h.users[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	ev := Event{Name: event, Payload: payload}

	set.mu.Lock()
	for s := range set.sessions {
		s.Deliver(ev)
	}
	set.mu.Unlock()
}

// Connections reports how many live sessions a user currently holds.
func (h *Hub) Connections(userID uuid.UUID) int {
	h.mu.RLock()
	set, ok := h.users[userID]
	h.mu.RUnlock()
	if !ok {
		return 0
	}

	set.mu.Lock()
	defer set.mu.Unlock()
	return len(set.sessions)
}
