package events

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types published by the team workflows
const (
	MemberJoined  = "member.joined"
	MemberLeft    = "member.left"
	MemberRemoved = "member.removed"
	LeaderChanged = "leader.changed"
	TeamUpdated   = "team.updated"
	TeamDeleted   = "team.deleted"
	TaskAssigned  = "task.assigned"
	TaskUpdated   = "task.updated"
)

// Event is a change on a team pushed to live subscribers
type Event struct {
	Type    string      `json:"type"`
	TeamID  uint        `json:"team_id"`
	ActorID uint        `json:"actor_id"`
	Data    interface{} `json:"data,omitempty"`
	At      time.Time   `json:"at"`
}

// Subscription receives the events of one team until cancelled
type Subscription struct {
	ID     string
	TeamID uint
	Events <-chan Event

	hub *Hub
	ch  chan Event
}

// Cancel stops delivery and closes the Events channel. It is safe to call more than once.
func (s *Subscription) Cancel() {
	s.hub.unsubscribe(s)
}

// Hub fans team events out to per-team subscribers. Publish never blocks: an event is
// dropped for a subscriber whose buffer is full.
type Hub struct {
	mu     sync.RWMutex
	subs   map[uint]map[string]*Subscription
	buffer int
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{
		subs:   make(map[uint]map[string]*Subscription),
		buffer: buffer,
	}
}

func (h *Hub) Subscribe(teamID uint) *Subscription {
	ch := make(chan Event, h.buffer)
	sub := &Subscription{
		ID:     uuid.NewString(),
		TeamID: teamID,
		Events: ch,
		hub:    h,
		ch:     ch,
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs[teamID] == nil {
		h.subs[teamID] = make(map[string]*Subscription)
	}
	h.subs[teamID][sub.ID] = sub
	return sub
}

func (h *Hub) unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	team := h.subs[sub.TeamID]
	if _, ok := team[sub.ID]; !ok {
		return
	}
	delete(team, sub.ID)
	if len(team) == 0 {
		delete(h.subs, sub.TeamID)
	}
	close(sub.ch)
}

// Publish delivers the event to the team's subscribers. A TeamDeleted event also closes them.
func (h *Hub) Publish(event Event) {
	if event.At.IsZero() {
		event.At = time.Now()
	}

	h.mu.RLock()
	for _, sub := range h.subs[event.TeamID] {
		select {
		case sub.ch <- event:
		default:
		}
	}
	h.mu.RUnlock()

	// A deleted team has nothing more to stream.
	if event.Type == TeamDeleted {
		h.CloseTeam(event.TeamID)
	}
}

// CloseTeam cancels every subscription of a deleted team
func (h *Hub) CloseTeam(teamID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, sub := range h.subs[teamID] {
		close(sub.ch)
	}
	delete(h.subs, teamID)
}

// Subscribers returns the number of live subscriptions for a team
func (h *Hub) Subscribers(teamID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[teamID])
}
