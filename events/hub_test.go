package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubDeliversToTeamSubscribers(t *testing.T) {
	hub := NewHub(4)
	a := hub.Subscribe(1)
	b := hub.Subscribe(1)
	other := hub.Subscribe(2)

	hub.Publish(Event{Type: MemberJoined, TeamID: 1, ActorID: 7})

	for _, sub := range []*Subscription{a, b} {
		select {
		case ev := <-sub.Events:
			assert.Equal(t, MemberJoined, ev.Type)
			assert.Equal(t, uint(7), ev.ActorID)
			assert.False(t, ev.At.IsZero())
		default:
			t.Fatalf("subscriber %s got no event", sub.ID)
		}
	}

	select {
	case ev := <-other.Events:
		t.Fatalf("unexpected event for other team: %+v", ev)
	default:
	}
}

func TestHubDropsWhenBufferFull(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe(1)

	hub.Publish(Event{Type: TaskAssigned, TeamID: 1})
	hub.Publish(Event{Type: TaskUpdated, TeamID: 1})

	ev := <-sub.Events
	assert.Equal(t, TaskAssigned, ev.Type)
	select {
	case ev := <-sub.Events:
		t.Fatalf("expected dropped event, got %+v", ev)
	default:
	}
}

func TestHubCancel(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe(3)
	require.Equal(t, 1, hub.Subscribers(3))

	sub.Cancel()
	sub.Cancel()
	assert.Equal(t, 0, hub.Subscribers(3))

	_, open := <-sub.Events
	assert.False(t, open)

	// publishing to a team without subscribers is a no-op
	hub.Publish(Event{Type: TeamUpdated, TeamID: 3})
}

func TestHubCloseTeam(t *testing.T) {
	hub := NewHub(1)
	sub := hub.Subscribe(5)

	hub.CloseTeam(5)
	_, open := <-sub.Events
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers(5))

	sub.Cancel()
}

func TestHubTeamDeletedClosesSubscribers(t *testing.T) {
	hub := NewHub(2)
	sub := hub.Subscribe(9)

	hub.Publish(Event{Type: TeamDeleted, TeamID: 9})

	event, open := <-sub.Events
	assert.True(t, open)
	assert.Equal(t, TeamDeleted, event.Type)
	_, open = <-sub.Events
	assert.False(t, open)
	assert.Equal(t, 0, hub.Subscribers(9))
}
