package live

import (
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/roster"
)

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount() == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("ClientCount = %d, want %d", hub.ClientCount(), want)
}

func TestDeliverDropsSlowClientWithoutBlockingTheLoop(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	// A client that never drains its send channel
	slow := &Client{
		hub:    hub,
		send:   make(chan []byte),
		userID: 1,
		scope:  roster.Scope{Role: models.RoleAdmin},
		logger: zerolog.Nop(),
	}
	hub.register <- slow
	waitForClientCount(t, hub, 1)

	hub.Publish(&Event{Type: EventStudentUpdated})
	waitForClientCount(t, hub, 0)

	// The loop must keep serving registrations after dropping the client
	fresh := &Client{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: 2,
		scope:  roster.Scope{Role: models.RoleAdmin},
		logger: zerolog.Nop(),
	}
	registered := make(chan struct{})
	go func() {
		hub.register <- fresh
		close(registered)
	}()
	select {
	case <-registered:
	case <-time.After(2 * time.Second):
		t.Fatal("hub stopped accepting registrations after dropping a slow client")
	}
	waitForClientCount(t, hub, 1)

	hub.Publish(&Event{Type: EventStudentCreated})
	select {
	case <-fresh.send:
	case <-time.After(2 * time.Second):
		t.Fatal("event was not delivered after a slow client was dropped")
	}

	select {
	case _, open := <-slow.send:
		if open {
			t.Error("slow client received an event instead of being dropped")
		}
	default:
		t.Error("slow client send channel was not closed")
	}
}

func TestDeliverAppliesScopePartition(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	inScope := &Client{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: 1,
		scope:  roster.Scope{Role: models.RoleCoordinator, Sections: []string{"IT-4A"}},
		logger: zerolog.Nop(),
	}
	outOfScope := &Client{
		hub:    hub,
		send:   make(chan []byte, 8),
		userID: 2,
		scope:  roster.Scope{Role: models.RoleCoordinator, Sections: []string{"CS-4B"}},
		logger: zerolog.Nop(),
	}
	hub.register <- inScope
	hub.register <- outOfScope
	waitForClientCount(t, hub, 2)

	hub.Publish(&Event{Type: EventStudentUpdated, Section: "IT-4A"})

	select {
	case <-inScope.send:
	case <-time.After(2 * time.Second):
		t.Fatal("in-scope client did not receive the event")
	}
	select {
	case <-outOfScope.send:
		t.Error("out-of-scope client received the event")
	case <-time.After(50 * time.Millisecond):
	}
}
