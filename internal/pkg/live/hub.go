// Package live pushes change events to connected dashboard clients over
// websockets. It is the thin live-subscription layer: each client carries the
// visibility scope of its authenticated user and only receives events for
// records inside that scope.
package live

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/mbaylon/interntrack/internal/app/models"
	"github.com/mbaylon/interntrack/internal/app/roster"
	"github.com/mbaylon/interntrack/internal/pkg/metrics"
)

// EventType identifies what changed
type EventType string

const (
	EventStudentCreated      EventType = "student.created"
	EventStudentUpdated      EventType = "student.updated"
	EventStudentDeleted      EventType = "student.deleted"
	EventRequirementUpdated  EventType = "requirement.updated"
	EventNotificationCreated EventType = "notification.created"
)

// Event is one change notification pushed to dashboard clients. Section and
// Program carry the affected record's grouping so the hub can apply
// per-client visibility; events with neither set are delivered to everyone.
type Event struct {
	Type      EventType   `json:"type"`
	Section   string      `json:"section,omitempty"`
	Program   string      `json:"program,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub maintains the set of connected dashboard clients and fans events out
// to those whose scope covers the affected record.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan *Event
	register   chan *Client
	unregister chan *Client

	mu     sync.RWMutex
	logger zerolog.Logger
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan *Event, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		logger:     logger,
	}
}

// Run starts the hub loop, handling registrations and broadcasts
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case event := <-h.broadcast:
			h.deliver(event)
		}
	}
}

// Publish queues an event for delivery. It never blocks the caller; when the
// hub is saturated the event is dropped, since the dashboard refetches on
// reconnect anyway.
func (h *Hub) Publish(event *Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warn().Str("type", string(event.Type)).Msg("Live feed saturated, dropping event")
	}
}

// ClientCount returns the number of connected clients
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	metrics.LiveClients.Inc()
	h.logger.Info().
		Int64("userID", client.userID).
		Str("role", string(client.scope.Role)).
		Msg("Dashboard client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.LiveClients.Dec()
		h.logger.Info().Int64("userID", client.userID).Msg("Dashboard client unregistered")
	}
}

func (h *Hub) deliver(event *Event) {
	data, err := json.Marshal(event)
	if err != nil {
		h.logger.Error().Err(err).Str("type", string(event.Type)).Msg("Failed to marshal live event")
		return
	}

	h.mu.RLock()
	var stale []*Client
	for client := range h.clients {
		if !visibleTo(client.scope, event) {
			continue
		}
		select {
		case client.send <- data:
		default:
			// Send buffer full: the client is slow or gone
			stale = append(stale, client)
		}
	}
	h.mu.RUnlock()

	// Drop stale clients directly. Run is the only receiver on the
	// unregister channel and deliver executes inside Run, so sending here
	// would block the loop forever.
	for _, client := range stale {
		h.unregisterClient(client)
	}
}

// visibleTo applies the same partition as the roster: events carrying a
// section or program are only delivered to clients allowed to see students
// in that grouping.
func visibleTo(scope roster.Scope, event *Event) bool {
	if event.Section == "" && event.Program == "" {
		return true
	}
	return scope.Allows(&models.Student{Program: event.Program, Section: event.Section})
}
