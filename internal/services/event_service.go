package services

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/precisionhealth/skinsight-be/internal/models"
	"github.com/precisionhealth/skinsight-be/internal/websocket"
)

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(eventType, level, message string)
	Recent(limit int) []models.Event
}

// EventService keeps a bounded in-memory ring of audit events and broadcasts
// each new event over the websocket hub. Events are operational telemetry,
// not durable data, so they are not persisted with the accounts.
type EventService struct {
	mu     sync.Mutex
	events []models.Event
	max    int
	hub    *websocket.Hub
}

// NewEventService creates a new EventService. hub may be nil in tests.
func NewEventService(hub *websocket.Hub, max int) *EventService {
	if max <= 0 {
		max = 200
	}
	return &EventService{hub: hub, max: max}
}

// Record appends a new event and broadcasts it to connected feed clients.
func (s *EventService) Record(eventType, level, message string) {
	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	if len(s.events) > s.max {
		s.events = s.events[len(s.events)-s.max:]
	}
	s.mu.Unlock()

	if s.hub != nil {
		select {
		case s.hub.Broadcast <- websocket.NewEventMessage(event):
		default:
			// Feed congestion must not block request handling.
		}
	}
}

// Recent returns up to limit events, newest first.
func (s *EventService) Recent(limit int) []models.Event {
	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}
	out := make([]models.Event, 0, limit)
	for i := len(s.events) - 1; i >= len(s.events)-limit; i-- {
		out = append(out, s.events[i])
	}
	return out
}
