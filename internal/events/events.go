package events

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/Sher-V/play-today-admin/internal/models"
)

const (
	EventBookingCreated   = "booking_created"
	EventBookingConfirmed = "booking_confirmed"
	EventBookingCanceled  = "booking_canceled"
	EventSeriesCreated    = "series_created"
	EventSeriesCanceled   = "series_canceled"
	EventCommentUpdated   = "comment_updated"
)

// BookingEventPayload is the minimal booking snapshot delivered to
// event consumers (cache invalidation, metrics).
type BookingEventPayload struct {
	BookingID  int64               `json:"booking_id"`
	CourtID    int64               `json:"court_id"`
	CourtName  string              `json:"court_name"`
	Date       models.Date         `json:"date"`
	StartTime  models.ClockTime    `json:"start_time"`
	EndTime    models.ClockTime    `json:"end_time"`
	Activity   models.ActivityKind `json:"activity"`
	Status     string              `json:"status"`
	SeriesID   string              `json:"series_id,omitempty"`
	ClientName string              `json:"client_name,omitempty"`
	Comment    string              `json:"comment,omitempty"`
}

// SeriesEventPayload summarizes a whole-series operation.
type SeriesEventPayload struct {
	SeriesID     string        `json:"series_id"`
	CourtID      int64         `json:"court_id"`
	CreatedDates []models.Date `json:"created_dates,omitempty"`
	SkippedDates []models.Date `json:"skipped_dates,omitempty"`
	Affected     int           `json:"affected,omitempty"`
}

// PayloadFor builds the event payload for one booking.
func PayloadFor(b *models.Booking) BookingEventPayload {
	return BookingEventPayload{
		BookingID:  b.ID,
		CourtID:    b.CourtID,
		CourtName:  b.CourtName,
		Date:       b.Date,
		StartTime:  b.StartTime,
		EndTime:    b.EndTime,
		Activity:   b.Activity,
		Status:     b.Status,
		SeriesID:   b.SeriesID,
		ClientName: b.ClientName,
		Comment:    b.Comment,
	}
}

// Event represents a lightweight domain event.
type Event struct {
	ID        int64
	Type      string
	Payload   []byte
	CreatedAt time.Time
}

// Unmarshal decodes the payload into v.
func (e *Event) Unmarshal(v interface{}) error {
	return json.Unmarshal(e.Payload, v)
}

// EventHandler reacts to an event.
type EventHandler func(event *Event) error

// EventBus provides in-process pub/sub for events.
type EventBus struct {
	subscribers map[string][]EventHandler
	mu          sync.RWMutex
}

// NewEventBus constructs an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string][]EventHandler)}
}

// Subscribe registers a handler for a given event type.
func (b *EventBus) Subscribe(eventType string, handler EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[eventType] = append(b.subscribers[eventType], handler)
}

// Publish notifies subscribers of the event type.
func (b *EventBus) Publish(event *Event) {
	b.mu.RLock()
	handlers := append([]EventHandler(nil), b.subscribers[event.Type]...)
	b.mu.RUnlock()

	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	for _, handler := range handlers {
		// Handlers run synchronously; caller decides concurrency model.
		_ = handler(event)
	}
}

// PublishJSON serializes the payload and publishes an event.
func (b *EventBus) PublishJSON(eventType string, payload interface{}) error {
	if b == nil {
		return nil
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	b.Publish(&Event{Type: eventType, Payload: raw, CreatedAt: time.Now()})
	return nil
}
