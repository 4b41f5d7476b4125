package notifications

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventType names a reservation or discussion state change.
type EventType string

const (
	EventReservationCreated   EventType = "RESERVATION_CREATED"
	EventReservationCancelled EventType = "RESERVATION_CANCELLED"
	EventReservationCompleted EventType = "RESERVATION_COMPLETED"
	EventDiscussionOpened     EventType = "DISCUSSION_OPENED"
	EventDiscussionResponded  EventType = "DISCUSSION_RESPONDED"
	EventDiscussionAccepted   EventType = "DISCUSSION_ACCEPTED"
	EventDiscussionRefused    EventType = "DISCUSSION_REFUSED"
)

// LifecycleEvent is published on the reservation-events topic, keyed by client.
type LifecycleEvent struct {
	ID            uuid.UUID        `json:"id"`
	Type          EventType        `json:"type"`
	ClientID      uuid.UUID        `json:"client_id"`
	ServiceID     uuid.UUID        `json:"service_id"`
	ServiceName   string           `json:"service_name"`
	ReservationID *uuid.UUID       `json:"reservation_id,omitempty"`
	DiscussionID  *uuid.UUID       `json:"discussion_id,omitempty"`
	Status        string           `json:"status"`
	Price         *decimal.Decimal `json:"price,omitempty"`
	OccurredAt    time.Time        `json:"occurred_at"`
}

func NewLifecycleEvent(eventType EventType, clientID, serviceID uuid.UUID, serviceName, status string) *LifecycleEvent {
	return &LifecycleEvent{
		ID:          uuid.New(),
		Type:        eventType,
		ClientID:    clientID,
		ServiceID:   serviceID,
		ServiceName: serviceName,
		Status:      status,
		OccurredAt:  time.Now().UTC(),
	}
}

func (e *LifecycleEvent) WithReservation(id uuid.UUID) *LifecycleEvent {
	e.ReservationID = &id
	return e
}

func (e *LifecycleEvent) WithDiscussion(id uuid.UUID) *LifecycleEvent {
	e.DiscussionID = &id
	return e
}

func (e *LifecycleEvent) WithPrice(price decimal.Decimal) *LifecycleEvent {
	e.Price = &price
	return e
}

func (e *LifecycleEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

// GetPartitionKey keeps all events of one client on the same partition.
func (e *LifecycleEvent) GetPartitionKey() string {
	return e.ClientID.String()
}

// Message renders the French sentence shown in the client's feed.
func (e *LifecycleEvent) Message() string {
	switch e.Type {
	case EventReservationCreated:
		return fmt.Sprintf("Votre réservation pour « %s » est enregistrée.", e.ServiceName)
	case EventReservationCancelled:
		return fmt.Sprintf("Votre réservation pour « %s » a été annulée.", e.ServiceName)
	case EventReservationCompleted:
		return fmt.Sprintf("Votre réservation pour « %s » est finalisée.", e.ServiceName)
	case EventDiscussionOpened:
		return fmt.Sprintf("Votre demande de devis pour « %s » a été transmise.", e.ServiceName)
	case EventDiscussionResponded:
		if e.Price != nil {
			return fmt.Sprintf("Nouvelle proposition pour « %s » : %s XAF.", e.ServiceName, e.Price.StringFixed(0))
		}
		return fmt.Sprintf("Nouvelle proposition pour « %s ».", e.ServiceName)
	case EventDiscussionAccepted:
		return fmt.Sprintf("Devis accepté pour « %s ». Votre réservation est confirmée.", e.ServiceName)
	case EventDiscussionRefused:
		return fmt.Sprintf("Devis refusé pour « %s ».", e.ServiceName)
	}
	return fmt.Sprintf("Mise à jour de « %s ».", e.ServiceName)
}

// ToNotification converts the event into an inbox entry.
func (e *LifecycleEvent) ToNotification() Notification {
	return Notification{
		ID:            e.ID,
		Type:          e.Type,
		Message:       e.Message(),
		ReservationID: e.ReservationID,
		DiscussionID:  e.DiscussionID,
		Status:        e.Status,
		CreatedAt:     e.OccurredAt,
	}
}

// Notification is one entry of a client's feed.
type Notification struct {
	ID            uuid.UUID  `json:"id"`
	Type          EventType  `json:"type"`
	Message       string     `json:"message"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	DiscussionID  *uuid.UUID `json:"discussion_id,omitempty"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []Notification `json:"notifications"`
	Count         int            `json:"count"`
}
