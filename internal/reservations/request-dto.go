package reservations

import (
	"errors"
	"strings"
	"time"
)

// EventDateLayout is the wire format of event dates.
const EventDateLayout = "2006-01-02"

var (
	ErrInvalidEventDate = errors.New("invalid event date")
	ErrEventDateInPast  = errors.New("event date is in the past")
)

// EventDetailsRequest is embedded by reservation and discussion requests.
type EventDetailsRequest struct {
	EventDate   string    `json:"event_date" binding:"required,datetime=2006-01-02"`
	VenueType   VenueType `json:"venue_type" binding:"required,oneof=intérieur extérieur"`
	Address     string    `json:"address" binding:"required,max=500"`
	PeopleCount int       `json:"people_count" binding:"min=0,max=100000"`
	Message     string    `json:"message" binding:"max=2000"`
}

// ToDetails parses the request; the event date may not be before today.
func (r EventDetailsRequest) ToDetails(now time.Time) (EventDetails, error) {
	date, err := time.Parse(EventDateLayout, strings.TrimSpace(r.EventDate))
	if err != nil {
		return EventDetails{}, ErrInvalidEventDate
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if date.Before(today) {
		return EventDetails{}, ErrEventDateInPast
	}
	if !r.VenueType.IsValid() {
		return EventDetails{}, errors.New("invalid venue type")
	}

	return EventDetails{
		EventDate:   date,
		VenueType:   r.VenueType,
		Address:     strings.TrimSpace(r.Address),
		PeopleCount: r.PeopleCount,
		Message:     strings.TrimSpace(r.Message),
	}, nil
}

type CreateReservationRequest struct {
	ServiceID string `json:"service_id" binding:"required,uuid"`
	EventDetailsRequest
}

// ListQuery filters GET /admin/reservations
type ListQuery struct {
	Status string `form:"status"`
	Limit  int    `form:"limit,default=50" binding:"min=1,max=200"`
	Offset int    `form:"offset,default=0" binding:"min=0"`
}
