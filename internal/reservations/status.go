package reservations

import (
	"errors"
	"fmt"
)

type Status string

const (
	StatusReserved  Status = "réservé"
	StatusCompleted Status = "finalisé"
	StatusCancelled Status = "annulé"
)

// IsValid checks if the reservation status is valid
func (s Status) IsValid() bool {
	switch s {
	case StatusReserved, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanBeCancelled checks if a reservation with this status can be cancelled by its client
func (s Status) CanBeCancelled() bool {
	return s == StatusReserved
}

// CanBeCompleted checks if the florist can mark the reservation as done
func (s Status) CanBeCompleted() bool {
	return s == StatusReserved
}

// IsTerminal reports whether no further transition is possible
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// VenueType is where the event takes place
type VenueType string

const (
	VenueIndoor  VenueType = "intérieur"
	VenueOutdoor VenueType = "extérieur"
)

func (v VenueType) IsValid() bool {
	return v == VenueIndoor || v == VenueOutdoor
}

// ErrInvalidTransition is matched by every TransitionError.
var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionError carries the status that blocked a transition.
type TransitionError struct {
	Current string
	Target  string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move from %q to %q", e.Current, e.Target)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
