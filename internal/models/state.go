package models

import (
	"lendit/internal/apperr"
)

// BookingState is the semantic filter token for booking listings.
// CURRENT/PAST/FUTURE are evaluated against "now" at query time;
// WAITING/REJECTED match the stored status.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState validates a raw state token. An empty token means ALL.
func ParseBookingState(raw string) (BookingState, error) {
	if raw == "" {
		return StateAll, nil
	}
	switch BookingState(raw) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(raw), nil
	}
	return "", apperr.Validationf("Unknown state: %s", raw)
}
