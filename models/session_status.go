package models

import "github.com/tutorlink/tutorlink/utils"

type SessionStatus string

const (
	StatusPending   SessionStatus = "pending"
	StatusConfirmed SessionStatus = "confirmed"
	StatusCompleted SessionStatus = "completed"
	StatusCancelled SessionStatus = "cancelled"
)

type SessionEvent string

const (
	EventAccept   SessionEvent = "accept"
	EventDecline  SessionEvent = "decline"
	EventComplete SessionEvent = "complete"
)

// transitions is the full state machine for a booked session. Booking
// itself creates a session directly in StatusPending, so it has no row
// here. completed and cancelled are terminal.
var transitions = map[SessionStatus]map[SessionEvent]SessionStatus{
	StatusPending: {
		EventAccept:  StatusConfirmed,
		EventDecline: StatusCancelled,
	},
	StatusConfirmed: {
		EventComplete: StatusCompleted,
	},
}

// Next returns the status reached by applying ev, or
// *utils.InvalidTransitionError when the edge does not exist.
func (s SessionStatus) Next(ev SessionEvent) (SessionStatus, error) {
	if next, ok := transitions[s][ev]; ok {
		return next, nil
	}
	return s, &utils.InvalidTransitionError{From: string(s), Event: string(ev)}
}

func (s SessionStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

func ParseSessionEvent(raw string) (SessionEvent, bool) {
	switch ev := SessionEvent(raw); ev {
	case EventAccept, EventDecline, EventComplete:
		return ev, true
	}
	return "", false
}
