package events

import (
	"time"

	"github.com/spec-kit/participant-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventParticipantCreated     EventType = "participant_created"
	EventParticipantReplaced    EventType = "participant_replaced"
	EventParticipantSoftDeleted EventType = "participant_soft_deleted"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Email     string      `json:"email"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ParticipantCreatedPayload payload.
type ParticipantCreatedPayload struct {
	Participant domain.Participant `json:"participant"`
}

// ParticipantReplacedPayload payload.
type ParticipantReplacedPayload struct {
	Old domain.Participant `json:"old"`
	New domain.Participant `json:"new"`
}

// ParticipantSoftDeletedPayload payload.
type ParticipantSoftDeletedPayload struct {
	Old domain.Participant `json:"old"`
	New domain.Participant `json:"new"`
}
