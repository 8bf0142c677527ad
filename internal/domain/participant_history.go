package domain

import "time"

// HistoryChangeType enumerates recorded lifecycle transitions.
type HistoryChangeType string

const (
	HistoryChangeCreated     HistoryChangeType = "CREATED"
	HistoryChangeReplaced    HistoryChangeType = "REPLACED"
	HistoryChangeSoftDeleted HistoryChangeType = "SOFT_DELETED"
)

// ParticipantHistory is an audit entry for a participant lifecycle change.
// Old and new values hold JSON snapshots of the record.
type ParticipantHistory struct {
	ID         string
	Email      string
	ChangeType HistoryChangeType
	OldValue   *string
	NewValue   *string
	CreatedAt  time.Time
}
