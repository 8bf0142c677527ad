package dto

import (
	"encoding/json"
	"time"
)

// WorkPayload mirrors the work sub-object on submitted payloads.
type WorkPayload struct {
	CompanyName string  `json:"companyname"`
	Salary      float64 `json:"salary"`
	Currency    string  `json:"currency"`
}

// HomePayload mirrors the home sub-object on submitted payloads.
type HomePayload struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// ParticipantRequest is the payload for create (POST) and replace (PUT).
// Work, Home and Active are pointers so presence can be validated.
type ParticipantRequest struct {
	Email     string       `json:"email"`
	FirstName string       `json:"firstname"`
	LastName  string       `json:"lastname"`
	DOB       string       `json:"dob"`
	Work      *WorkPayload `json:"work"`
	Home      *HomePayload `json:"home"`
	Active    *bool        `json:"active"`
}

// ParticipantResponse is the full record representation used by listings.
type ParticipantResponse struct {
	Email     string      `json:"email"`
	FirstName string      `json:"firstname"`
	LastName  string      `json:"lastname"`
	DOB       string      `json:"dob"`
	Active    bool        `json:"active"`
	Work      WorkPayload `json:"work"`
	Home      HomePayload `json:"home"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// ParticipantDetail is the single-record projection. The first name is
// exposed under "name"; the detail endpoint has always answered that way.
type ParticipantDetail struct {
	Name     string `json:"name"`
	LastName string `json:"lastname"`
	Active   bool   `json:"active"`
}

// HistoryEntryResponse is one recorded lifecycle transition. Old and new
// values are JSON snapshots of the record around the change.
type HistoryEntryResponse struct {
	ID         string          `json:"id"`
	Email      string          `json:"email"`
	ChangeType string          `json:"change_type"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// WorkResponse is the work projection.
type WorkResponse struct {
	CompanyName string  `json:"companyname"`
	Salary      float64 `json:"salary"`
	Currency    string  `json:"currency"`
}

// HomeResponse is the home projection.
type HomeResponse struct {
	Country string `json:"country"`
	City    string `json:"city"`
}
