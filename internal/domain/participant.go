package domain

import "time"

// WorkInfo captures employment details. The fields are stored and returned
// as a unit; individual values are not validated.
type WorkInfo struct {
	CompanyName string  `json:"companyname"`
	Salary      float64 `json:"salary"`
	Currency    string  `json:"currency"`
}

// HomeInfo captures residence details.
type HomeInfo struct {
	Country string `json:"country"`
	City    string `json:"city"`
}

// Participant is the aggregate managed by this service. The email doubles as
// the store key and never changes after creation. Active=false marks a soft
// deleted record; soft deleted participants stay in the store.
type Participant struct {
	Email     string    `json:"email"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	DOB       string    `json:"dob"`
	Active    bool      `json:"active"`
	Work      WorkInfo  `json:"work"`
	Home      HomeInfo  `json:"home"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
