package validation

import (
	"net/mail"
	"strings"
	"time"

	"github.com/spec-kit/participant-service/internal/api/dto"
)

// FieldError describes a single failed field rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const dobLayout = "2006-01-02"

// ValidateParticipant checks a submitted participant payload and returns the
// violations in field declaration order: email, firstname, lastname, dob,
// work, home, active. An empty slice means the payload is valid. The function
// is pure; it never touches the store.
//
// requireActive is set for full-record replace, where the client must state
// the active flag explicitly.
func ValidateParticipant(req dto.ParticipantRequest, requireActive bool) []FieldError {
	var errs []FieldError

	if !isEmail(req.Email) {
		errs = append(errs, FieldError{Field: "email", Message: "Enter a valid email"})
	}
	if strings.TrimSpace(req.FirstName) == "" {
		errs = append(errs, FieldError{Field: "firstname", Message: "First name is required"})
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs = append(errs, FieldError{Field: "lastname", Message: "Last name is required"})
	}
	if _, err := time.Parse(dobLayout, req.DOB); err != nil {
		errs = append(errs, FieldError{Field: "dob", Message: "Enter a valid date format"})
	}
	if req.Work == nil {
		errs = append(errs, FieldError{Field: "work", Message: "Work data is required"})
	}
	if req.Home == nil {
		errs = append(errs, FieldError{Field: "home", Message: "Home data is required"})
	}
	if requireActive && req.Active == nil {
		errs = append(errs, FieldError{Field: "active", Message: "Active flag is required"})
	}

	return errs
}

// isEmail accepts addr-spec style addresses only; mail.ParseAddress alone is
// too permissive (it allows display names and missing domains).
func isEmail(s string) bool {
	if s == "" || strings.ContainsAny(s, " \t") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s {
		return false
	}
	at := strings.LastIndexByte(s, '@')
	if at <= 0 || at == len(s)-1 {
		return false
	}
	return strings.Contains(s[at+1:], ".")
}
