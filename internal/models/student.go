package models

import "strings"

// EnrollmentStatus classifies a student's registration state.
type EnrollmentStatus string

const (
	EnrollmentActive      EnrollmentStatus = "ACTIVE"
	EnrollmentDropout     EnrollmentStatus = "DROPOUT"
	EnrollmentTransferred EnrollmentStatus = "TRANSFERRED"
	EnrollmentOther       EnrollmentStatus = "OTHER"
)

// Valid returns true when the status is a supported value.
func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentActive, EnrollmentDropout, EnrollmentTransferred, EnrollmentOther:
		return true
	default:
		return false
	}
}

// enrollmentAliases maps spreadsheet spellings (English and Portuguese) onto
// the closed enumeration.
var enrollmentAliases = map[string]EnrollmentStatus{
	"ACTIVE":      EnrollmentActive,
	"ATIVO":       EnrollmentActive,
	"ATIVA":       EnrollmentActive,
	"CURSANDO":    EnrollmentActive,
	"DROPOUT":     EnrollmentDropout,
	"DESISTENTE":  EnrollmentDropout,
	"EVADIDO":     EnrollmentDropout,
	"TRANSFERRED": EnrollmentTransferred,
	"TRANSFERIDO": EnrollmentTransferred,
	"TRANSFERIDA": EnrollmentTransferred,
	"OTHER":       EnrollmentOther,
	"OUTRO":       EnrollmentOther,
	"OUTROS":      EnrollmentOther,
}

// ParseEnrollmentStatus normalises a raw spreadsheet value. Empty input
// defaults to ACTIVE; unrecognised non-empty input maps to OTHER.
func ParseEnrollmentStatus(raw string) EnrollmentStatus {
	trimmed := strings.ToUpper(strings.TrimSpace(raw))
	if trimmed == "" {
		return EnrollmentActive
	}
	if status, ok := enrollmentAliases[trimmed]; ok {
		return status
	}
	return EnrollmentOther
}

// LooksLikeEnrollmentStatus reports whether a raw value is a known
// enrollment spelling. Ingest uses it to detect column-shifted student rows
// whose class field actually carries a status.
func LooksLikeEnrollmentStatus(raw string) bool {
	_, ok := enrollmentAliases[strings.ToUpper(strings.TrimSpace(raw))]
	return ok
}

// Student represents a learner on the roster.
type Student struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	ClassID    string           `json:"class_id,omitempty"`
	Enrollment EnrollmentStatus `json:"enrollment"`
}
