package models

// RiskLevel classifies a student's period attendance percentage. Band
// bounds are inclusive at the bottom: below 75 is critical, 75 up to but
// not including 90 is regular, 90 and above is excellent.
type RiskLevel string

const (
	RiskCritical  RiskLevel = "CRITICAL"
	RiskRegular   RiskLevel = "REGULAR"
	RiskExcellent RiskLevel = "EXCELLENT"
)

// ClassifyRisk maps a percentage onto its band.
func ClassifyRisk(percentage float64) RiskLevel {
	switch {
	case percentage < 75:
		return RiskCritical
	case percentage < 90:
		return RiskRegular
	default:
		return RiskExcellent
	}
}

// SaveOutcome is the user-facing verdict of a write operation. Callers use
// it to decide whether to warn, retry or roll back without relying on
// error control flow.
type SaveOutcome string

const (
	// OutcomeOK means the change is applied locally and confirmed remotely.
	OutcomeOK SaveOutcome = "OK"
	// OutcomeQueuedOffline means the change is applied locally only; the
	// remote write was skipped because the application is offline.
	OutcomeQueuedOffline SaveOutcome = "QUEUED_OFFLINE"
	// OutcomeFailed means the remote write was attempted and rejected.
	OutcomeFailed SaveOutcome = "FAILED"
)

// SubjectUnspecified is the sentinel bucket for attendance cells whose
// lesson slot has no resolvable subject name.
const SubjectUnspecified = "unspecified"
