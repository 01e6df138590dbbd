package models

import "strconv"

// AttendanceStatus is the per-lesson mark for a student on a given date.
// Values follow the spreadsheet conventions: P (presente), F (falta),
// J (justificado). The empty string means the cell was never marked.
type AttendanceStatus string

const (
	AttendancePresent   AttendanceStatus = "P"
	AttendanceAbsent    AttendanceStatus = "F"
	AttendanceExcused   AttendanceStatus = "J"
	AttendanceUndefined AttendanceStatus = ""
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendancePresent, AttendanceAbsent, AttendanceExcused, AttendanceUndefined:
		return true
	default:
		return false
	}
}

// Next advances the status along the fixed toggle cycle:
// undefined → present → absent → excused → undefined.
func (s AttendanceStatus) Next() AttendanceStatus {
	switch s {
	case AttendanceUndefined:
		return AttendancePresent
	case AttendancePresent:
		return AttendanceAbsent
	case AttendanceAbsent:
		return AttendanceExcused
	case AttendanceExcused:
		return AttendanceUndefined
	default:
		return AttendanceUndefined
	}
}

// Marked reports whether the cell counts toward attendance totals.
func (s AttendanceStatus) Marked() bool {
	return s != AttendanceUndefined
}

// PendingChange is a locally applied attendance edit not yet confirmed
// persisted to the remote store. At most one entry exists per
// (student, date, lesson) cell; a newer edit replaces the older one.
// Subject and topic are resolved at edit time so the remote record stays
// self-describing even if the day configuration changes later.
type PendingChange struct {
	StudentID   string           `json:"student_id"`
	Date        string           `json:"date"`
	LessonIndex int              `json:"lesson_index"`
	Status      AttendanceStatus `json:"status"`
	Subject     string           `json:"subject,omitempty"`
	Topic       string           `json:"topic,omitempty"`
}

// CellKey identifies the attendance cell a change targets.
func (p PendingChange) CellKey() string {
	return CellKey(p.StudentID, p.Date, p.LessonIndex)
}

// CellKey builds the dedup key for a (student, date, lesson) cell.
func CellKey(studentID, date string, lessonIndex int) string {
	return studentID + "|" + date + "|" + strconv.Itoa(lessonIndex)
}
