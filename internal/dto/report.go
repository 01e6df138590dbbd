package dto

import "github.com/mathvieira649/frequenciaeconteudo/internal/models"

// AttendanceCounts accumulates marked cells for one student and period.
type AttendanceCounts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Excused int `json:"excused"`
	Total   int `json:"total"`
}

// StudentPeriodStats is one roster row of a period report.
type StudentPeriodStats struct {
	StudentID  string                  `json:"student_id"`
	Name       string                  `json:"name"`
	Enrollment models.EnrollmentStatus `json:"enrollment"`
	Counts     AttendanceCounts        `json:"counts"`
	Percentage float64                 `json:"percentage"`
	Risk       models.RiskLevel        `json:"risk"`
}

// BimesterReport aggregates one class over one term.
type BimesterReport struct {
	BimesterID   string               `json:"bimester_id"`
	Name         string               `json:"name"`
	Start        string               `json:"start"`
	End          string               `json:"end"`
	Students     []StudentPeriodStats `json:"students"`
	ClassAverage float64              `json:"class_average"`
}

// MonthlyStudentRow is one row of the per-class-month grid summary. The
// grid convention differs from reports: a zero denominator is treated as 1
// for the percentage while the display shows "-" when no lessons happened.
type MonthlyStudentRow struct {
	StudentID      string           `json:"student_id"`
	Name           string           `json:"name"`
	Counts         AttendanceCounts `json:"counts"`
	TotalLessons   int              `json:"total_lessons"`
	Percentage     float64          `json:"percentage"`
	PercentDisplay string           `json:"percent_display"`
}

// ClassMonthSummary is the month view of one class.
type ClassMonthSummary struct {
	ClassID string              `json:"class_id"`
	Month   string              `json:"month"`
	Rows    []MonthlyStudentRow `json:"rows"`
}

// SubjectStats accumulates attendance per resolved subject name.
type SubjectStats struct {
	Subject    string  `json:"subject"`
	Present    int     `json:"present"`
	Total      int     `json:"total"`
	Percentage float64 `json:"percentage"`
}

// RankedStudent is one entry of the at-risk or top-performer lists.
type RankedStudent struct {
	StudentID  string           `json:"student_id"`
	Name       string           `json:"name"`
	ClassID    string           `json:"class_id,omitempty"`
	ClassName  string           `json:"class_name,omitempty"`
	Counts     AttendanceCounts `json:"counts"`
	Percentage float64          `json:"percentage"`
	Risk       models.RiskLevel `json:"risk"`
}
