package dto

import "github.com/mathvieira649/frequenciaeconteudo/internal/models"

// ToggleRequest edits one attendance cell. Status, when present, forces the
// new value instead of advancing the cycle.
type ToggleRequest struct {
	StudentID   string  `json:"student_id" validate:"required"`
	Date        string  `json:"date" validate:"required"`
	LessonIndex int     `json:"lesson_index" validate:"gte=0"`
	Status      *string `json:"status,omitempty" validate:"omitempty,attendance_status"`
}

// ToggleResult reports the cell state after a toggle.
type ToggleResult struct {
	StudentID   string                  `json:"student_id"`
	Date        string                  `json:"date"`
	LessonIndex int                     `json:"lesson_index"`
	Status      models.AttendanceStatus `json:"status"`
	Changed     bool                    `json:"changed"`
	Pending     int                     `json:"pending"`
}

// BulkApplyRequest marks every untouched cell of active students in the
// selected class (or an explicit class) for one lesson slot.
type BulkApplyRequest struct {
	ClassID     string `json:"class_id,omitempty"`
	Date        string `json:"date" validate:"required"`
	LessonIndex int    `json:"lesson_index" validate:"gte=0"`
	Status      string `json:"status" validate:"required,attendance_status"`
}

// BulkApplyResult summarises a bulk mark.
type BulkApplyResult struct {
	Applied int `json:"applied"`
	Skipped int `json:"skipped"`
	Pending int `json:"pending"`
}

// DayConfigRequest replaces the lesson configuration of one class day.
type DayConfigRequest struct {
	ClassID       string         `json:"class_id" validate:"required"`
	Date          string         `json:"date" validate:"required"`
	ActiveLessons []int          `json:"active_lessons"`
	Subjects      map[int]string `json:"subjects"`
	Topics        map[int]string `json:"topics"`
}

// DayConfigResponse is the resolved configuration for one class day.
type DayConfigResponse struct {
	ClassID       string             `json:"class_id"`
	Date          string             `json:"date"`
	ActiveLessons []int              `json:"active_lessons"`
	Subjects      map[int]string     `json:"subjects"`
	Topics        map[int]string     `json:"topics"`
	Locked        bool               `json:"locked"`
	Outcome       models.SaveOutcome `json:"outcome,omitempty"`
}
