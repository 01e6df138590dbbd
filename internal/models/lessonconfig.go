package models

import "fmt"

// LessonKey builds the composite per-class-per-day configuration key.
// Legacy data may still be stored under the bare date; lookups must try the
// composite form first (see store.LessonConfigRegistry).
func LessonKey(classID, date string) string {
	return fmt.Sprintf("%s_%s", classID, date)
}

// DayConfig describes one class day: which lesson slots exist and the
// subject/topic text per slot. ActiveLessons holds 0-based slot indices and
// need not be contiguous.
type DayConfig struct {
	ActiveLessons []int          `json:"active_lessons"`
	Subjects      map[int]string `json:"subjects"`
	Topics        map[int]string `json:"topics"`
}
