package store

import (
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

// StatusAt reads one attendance cell. Unset cells and slots past the end of
// the slice read as undefined.
func (s *AppState) StatusAt(studentID, date string, lessonIndex int) models.AttendanceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if lessonIndex < 0 {
		return models.AttendanceUndefined
	}
	days, ok := s.attendance[studentID]
	if !ok {
		return models.AttendanceUndefined
	}
	statuses := days[date]
	if lessonIndex >= len(statuses) {
		return models.AttendanceUndefined
	}
	return statuses[lessonIndex]
}

// DayStatuses returns a copy of the per-date slice for a student.
func (s *AppState) DayStatuses(studentID, date string) []models.AttendanceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days, ok := s.attendance[studentID]
	if !ok {
		return nil
	}
	return append([]models.AttendanceStatus(nil), days[date]...)
}

// SetStatus writes one attendance cell. The per-date slice is replaced, not
// mutated in place: it grows to cover lessonIndex with undefined padding in
// between, and never shrinks.
func (s *AppState) SetStatus(studentID, date string, lessonIndex int, status models.AttendanceStatus) {
	if lessonIndex < 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	days, ok := s.attendance[studentID]
	if !ok {
		days = make(map[string][]models.AttendanceStatus)
		s.attendance[studentID] = days
	}

	current := days[date]
	size := len(current)
	if lessonIndex+1 > size {
		size = lessonIndex + 1
	}
	next := make([]models.AttendanceStatus, size)
	copy(next, current)
	next[lessonIndex] = status
	days[date] = next
}

// AttendanceFor returns a deep copy of one student's attendance map.
func (s *AppState) AttendanceFor(studentID string) map[string][]models.AttendanceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	days, ok := s.attendance[studentID]
	if !ok {
		return nil
	}
	return copyDays(days)
}

// AttendanceAll returns a deep copy of the whole attendance store. The
// statistics aggregator works off this copy so it stays a pure function of
// its inputs.
func (s *AppState) AttendanceAll() map[string]map[string][]models.AttendanceStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]map[string][]models.AttendanceStatus, len(s.attendance))
	for studentID, days := range s.attendance {
		out[studentID] = copyDays(days)
	}
	return out
}

// RestoreAttendanceFor reinstates one student's attendance map wholesale,
// used by delete rollback. Slices keep their original length, padding
// included. A nil map removes the entry.
func (s *AppState) RestoreAttendanceFor(studentID string, days map[string][]models.AttendanceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if days == nil {
		delete(s.attendance, studentID)
		return
	}
	s.attendance[studentID] = copyDays(days)
}

// ReplaceAttendance swaps the whole attendance store, used by delete
// rollback and cache restore.
func (s *AppState) ReplaceAttendance(att map[string]map[string][]models.AttendanceStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if att == nil {
		att = make(map[string]map[string][]models.AttendanceStatus)
	}
	s.attendance = att
}

func copyDays(days map[string][]models.AttendanceStatus) map[string][]models.AttendanceStatus {
	out := make(map[string][]models.AttendanceStatus, len(days))
	for date, statuses := range days {
		out[date] = append([]models.AttendanceStatus(nil), statuses...)
	}
	return out
}
