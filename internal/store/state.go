package store

import (
	"sort"
	"sync"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

// AppState is the single owner of all mutable application state mirrored
// from the remote spreadsheet. It is constructed once at startup and passed
// to the services that need read or write access; nothing else holds state.
//
// Attendance is a sparse composite-keyed structure:
// studentID → ISO date → per-lesson status slice (0-based slot index).
type AppState struct {
	mu sync.RWMutex

	students   map[string]models.Student
	classes    map[string]models.ClassGroup
	attendance map[string]map[string][]models.AttendanceStatus

	bimesters          []models.Bimester
	holidays           map[string]string
	registeredSubjects []string

	selectedClassID string

	// Lessons and Pending manage their own locking; they are owned here so
	// lifecycle (load → mutate → persist) stays explicit on one struct.
	Lessons *LessonConfigRegistry
	Pending *PendingQueue
}

// NewAppState builds an empty state.
func NewAppState() *AppState {
	return &AppState{
		students:   make(map[string]models.Student),
		classes:    make(map[string]models.ClassGroup),
		attendance: make(map[string]map[string][]models.AttendanceStatus),
		holidays:   make(map[string]string),
		Lessons:    NewLessonConfigRegistry(),
		Pending:    NewPendingQueue(nil),
	}
}

// Replace swaps in a freshly loaded dataset. The pending queue is not
// touched: queued offline edits survive reloads until flushed.
func (s *AppState) Replace(students []models.Student, classes []models.ClassGroup, attendance map[string]map[string][]models.AttendanceStatus, bimesters []models.Bimester, holidays []models.Holiday, subjects []string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.students = make(map[string]models.Student, len(students))
	for _, st := range students {
		s.students[st.ID] = st
	}
	s.classes = make(map[string]models.ClassGroup, len(classes))
	for _, c := range classes {
		s.classes[c.ID] = c
	}
	if attendance == nil {
		attendance = make(map[string]map[string][]models.AttendanceStatus)
	}
	s.attendance = attendance
	s.bimesters = append([]models.Bimester(nil), bimesters...)
	s.holidays = make(map[string]string, len(holidays))
	for _, h := range holidays {
		s.holidays[h.Date] = h.Name
	}
	s.registeredSubjects = append([]string(nil), subjects...)
	if s.selectedClassID != "" {
		if _, ok := s.classes[s.selectedClassID]; !ok {
			s.selectedClassID = ""
		}
	}
}

// Students returns the roster sorted by name, then id.
func (s *AppState) Students() []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Student, 0, len(s.students))
	for _, st := range s.students {
		out = append(out, st)
	}
	sortStudents(out)
	return out
}

// StudentsByClass returns the sorted students of one class.
func (s *AppState) StudentsByClass(classID string) []models.Student {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Student, 0)
	for _, st := range s.students {
		if st.ClassID == classID {
			out = append(out, st)
		}
	}
	sortStudents(out)
	return out
}

// Student looks up a single roster entry.
func (s *AppState) Student(id string) (models.Student, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.students[id]
	return st, ok
}

// UpsertStudent inserts or replaces a roster entry.
func (s *AppState) UpsertStudent(st models.Student) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.students[st.ID] = st
}

// RemoveStudent drops a student and cascades to their attendance entries.
// Pending-queue entries referencing the student are intentionally left in
// place; the remote store ignores writes for unknown ids on flush.
func (s *AppState) RemoveStudent(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.students[id]; !ok {
		return false
	}
	delete(s.students, id)
	delete(s.attendance, id)
	return true
}

// Classes returns all classes sorted by name, then id.
func (s *AppState) Classes() []models.ClassGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.ClassGroup, 0, len(s.classes))
	for _, c := range s.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Class looks up a single class.
func (s *AppState) Class(id string) (models.ClassGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.classes[id]
	return c, ok
}

// UpsertClass inserts or replaces a class.
func (s *AppState) UpsertClass(c models.ClassGroup) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.classes[c.ID] = c
}

// RemoveClass drops the class, every student enrolled in it, and their
// attendance entries. It returns the removed student ids.
func (s *AppState) RemoveClass(id string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.classes[id]; !ok {
		return nil
	}
	delete(s.classes, id)
	removed := make([]string, 0)
	for studentID, st := range s.students {
		if st.ClassID == id {
			delete(s.students, studentID)
			delete(s.attendance, studentID)
			removed = append(removed, studentID)
		}
	}
	sort.Strings(removed)
	if s.selectedClassID == id {
		s.selectedClassID = ""
	}
	return removed
}

// Bimesters returns the configured term list in order.
func (s *AppState) Bimesters() []models.Bimester {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Bimester(nil), s.bimesters...)
}

// SetBimesters replaces the term list.
func (s *AppState) SetBimesters(bs []models.Bimester) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bimesters = append([]models.Bimester(nil), bs...)
}

// Holidays returns the holiday list sorted by date.
func (s *AppState) Holidays() []models.Holiday {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Holiday, 0, len(s.holidays))
	for date, name := range s.holidays {
		out = append(out, models.Holiday{Date: date, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// SetHolidays replaces the holiday set. Dates are unique; the last entry for
// a duplicated date wins.
func (s *AppState) SetHolidays(hs []models.Holiday) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.holidays = make(map[string]string, len(hs))
	for _, h := range hs {
		s.holidays[h.Date] = h.Name
	}
}

// IsHoliday reports whether the ISO date is locked.
func (s *AppState) IsHoliday(date string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.holidays[date]
	return ok
}

// RegisteredSubjects returns the free-form subject name list.
func (s *AppState) RegisteredSubjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.registeredSubjects...)
}

// SetRegisteredSubjects replaces the subject name list.
func (s *AppState) SetRegisteredSubjects(subjects []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.registeredSubjects = append([]string(nil), subjects...)
}

// SelectedClass returns the class the grid currently scopes to.
func (s *AppState) SelectedClass() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedClassID
}

// SelectClass sets the grid scope.
func (s *AppState) SelectClass(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedClassID = id
}

func sortStudents(out []models.Student) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
}
