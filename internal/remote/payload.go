package remote

import "github.com/mathvieira649/frequenciaeconteudo/internal/models"

// Wire types mirror the spreadsheet web-app contract. Dates travel as
// DD-MM-YYYY (or ISO, tolerated inbound) and lesson indices are 1-based on
// the wire; the codec converts both directions.

// DataPayload is the full getData() response shape. The same shape is
// persisted locally as the offline snapshot.
type DataPayload struct {
	Classes    []WireClass            `json:"classes"`
	Students   []WireStudent          `json:"students"`
	Attendance []WireAttendanceRecord `json:"attendance"`
	Bimesters  []WireBimester         `json:"bimesters"`
	Config     []WireConfigRow        `json:"config"`
}

// WireClass is a class row.
type WireClass struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// WireStudent is a student row. Older sheets suffer a column shift where the
// class field carries the enrollment status and the registration field
// (values prefixed "c-") carries the class id; ingest heals that.
type WireStudent struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Class        string `json:"class"`
	Status       string `json:"status"`
	Registration string `json:"registration,omitempty"`
}

// WireAttendanceRecord is a single attendance cell row.
type WireAttendanceRecord struct {
	StudentID   string `json:"studentId"`
	Date        string `json:"date"`
	LessonIndex int    `json:"lessonIndex"`
	Status      string `json:"status"`
	Subject     string `json:"subject,omitempty"`
	Topic       string `json:"topic,omitempty"`
}

// WireBimester is a term row.
type WireBimester struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// WireConfigRow is a key/value configuration row; Value is a JSON-encoded
// string. Recognised keys: dailyLessonCounts, lessonSubjects, lessonTopics,
// registeredSubjects, holidays.
type WireConfigRow struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Recognised configuration row keys.
const (
	ConfigKeyLessonCounts       = "dailyLessonCounts"
	ConfigKeyLessonSubjects     = "lessonSubjects"
	ConfigKeyLessonTopics       = "lessonTopics"
	ConfigKeyRegisteredSubjects = "registeredSubjects"
	ConfigKeyHolidays           = "holidays"
)

// Dataset is the normalised, application-shaped form of a DataPayload.
type Dataset struct {
	Students           []models.Student
	Classes            []models.ClassGroup
	Attendance         map[string]map[string][]models.AttendanceStatus
	Bimesters          []models.Bimester
	Holidays           []models.Holiday
	RegisteredSubjects []string

	ActiveLessons map[string][]int
	Subjects      map[string]map[int]string
	Topics        map[string]map[int]string
}
