package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

func TestNormalizeDateAcceptedFormats(t *testing.T) {
	cases := map[string]string{
		"10-03-2025": "2025-03-10",
		"10/03/2025": "2025-03-10",
		"2025-03-10": "2025-03-10",
		"2025/03/10": "2025-03-10",
		"5-3-2025":   "2025-03-05",
	}
	for input, want := range cases {
		got, err := NormalizeDate(input)
		require.NoError(t, err, input)
		assert.Equal(t, want, got, input)
	}

	for _, input := range []string{"", "10-03", "not-a-date-x", "10-03-25"} {
		_, err := NormalizeDate(input)
		assert.Error(t, err, input)
	}
}

func TestFormatDateBRInvertsNormalize(t *testing.T) {
	assert.Equal(t, "10-03-2025", FormatDateBR("2025-03-10"))

	iso, err := NormalizeDate(FormatDateBR("2025-03-10"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-10", iso)
}

func TestNormalizeConvertsLessonIndexToZeroBased(t *testing.T) {
	ds := Normalize(&DataPayload{
		Attendance: []WireAttendanceRecord{
			{StudentID: "s-1", Date: "10-03-2025", LessonIndex: 1, Status: "P"},
			{StudentID: "s-1", Date: "10-03-2025", LessonIndex: 3, Status: "f"},
		},
	})

	statuses := ds.Attendance["s-1"]["2025-03-10"]
	require.Len(t, statuses, 3)
	assert.Equal(t, models.AttendancePresent, statuses[0])
	assert.Equal(t, models.AttendanceUndefined, statuses[1])
	assert.Equal(t, models.AttendanceAbsent, statuses[2])
}

func TestNormalizeSkipsInvalidRecords(t *testing.T) {
	ds := Normalize(&DataPayload{
		Attendance: []WireAttendanceRecord{
			{StudentID: "", Date: "10-03-2025", LessonIndex: 1, Status: "P"},
			{StudentID: "s-1", Date: "garbage", LessonIndex: 1, Status: "P"},
			{StudentID: "s-1", Date: "10-03-2025", LessonIndex: 0, Status: "P"},
			{StudentID: "s-1", Date: "10-03-2025", LessonIndex: 1, Status: "X"},
			{StudentID: "s-1", Date: "10-03-2025", LessonIndex: 1, Status: ""},
		},
	})

	assert.Empty(t, ds.Attendance)
}

func TestHealStudentRecoversColumnShiftedRow(t *testing.T) {
	student, ok := healStudent(WireStudent{
		ID:           "s-1",
		Name:         "Ana",
		Class:        "Cursando",
		Registration: "c-6a",
	})

	require.True(t, ok)
	assert.Equal(t, "c-6a", student.ClassID)
	assert.Equal(t, models.EnrollmentActive, student.Enrollment)
}

func TestHealStudentShiftWithoutRegistrationClearsClass(t *testing.T) {
	student, ok := healStudent(WireStudent{
		ID:     "s-1",
		Name:   "Ana",
		Class:  "Desistente",
		Status: "",
	})

	require.True(t, ok)
	assert.Equal(t, "", student.ClassID)
	assert.Equal(t, models.EnrollmentDropout, student.Enrollment)
}

func TestHealStudentLeavesNormalRowAlone(t *testing.T) {
	student, ok := healStudent(WireStudent{
		ID:     "s-1",
		Name:   "Ana",
		Class:  "c-6a",
		Status: "transferido",
	})

	require.True(t, ok)
	assert.Equal(t, "c-6a", student.ClassID)
	assert.Equal(t, models.EnrollmentTransferred, student.Enrollment)
}

func TestNormalizeExpandsLegacyNumericLessonCounts(t *testing.T) {
	ds := Normalize(&DataPayload{
		Config: []WireConfigRow{
			{Key: ConfigKeyLessonCounts, Value: `{"10-03-2025": 3, "c-1_11-03-2025": [0, 2]}`},
		},
	})

	assert.Equal(t, []int{0, 1, 2}, ds.ActiveLessons["2025-03-10"])
	assert.Equal(t, []int{0, 2}, ds.ActiveLessons["c-1_2025-03-11"])
}

func TestNormalizeParsesSubjectAndHolidayRows(t *testing.T) {
	ds := Normalize(&DataPayload{
		Config: []WireConfigRow{
			{Key: ConfigKeyLessonSubjects, Value: `{"c-1_10-03-2025": {"0": "Matematica"}}`},
			{Key: ConfigKeyRegisteredSubjects, Value: `["Matematica", "Historia"]`},
			{Key: ConfigKeyHolidays, Value: `[{"date": "21-04-2025", "name": "Tiradentes"}]`},
		},
	})

	assert.Equal(t, "Matematica", ds.Subjects["c-1_2025-03-10"][0])
	assert.Equal(t, []string{"Matematica", "Historia"}, ds.RegisteredSubjects)
	require.Len(t, ds.Holidays, 1)
	assert.Equal(t, "2025-04-21", ds.Holidays[0].Date)
}

func TestBuildPayloadEmitsMarkedCellsOnly(t *testing.T) {
	ds := &Dataset{
		Attendance: map[string]map[string][]models.AttendanceStatus{
			"s-1": {"2025-03-10": {models.AttendancePresent, models.AttendanceUndefined, models.AttendanceExcused}},
		},
	}

	payload := BuildPayload(ds)

	require.Len(t, payload.Attendance, 2)
	assert.Equal(t, "10-03-2025", payload.Attendance[0].Date)
	assert.Equal(t, 1, payload.Attendance[0].LessonIndex)
	assert.Equal(t, "P", payload.Attendance[0].Status)
	assert.Equal(t, 3, payload.Attendance[1].LessonIndex)
	assert.Equal(t, "J", payload.Attendance[1].Status)
}

func TestBuildPayloadRoundTripsThroughNormalize(t *testing.T) {
	ds := &Dataset{
		Students: []models.Student{{ID: "s-1", Name: "Ana", ClassID: "c-1", Enrollment: models.EnrollmentActive}},
		Classes:  []models.ClassGroup{{ID: "c-1", Name: "6A"}},
		Attendance: map[string]map[string][]models.AttendanceStatus{
			"s-1": {"2025-03-10": {models.AttendanceAbsent}},
		},
		Bimesters:          []models.Bimester{{ID: "b1", Name: "1o Bimestre", Start: "2025-02-01", End: "2025-04-15"}},
		Holidays:           []models.Holiday{{Date: "2025-04-21", Name: "Tiradentes"}},
		RegisteredSubjects: []string{"Matematica"},
		ActiveLessons:      map[string][]int{"c-1_2025-03-10": {0}},
		Subjects:           map[string]map[int]string{"c-1_2025-03-10": {0: "Matematica"}},
		Topics:             map[string]map[int]string{},
	}

	got := Normalize(BuildPayload(ds))

	assert.Equal(t, ds.Students, got.Students)
	assert.Equal(t, ds.Classes, got.Classes)
	assert.Equal(t, ds.Attendance, got.Attendance)
	assert.Equal(t, ds.Bimesters, got.Bimesters)
	assert.Equal(t, ds.Holidays, got.Holidays)
	assert.Equal(t, ds.RegisteredSubjects, got.RegisteredSubjects)
	assert.Equal(t, ds.ActiveLessons, got.ActiveLessons)
	assert.Equal(t, "Matematica", got.Subjects["c-1_2025-03-10"][0])
}

func TestPendingToWireConvertsSlotAndDate(t *testing.T) {
	record := PendingToWire(models.PendingChange{
		StudentID:   "s-1",
		Date:        "2025-03-10",
		LessonIndex: 0,
		Status:      models.AttendanceExcused,
		Subject:     "Historia",
	})

	assert.Equal(t, "10-03-2025", record.Date)
	assert.Equal(t, 1, record.LessonIndex)
	assert.Equal(t, "J", record.Status)
	assert.Equal(t, "Historia", record.Subject)
}
