package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
)

func newStatsState() *store.AppState {
	state := store.NewAppState()
	state.UpsertClass(models.ClassGroup{ID: "c-1", Name: "6A"})
	state.UpsertStudent(models.Student{ID: "s-1", Name: "Ana", ClassID: "c-1", Enrollment: models.EnrollmentActive})
	state.SetBimesters([]models.Bimester{{ID: "b1", Name: "1o Bimestre", Start: "2025-02-01", End: "2025-04-15"}})
	return state
}

func markDays(state *store.AppState, studentID string, statuses ...models.AttendanceStatus) {
	dates := []string{"2025-03-03", "2025-03-04", "2025-03-05", "2025-03-06", "2025-03-07", "2025-03-10", "2025-03-11", "2025-03-12"}
	for i, status := range statuses {
		state.SetStatus(studentID, dates[i], 0, status)
	}
}

func TestBimesterReportPercentageCountsExcusedAsPresence(t *testing.T) {
	state := newStatsState()
	// 3 present, 1 absent, 1 excused → (3+1)/5 = 80%.
	markDays(state, "s-1",
		models.AttendancePresent, models.AttendancePresent, models.AttendancePresent,
		models.AttendanceAbsent, models.AttendanceExcused)
	svc := NewStatsService(state, nil, nil)

	report, err := svc.BimesterReport(context.Background(), "c-1", "b1")
	require.NoError(t, err)
	require.Len(t, report.Students, 1)

	row := report.Students[0]
	assert.Equal(t, 3, row.Counts.Present)
	assert.Equal(t, 1, row.Counts.Absent)
	assert.Equal(t, 1, row.Counts.Excused)
	assert.Equal(t, 5, row.Counts.Total)
	assert.Equal(t, 80.0, row.Percentage)
	assert.Equal(t, models.RiskRegular, row.Risk)
	assert.Equal(t, 80.0, report.ClassAverage)
}

func TestBimesterReportZeroTotalReadsZeroPercent(t *testing.T) {
	state := newStatsState()
	svc := NewStatsService(state, nil, nil)

	report, err := svc.BimesterReport(context.Background(), "c-1", "b1")
	require.NoError(t, err)
	require.Len(t, report.Students, 1)
	assert.Equal(t, 0.0, report.Students[0].Percentage)
	assert.Equal(t, models.RiskCritical, report.Students[0].Risk)
	assert.Equal(t, 0.0, report.ClassAverage)
}

func TestBimesterReportExcludesCellsOutsideRange(t *testing.T) {
	state := newStatsState()
	state.SetStatus("s-1", "2025-03-10", 0, models.AttendancePresent)
	state.SetStatus("s-1", "2025-05-10", 0, models.AttendanceAbsent)
	svc := NewStatsService(state, nil, nil)

	report, err := svc.BimesterReport(context.Background(), "c-1", "b1")
	require.NoError(t, err)
	assert.Equal(t, 1, report.Students[0].Counts.Total)
	assert.Equal(t, 100.0, report.Students[0].Percentage)
}

func TestBimesterReportUnknownTermOrClass(t *testing.T) {
	svc := NewStatsService(newStatsState(), nil, nil)

	_, err := svc.BimesterReport(context.Background(), "c-1", "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	_, err = svc.BimesterReport(context.Background(), "ghost", "b1")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestClassMonthUsesGridDenominatorConvention(t *testing.T) {
	state := newStatsState()
	state.UpsertStudent(models.Student{ID: "s-2", Name: "Bruno", ClassID: "c-1", Enrollment: models.EnrollmentActive})
	state.SetStatus("s-1", "2025-03-10", 0, models.AttendancePresent)
	state.SetStatus("s-1", "2025-03-11", 0, models.AttendanceAbsent)
	svc := NewStatsService(state, nil, nil)

	summary, err := svc.ClassMonth(context.Background(), "c-1", "2025-03")
	require.NoError(t, err)
	require.Len(t, summary.Rows, 2)

	ana := summary.Rows[0]
	assert.Equal(t, 2, ana.TotalLessons)
	assert.Equal(t, 50.0, ana.Percentage)
	assert.Equal(t, "50.0%", ana.PercentDisplay)

	// No lessons held: percentage divides by 1, display shows a dash.
	bruno := summary.Rows[1]
	assert.Equal(t, 0, bruno.TotalLessons)
	assert.Equal(t, 0.0, bruno.Percentage)
	assert.Equal(t, "-", bruno.PercentDisplay)
}

func TestClassMonthRejectsBadMonth(t *testing.T) {
	svc := NewStatsService(newStatsState(), nil, nil)

	_, err := svc.ClassMonth(context.Background(), "c-1", "03-2025")
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubjectReportCountsOnlyPresentInNumerator(t *testing.T) {
	state := newStatsState()
	state.Lessons.SetDayConfig("c-1", "2025-03-10", models.DayConfig{
		ActiveLessons: []int{0, 1},
		Subjects:      map[int]string{0: "Matematica", 1: "Matematica"},
	})
	state.SetStatus("s-1", "2025-03-10", 0, models.AttendancePresent)
	state.SetStatus("s-1", "2025-03-10", 1, models.AttendanceExcused)
	state.SetStatus("s-1", "2025-03-11", 0, models.AttendanceAbsent)
	svc := NewStatsService(state, nil, nil)

	stats, err := svc.SubjectReport(context.Background(), "c-1", "")
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Sorted by subject name: Matematica, unspecified.
	matematica := stats[0]
	assert.Equal(t, "Matematica", matematica.Subject)
	assert.Equal(t, 1, matematica.Present)
	assert.Equal(t, 2, matematica.Total)
	assert.Equal(t, 50.0, matematica.Percentage)

	unspecified := stats[1]
	assert.Equal(t, models.SubjectUnspecified, unspecified.Subject)
	assert.Equal(t, 0, unspecified.Present)
	assert.Equal(t, 1, unspecified.Total)
}

func TestSubjectReportRestrictsToBimester(t *testing.T) {
	state := newStatsState()
	state.Lessons.SetDayConfig("c-1", "2025-03-10", models.DayConfig{
		ActiveLessons: []int{0},
		Subjects:      map[int]string{0: "Matematica"},
	})
	state.Lessons.SetDayConfig("c-1", "2025-05-10", models.DayConfig{
		ActiveLessons: []int{0},
		Subjects:      map[int]string{0: "Matematica"},
	})
	state.SetStatus("s-1", "2025-03-10", 0, models.AttendancePresent)
	// After the term's end date: annual only.
	state.SetStatus("s-1", "2025-05-10", 0, models.AttendanceAbsent)
	svc := NewStatsService(state, nil, nil)

	stats, err := svc.SubjectReport(context.Background(), "c-1", "b1")
	require.NoError(t, err)
	require.Len(t, stats, 1)
	assert.Equal(t, "Matematica", stats[0].Subject)
	assert.Equal(t, 1, stats[0].Total)
	assert.Equal(t, 1, stats[0].Present)

	annual, err := svc.SubjectReport(context.Background(), "c-1", "")
	require.NoError(t, err)
	require.Len(t, annual, 1)
	assert.Equal(t, 2, annual[0].Total)

	_, err = svc.SubjectReport(context.Background(), "c-1", "ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAtRiskFiltersAndSortsAscending(t *testing.T) {
	state := newStatsState()
	state.UpsertStudent(models.Student{ID: "s-2", Name: "Bruno", ClassID: "c-1", Enrollment: models.EnrollmentActive})
	state.UpsertStudent(models.Student{ID: "s-3", Name: "Caio", ClassID: "c-1", Enrollment: models.EnrollmentDropout})
	state.UpsertStudent(models.Student{ID: "s-4", Name: "Duda", ClassID: "c-1", Enrollment: models.EnrollmentActive})

	// Ana 50%, Bruno 25%, Caio 0% but dropped out, Duda no data.
	markDays(state, "s-1", models.AttendancePresent, models.AttendanceAbsent)
	markDays(state, "s-2", models.AttendancePresent, models.AttendanceAbsent, models.AttendanceAbsent, models.AttendanceAbsent)
	markDays(state, "s-3", models.AttendanceAbsent)
	svc := NewStatsService(state, nil, nil)

	ranked, err := svc.AtRisk(context.Background())
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "s-2", ranked[0].StudentID)
	assert.Equal(t, 25.0, ranked[0].Percentage)
	assert.Equal(t, models.RiskCritical, ranked[0].Risk)
	assert.Equal(t, "s-1", ranked[1].StudentID)
	assert.Equal(t, "6A", ranked[1].ClassName)
}

func TestTopPerformersSortsDescendingAndCaps(t *testing.T) {
	state := newStatsState()
	state.UpsertStudent(models.Student{ID: "s-2", Name: "Bruno", ClassID: "c-1", Enrollment: models.EnrollmentActive})
	state.UpsertStudent(models.Student{ID: "s-3", Name: "Caio", ClassID: "c-1", Enrollment: models.EnrollmentActive})

	markDays(state, "s-1", models.AttendancePresent, models.AttendancePresent)
	markDays(state, "s-2", models.AttendancePresent, models.AttendanceAbsent)
	markDays(state, "s-3", models.AttendancePresent, models.AttendancePresent, models.AttendanceAbsent)
	svc := NewStatsService(state, nil, nil)

	ranked, err := svc.TopPerformers(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "s-1", ranked[0].StudentID)
	assert.Equal(t, 100.0, ranked[0].Percentage)
	assert.Equal(t, "s-3", ranked[1].StudentID)
	assert.Equal(t, 66.7, ranked[1].Percentage)
}

func TestClassifyRiskBandBounds(t *testing.T) {
	assert.Equal(t, models.RiskCritical, models.ClassifyRisk(74.9))
	assert.Equal(t, models.RiskRegular, models.ClassifyRisk(75))
	assert.Equal(t, models.RiskRegular, models.ClassifyRisk(89.9))
	assert.Equal(t, models.RiskExcellent, models.ClassifyRisk(90))
}
