package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
)

func newTestState() *store.AppState {
	state := store.NewAppState()
	state.UpsertClass(models.ClassGroup{ID: "c-1", Name: "6A"})
	state.UpsertStudent(models.Student{ID: "s-1", Name: "Ana", ClassID: "c-1", Enrollment: models.EnrollmentActive})
	state.UpsertStudent(models.Student{ID: "s-2", Name: "Bruno", ClassID: "c-1", Enrollment: models.EnrollmentActive})
	state.UpsertStudent(models.Student{ID: "s-3", Name: "Caio", ClassID: "c-1", Enrollment: models.EnrollmentDropout})
	state.SelectClass("c-1")
	return state
}

func TestToggleFollowsFixedCycle(t *testing.T) {
	state := newTestState()
	svc := NewTransitionService(state, nil, nil, nil, nil)

	want := []models.AttendanceStatus{
		models.AttendancePresent,
		models.AttendanceAbsent,
		models.AttendanceExcused,
		models.AttendanceUndefined,
	}
	for _, expected := range want {
		result, err := svc.Toggle(context.Background(), dto.ToggleRequest{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0})
		require.NoError(t, err)
		assert.True(t, result.Changed)
		assert.Equal(t, expected, result.Status)
	}

	// Four toggles bring the cell back where it started.
	assert.Equal(t, models.AttendanceUndefined, state.StatusAt("s-1", "2025-03-10", 0))
}

func TestToggleForcedStatusSkipsCycle(t *testing.T) {
	state := newTestState()
	svc := NewTransitionService(state, nil, nil, nil, nil)

	forced := "J"
	result, err := svc.Toggle(context.Background(), dto.ToggleRequest{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: &forced})
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Equal(t, models.AttendanceExcused, result.Status)
}

func TestToggleEqualStatusIsNoOp(t *testing.T) {
	state := newTestState()
	svc := NewTransitionService(state, nil, nil, nil, nil)

	forced := "P"
	_, err := svc.Toggle(context.Background(), dto.ToggleRequest{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: &forced})
	require.NoError(t, err)
	require.Equal(t, 1, state.Pending.Len())

	result, err := svc.Toggle(context.Background(), dto.ToggleRequest{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: &forced})
	require.NoError(t, err)
	assert.False(t, result.Changed)
	assert.Equal(t, 1, state.Pending.Len())
}

func TestToggleUnknownStudent(t *testing.T) {
	svc := NewTransitionService(newTestState(), nil, nil, nil, nil)

	_, err := svc.Toggle(context.Background(), dto.ToggleRequest{StudentID: "ghost", Date: "2025-03-10", LessonIndex: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestToggleRefusesHolidayLockedDate(t *testing.T) {
	state := newTestState()
	state.SetHolidays([]models.Holiday{{Date: "2025-04-21", Name: "Tiradentes"}})
	svc := NewTransitionService(state, nil, nil, nil, nil)

	_, err := svc.Toggle(context.Background(), dto.ToggleRequest{StudentID: "s-1", Date: "2025-04-21", LessonIndex: 0})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrDayLocked.Code, appErrors.FromError(err).Code)
}

func TestToggleCarriesResolvedSubjectAndTopic(t *testing.T) {
	state := newTestState()
	state.Lessons.SetDayConfig("c-1", "2025-03-10", models.DayConfig{
		ActiveLessons: []int{0, 1},
		Subjects:      map[int]string{1: "Historia"},
		Topics:        map[int]string{1: "Brasil Colonia"},
	})
	svc := NewTransitionService(state, nil, nil, nil, nil)

	_, err := svc.Toggle(context.Background(), dto.ToggleRequest{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 1})
	require.NoError(t, err)

	items := state.Pending.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "Historia", items[0].Subject)
	assert.Equal(t, "Brasil Colonia", items[0].Topic)
}

func TestBulkApplySkipsMarkedCellsAndInactiveStudents(t *testing.T) {
	state := newTestState()
	state.SetStatus("s-2", "2025-03-10", 0, models.AttendanceAbsent)
	svc := NewTransitionService(state, nil, nil, nil, nil)

	result, err := svc.BulkApply(context.Background(), dto.BulkApplyRequest{Date: "2025-03-10", LessonIndex: 0, Status: "P"})
	require.NoError(t, err)

	assert.Equal(t, 1, result.Applied)
	assert.Equal(t, 2, result.Skipped)
	assert.Equal(t, models.AttendancePresent, state.StatusAt("s-1", "2025-03-10", 0))
	assert.Equal(t, models.AttendanceAbsent, state.StatusAt("s-2", "2025-03-10", 0))
	assert.Equal(t, models.AttendanceUndefined, state.StatusAt("s-3", "2025-03-10", 0))
}

func TestBulkApplyWithoutSelectionFails(t *testing.T) {
	state := newTestState()
	state.SelectClass("")
	svc := NewTransitionService(state, nil, nil, nil, nil)

	_, err := svc.BulkApply(context.Background(), dto.BulkApplyRequest{Date: "2025-03-10", LessonIndex: 0, Status: "P"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
