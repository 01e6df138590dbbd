package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
)

// TransitionService computes the next status for attendance cells and keeps
// the pending queue in step with every accepted edit.
type TransitionService struct {
	state     *store.AppState
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTransitionService constructs the engine.
func NewTransitionService(state *store.AppState, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *TransitionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &TransitionService{state: state, cache: cache, metrics: metrics, validator: validate, logger: logger}
	RegisterStatusValidations(svc.validator)
	return svc
}

// RegisterStatusValidations installs the custom validator tags shared by
// attendance payloads.
func RegisterStatusValidations(validate *validator.Validate) {
	_ = validate.RegisterValidation("attendance_status", func(fl validator.FieldLevel) bool {
		return models.AttendanceStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
	_ = validate.RegisterValidation("enrollment_status", func(fl validator.FieldLevel) bool {
		return models.EnrollmentStatus(strings.ToUpper(fl.Field().String())).Valid()
	})
}

// Toggle applies one cell edit. Without a forced status the cell advances
// along the fixed cycle; with one it jumps straight there. Equal new and
// current status is a no-op: no mutation, no queue entry.
func (s *TransitionService) Toggle(ctx context.Context, req dto.ToggleRequest) (*dto.ToggleResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid toggle payload")
	}
	date, err := normalizeISODate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}

	student, ok := s.state.Student(req.StudentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	if s.state.IsHoliday(date) {
		return nil, appErrors.ErrDayLocked
	}

	current := s.state.StatusAt(req.StudentID, date, req.LessonIndex)
	next := current.Next()
	if req.Status != nil {
		next = models.AttendanceStatus(strings.ToUpper(*req.Status))
	}

	result := &dto.ToggleResult{
		StudentID:   req.StudentID,
		Date:        date,
		LessonIndex: req.LessonIndex,
		Status:      current,
		Pending:     s.state.Pending.Len(),
	}
	if next == current {
		return result, nil
	}

	s.state.SetStatus(req.StudentID, date, req.LessonIndex, next)

	change := models.PendingChange{
		StudentID:   req.StudentID,
		Date:        date,
		LessonIndex: req.LessonIndex,
		Status:      next,
		Subject:     s.state.Lessons.Subject(student.ClassID, date, req.LessonIndex),
		Topic:       s.state.Lessons.Topic(student.ClassID, date, req.LessonIndex),
	}
	if err := s.state.Pending.Enqueue(change); err != nil {
		s.logger.Warn("failed to persist pending queue", zap.Error(err))
	}

	s.metrics.SetPendingDepth(s.state.Pending.Len())
	if s.cache != nil {
		_ = s.cache.Invalidate(ctx, "reports:*")
	}

	result.Status = next
	result.Changed = true
	result.Pending = s.state.Pending.Len()
	return result, nil
}

// BulkApply marks one lesson slot for every active-enrollment student of
// the class whose cell is still untouched. Cells that already carry a
// status are never overwritten; non-active students are skipped outright.
func (s *TransitionService) BulkApply(ctx context.Context, req dto.BulkApplyRequest) (*dto.BulkApplyResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid bulk payload")
	}
	date, err := normalizeISODate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	classID := req.ClassID
	if classID == "" {
		classID = s.state.SelectedClass()
	}
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "no class selected")
	}
	if s.state.IsHoliday(date) {
		return nil, appErrors.ErrDayLocked
	}

	forced := strings.ToUpper(req.Status)
	result := &dto.BulkApplyResult{}
	for _, student := range s.state.StudentsByClass(classID) {
		if student.Enrollment != models.EnrollmentActive {
			result.Skipped++
			continue
		}
		if s.state.StatusAt(student.ID, date, req.LessonIndex).Marked() {
			result.Skipped++
			continue
		}
		toggled, err := s.Toggle(ctx, dto.ToggleRequest{
			StudentID:   student.ID,
			Date:        date,
			LessonIndex: req.LessonIndex,
			Status:      &forced,
		})
		if err != nil {
			return nil, err
		}
		if toggled.Changed {
			result.Applied++
		} else {
			result.Skipped++
		}
	}
	result.Pending = s.state.Pending.Len()
	return result, nil
}

// normalizeISODate validates and canonicalises an internal API date.
func normalizeISODate(raw string) (string, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return t.Format("2006-01-02"), nil
}
