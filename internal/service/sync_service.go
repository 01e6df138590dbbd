package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/remote"
	"github.com/mathvieira649/frequenciaeconteudo/internal/store"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
)

// RemoteAPI is the slice of the remote client the coordinator needs.
type RemoteAPI interface {
	Configured() bool
	GetData(ctx context.Context) (*remote.DataPayload, error)
	SaveStudent(ctx context.Context, student remote.WireStudent) error
	DeleteStudent(ctx context.Context, studentID string) error
	SaveClass(ctx context.Context, class remote.WireClass) error
	DeleteClass(ctx context.Context, classID string) error
	SaveAttendanceBatch(ctx context.Context, records []remote.WireAttendanceRecord) error
	SaveConfig(ctx context.Context, key, value string) error
}

// SnapshotRepository persists the last-known-good dataset.
type SnapshotRepository interface {
	SaveSnapshot(payload *remote.DataPayload) error
	LoadSnapshot() (*remote.DataPayload, error)
}

// SyncService coordinates the remote spreadsheet store, the offline
// snapshot and the in-memory state. Mutations apply locally first and
// report a SaveOutcome instead of failing the local edit: the dashboard
// keeps working offline and the pending queue carries attendance edits
// until a flush succeeds.
type SyncService struct {
	state     *store.AppState
	remote    RemoteAPI
	local     SnapshotRepository
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger

	online atomic.Bool
	saving atomic.Bool

	mu           sync.Mutex
	lastLoadAt   time.Time
	lastLoadFrom string
}

// NewSyncService constructs the coordinator. The application starts in the
// online state; the first failed remote call flips it off.
func NewSyncService(state *store.AppState, remoteAPI RemoteAPI, local SnapshotRepository, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *SyncService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &SyncService{
		state:     state,
		remote:    remoteAPI,
		local:     local,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
	RegisterStatusValidations(svc.validator)
	svc.online.Store(true)
	return svc
}

// Online reports the connectivity flag.
func (s *SyncService) Online() bool {
	return s.online.Load()
}

// SetOnline flips connectivity manually, mirroring the browser on/offline
// toggle. Going online does not flush automatically; callers decide.
func (s *SyncService) SetOnline(online bool) {
	s.online.Store(online)
}

// Load pulls the full dataset from the remote store and replaces the
// in-memory state. When the remote is unreachable it falls back to the
// offline snapshot: silently if the failure was a connectivity problem,
// with a warning in the result otherwise. A corrupt snapshot is surfaced
// rather than silently ignored.
func (s *SyncService) Load(ctx context.Context) (*dto.LoadResult, error) {
	if s.remote.Configured() && s.Online() {
		start := time.Now()
		payload, err := s.remote.GetData(ctx)
		s.metrics.ObserveRemoteCall("getData", time.Since(start))
		if err == nil {
			s.applyDataset(remote.Normalize(payload))
			if saveErr := s.local.SaveSnapshot(payload); saveErr != nil {
				s.logger.Warn("snapshot save failed", zap.Error(saveErr))
			}
			s.online.Store(true)
			return s.loadResult(dto.LoadSourceRemote, ""), nil
		}

		if remote.IsNetworkError(err) {
			s.online.Store(false)
			s.logger.Info("remote unreachable, using offline snapshot", zap.Error(err))
			return s.loadFromCache("")
		}
		s.logger.Warn("remote load failed, using offline snapshot", zap.Error(err))
		return s.loadFromCache(err.Error())
	}
	return s.loadFromCache("")
}

func (s *SyncService) loadFromCache(warning string) (*dto.LoadResult, error) {
	payload, err := s.local.LoadSnapshot()
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			if !s.remote.Configured() {
				return nil, appErrors.Clone(appErrors.ErrNotConfigured, "no remote store configured and no offline snapshot")
			}
			return nil, appErrors.Clone(appErrors.ErrNotFound, "no dataset available: remote unreachable and no offline snapshot")
		}
		return nil, err
	}
	s.applyDataset(remote.Normalize(payload))
	return s.loadResult(dto.LoadSourceCache, warning), nil
}

func (s *SyncService) applyDataset(ds *remote.Dataset) {
	s.state.Replace(ds.Students, ds.Classes, ds.Attendance, ds.Bimesters, ds.Holidays, ds.RegisteredSubjects)
	s.state.Lessons.Replace(ds.ActiveLessons, ds.Subjects, ds.Topics)
	if s.state.SelectedClass() == "" {
		if classes := s.state.Classes(); len(classes) > 0 {
			s.state.SelectClass(classes[0].ID)
		}
	}
	s.metrics.SetPendingDepth(s.state.Pending.Len())
	_ = s.cache.Invalidate(context.Background(), "reports:*")
}

func (s *SyncService) loadResult(source, warning string) *dto.LoadResult {
	s.mu.Lock()
	s.lastLoadAt = time.Now()
	s.lastLoadFrom = source
	s.mu.Unlock()
	return &dto.LoadResult{
		Source:        source,
		Warning:       warning,
		Students:      len(s.state.Students()),
		Classes:       len(s.state.Classes()),
		SelectedClass: s.state.SelectedClass(),
	}
}

// SaveStudent upserts a roster entry locally and pushes it to the remote
// store. The local change survives a failed push.
func (s *SyncService) SaveStudent(ctx context.Context, req dto.SaveStudentRequest) (*dto.SaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	if req.ClassID != "" {
		if _, ok := s.state.Class(req.ClassID); !ok {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
	}

	student := models.Student{
		ID:         req.ID,
		Name:       req.Name,
		ClassID:    req.ClassID,
		Enrollment: models.ParseEnrollmentStatus(req.Enrollment),
	}
	if student.ID == "" {
		student.ID = "s-" + uuid.NewString()
	}
	s.state.UpsertStudent(student)
	s.persistSnapshot()
	_ = s.cache.Invalidate(ctx, "reports:*")

	outcome, reason := s.pushWrite(ctx, "saveStudent", func() error {
		return s.remote.SaveStudent(ctx, remote.StudentToWire(student))
	})
	return &dto.SaveResult{Outcome: outcome, ID: student.ID, Reason: reason}, nil
}

// DeleteStudent removes a roster entry and its attendance. The local delete
// is rolled back when the remote rejects or cannot be reached: a
// half-deleted student is worse than a kept one.
func (s *SyncService) DeleteStudent(ctx context.Context, studentID string) (*dto.SaveResult, error) {
	student, ok := s.state.Student(studentID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
	}
	attendance := s.state.AttendanceFor(studentID)
	s.state.RemoveStudent(studentID)

	outcome, reason := s.pushWrite(ctx, "deleteStudent", func() error {
		return s.remote.DeleteStudent(ctx, studentID)
	})
	if outcome != models.OutcomeOK {
		s.state.UpsertStudent(student)
		s.state.RestoreAttendanceFor(studentID, attendance)
		return &dto.SaveResult{Outcome: models.OutcomeFailed, ID: studentID, Reason: rollbackReason(reason)}, nil
	}

	s.persistSnapshot()
	_ = s.cache.Invalidate(ctx, "reports:*")
	return &dto.SaveResult{Outcome: models.OutcomeOK, ID: studentID}, nil
}

// SaveClass upserts a class locally and pushes it to the remote store.
func (s *SyncService) SaveClass(ctx context.Context, req dto.SaveClassRequest) (*dto.SaveResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid class payload")
	}

	class := models.ClassGroup{ID: req.ID, Name: req.Name}
	if class.ID == "" {
		class.ID = "c-" + uuid.NewString()
	}
	s.state.UpsertClass(class)
	s.persistSnapshot()
	_ = s.cache.Invalidate(ctx, "reports:*")

	outcome, reason := s.pushWrite(ctx, "saveClass", func() error {
		return s.remote.SaveClass(ctx, remote.WireClass{ID: class.ID, Name: class.Name})
	})
	return &dto.SaveResult{Outcome: outcome, ID: class.ID, Reason: reason}, nil
}

// DeleteClass removes a class, its students and their attendance. Like
// DeleteStudent it rolls everything back when the remote write fails.
// Pending-queue entries for removed students are kept; the remote ignores
// unknown ids on flush.
func (s *SyncService) DeleteClass(ctx context.Context, classID string) (*dto.SaveResult, error) {
	class, ok := s.state.Class(classID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	students := s.state.StudentsByClass(classID)
	attendance := s.state.AttendanceAll()
	selected := s.state.SelectedClass()
	s.state.RemoveClass(classID)

	outcome, reason := s.pushWrite(ctx, "deleteClass", func() error {
		return s.remote.DeleteClass(ctx, classID)
	})
	if outcome != models.OutcomeOK {
		s.state.UpsertClass(class)
		for _, student := range students {
			s.state.UpsertStudent(student)
		}
		s.state.ReplaceAttendance(attendance)
		s.state.SelectClass(selected)
		return &dto.SaveResult{Outcome: models.OutcomeFailed, ID: classID, Reason: rollbackReason(reason)}, nil
	}

	s.persistSnapshot()
	_ = s.cache.Invalidate(ctx, "reports:*")
	return &dto.SaveResult{Outcome: models.OutcomeOK, ID: classID}, nil
}

// SelectClass changes the grid scope. Selection is in-memory only.
func (s *SyncService) SelectClass(classID string) error {
	if _, ok := s.state.Class(classID); !ok {
		return appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	s.state.SelectClass(classID)
	return nil
}

// SetDayConfig replaces the lesson configuration of one class day and
// pushes the updated configuration rows. Holiday-locked days refuse edits.
func (s *SyncService) SetDayConfig(ctx context.Context, req dto.DayConfigRequest) (*dto.DayConfigResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid day config payload")
	}
	date, err := normalizeISODate(req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if _, ok := s.state.Class(req.ClassID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	if s.state.IsHoliday(date) {
		return nil, appErrors.ErrDayLocked
	}

	s.state.Lessons.SetDayConfig(req.ClassID, date, models.DayConfig{
		ActiveLessons: req.ActiveLessons,
		Subjects:      req.Subjects,
		Topics:        req.Topics,
	})
	s.persistSnapshot()
	_ = s.cache.Invalidate(ctx, "reports:*")

	outcome, _ := s.pushConfigRows(ctx)
	resolved := s.state.Lessons.DayConfig(req.ClassID, date)
	return &dto.DayConfigResponse{
		ClassID:       req.ClassID,
		Date:          date,
		ActiveLessons: resolved.ActiveLessons,
		Subjects:      resolved.Subjects,
		Topics:        resolved.Topics,
		Outcome:       outcome,
	}, nil
}

// DayConfig resolves the configuration of one class day.
func (s *SyncService) DayConfig(classID, rawDate string) (*dto.DayConfigResponse, error) {
	date, err := normalizeISODate(rawDate)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD")
	}
	if _, ok := s.state.Class(classID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
	}
	resolved := s.state.Lessons.DayConfig(classID, date)
	return &dto.DayConfigResponse{
		ClassID:       classID,
		Date:          date,
		ActiveLessons: resolved.ActiveLessons,
		Subjects:      resolved.Subjects,
		Topics:        resolved.Topics,
		Locked:        s.state.IsHoliday(date),
	}, nil
}

// SaveRegisteredSubjects replaces the managed subject list.
func (s *SyncService) SaveRegisteredSubjects(ctx context.Context, subjects []string) (*dto.SaveResult, error) {
	s.state.SetRegisteredSubjects(subjects)
	s.persistSnapshot()

	value, err := json.Marshal(subjects)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode subjects")
	}
	outcome, reason := s.pushWrite(ctx, "saveConfig", func() error {
		return s.remote.SaveConfig(ctx, remote.ConfigKeyRegisteredSubjects, string(value))
	})
	return &dto.SaveResult{Outcome: outcome, Reason: reason}, nil
}

// SaveHolidays replaces the holiday set.
func (s *SyncService) SaveHolidays(ctx context.Context, holidays []models.Holiday) (*dto.SaveResult, error) {
	for _, h := range holidays {
		if _, err := time.Parse("2006-01-02", h.Date); err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "holiday dates must be YYYY-MM-DD")
		}
	}
	s.state.SetHolidays(holidays)
	s.persistSnapshot()

	value, err := json.Marshal(s.state.Holidays())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "encode holidays")
	}
	outcome, reason := s.pushWrite(ctx, "saveConfig", func() error {
		return s.remote.SaveConfig(ctx, remote.ConfigKeyHolidays, string(value))
	})
	return &dto.SaveResult{Outcome: outcome, Reason: reason}, nil
}

// FlushAttendance pushes the whole pending queue in one batch. Only one
// flush runs at a time; the queue is cleared only after the remote confirms
// the batch, so a failed flush loses nothing.
func (s *SyncService) FlushAttendance(ctx context.Context) (*dto.FlushResult, error) {
	if !s.saving.CompareAndSwap(false, true) {
		return nil, appErrors.ErrFlushInFlight
	}
	defer s.saving.Store(false)

	items := s.state.Pending.Items()
	if len(items) == 0 {
		return &dto.FlushResult{Outcome: models.OutcomeOK, Sent: 0}, nil
	}
	if !s.remote.Configured() {
		return nil, appErrors.ErrNotConfigured
	}
	if !s.Online() {
		s.metrics.RecordFlush(string(models.OutcomeQueuedOffline))
		return &dto.FlushResult{Outcome: models.OutcomeQueuedOffline, Reason: "offline"}, nil
	}

	records := make([]remote.WireAttendanceRecord, 0, len(items))
	for _, change := range items {
		records = append(records, remote.PendingToWire(change))
	}

	start := time.Now()
	err := s.remote.SaveAttendanceBatch(ctx, records)
	s.metrics.ObserveRemoteCall("saveAttendanceBatch", time.Since(start))
	if err != nil {
		if remote.IsNetworkError(err) {
			s.online.Store(false)
			s.metrics.RecordFlush(string(models.OutcomeQueuedOffline))
			return &dto.FlushResult{Outcome: models.OutcomeQueuedOffline, Reason: "remote unreachable"}, nil
		}
		s.metrics.RecordFlush(string(models.OutcomeFailed))
		s.logger.Warn("flush rejected", zap.Int("records", len(records)), zap.Error(err))
		return &dto.FlushResult{Outcome: models.OutcomeFailed, Reason: err.Error()}, nil
	}

	if err := s.state.Pending.Clear(); err != nil {
		s.logger.Warn("failed to persist cleared queue", zap.Error(err))
	}
	s.metrics.SetPendingDepth(0)
	s.metrics.RecordFlush(string(models.OutcomeOK))
	s.persistSnapshot()
	return &dto.FlushResult{Outcome: models.OutcomeOK, Sent: len(records)}, nil
}

// Status reports coordinator introspection for the dashboard header.
func (s *SyncService) Status() dto.SyncStatus {
	s.mu.Lock()
	lastLoadAt := s.lastLoadAt
	lastLoadFrom := s.lastLoadFrom
	s.mu.Unlock()

	status := dto.SyncStatus{
		Configured:    s.remote.Configured(),
		Online:        s.Online(),
		PendingCount:  s.state.Pending.Len(),
		Flushing:      s.saving.Load(),
		LastLoadFrom:  lastLoadFrom,
		SelectedClass: s.state.SelectedClass(),
	}
	if !lastLoadAt.IsZero() {
		status.LastLoadAt = &lastLoadAt
	}
	return status
}

// pushWrite runs one remote write and maps the error onto a SaveOutcome.
// Connectivity failures flip the online flag off.
func (s *SyncService) pushWrite(ctx context.Context, action string, call func() error) (models.SaveOutcome, string) {
	if !s.remote.Configured() {
		return models.OutcomeQueuedOffline, "remote store not configured"
	}
	if !s.Online() {
		return models.OutcomeQueuedOffline, "offline"
	}

	start := time.Now()
	err := call()
	s.metrics.ObserveRemoteCall(action, time.Since(start))
	if err == nil {
		return models.OutcomeOK, ""
	}
	if remote.IsNetworkError(err) {
		s.online.Store(false)
		return models.OutcomeQueuedOffline, "remote unreachable"
	}
	s.logger.Warn("remote write rejected", zap.String("action", action), zap.Error(err))
	return models.OutcomeFailed, err.Error()
}

// pushConfigRows rewrites the three lesson configuration rows from the
// registry's current contents.
func (s *SyncService) pushConfigRows(ctx context.Context) (models.SaveOutcome, string) {
	active, subjects, topics := s.state.Lessons.Export()
	ds := &remote.Dataset{ActiveLessons: active, Subjects: subjects, Topics: topics}
	rows := remote.BuildConfigRows(ds)

	for _, row := range rows {
		switch row.Key {
		case remote.ConfigKeyLessonCounts, remote.ConfigKeyLessonSubjects, remote.ConfigKeyLessonTopics:
		default:
			continue
		}
		key, value := row.Key, row.Value
		outcome, reason := s.pushWrite(ctx, "saveConfig", func() error {
			return s.remote.SaveConfig(ctx, key, value)
		})
		if outcome != models.OutcomeOK {
			return outcome, reason
		}
	}
	return models.OutcomeOK, ""
}

// persistSnapshot rewrites the offline snapshot from current state. Failures
// are logged, not surfaced: losing one snapshot write is recoverable.
func (s *SyncService) persistSnapshot() {
	active, subjects, topics := s.state.Lessons.Export()
	ds := &remote.Dataset{
		Students:           s.state.Students(),
		Classes:            s.state.Classes(),
		Attendance:         s.state.AttendanceAll(),
		Bimesters:          s.state.Bimesters(),
		Holidays:           s.state.Holidays(),
		RegisteredSubjects: s.state.RegisteredSubjects(),
		ActiveLessons:      active,
		Subjects:           subjects,
		Topics:             topics,
	}
	if err := s.local.SaveSnapshot(remote.BuildPayload(ds)); err != nil {
		s.logger.Warn("snapshot save failed", zap.Error(err))
	}
}

func rollbackReason(reason string) string {
	if reason == "" {
		return "remote delete failed, local state restored"
	}
	return reason + " (local state restored)"
}
