package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/export"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/jobs"
)

// ExportService renders attendance reports to CSV or PDF off the request
// path. Requests enqueue a job; clients poll the job id until it is READY
// and then fetch the file.
type ExportService struct {
	stats     *StatsService
	queue     *jobs.Queue
	csv       *export.CSVExporter
	pdf       *export.PDFExporter
	validator *validator.Validate
	logger    *zap.Logger
	dir       string

	mu       sync.RWMutex
	statuses map[string]dto.ExportJob
}

// NewExportService constructs the exporter and its worker queue. Call Start
// before enqueueing.
func NewExportService(stats *StatsService, dir string, workers, retries int, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &ExportService{
		stats:     stats,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		validator: validate,
		logger:    logger,
		dir:       dir,
		statuses:  make(map[string]dto.ExportJob),
	}
	svc.queue = jobs.NewQueue("report-export", svc.handle, jobs.QueueConfig{
		Workers:    workers,
		MaxRetries: retries,
		Logger:     logger,
	})
	return svc
}

// Start spins up the worker pool.
func (s *ExportService) Start(ctx context.Context) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create export dir: %w", err)
	}
	s.queue.Start(ctx)
	return nil
}

// Stop drains the worker pool.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue validates the request and schedules rendering.
func (s *ExportService) Enqueue(req dto.ExportRequest) (*dto.ExportJob, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload")
	}
	switch req.Type {
	case "bimester":
		if req.BimesterID == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "bimester exports need bimester_id")
		}
	case "class-month":
		if req.Month == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "class-month exports need month")
		}
	}

	job := dto.ExportJob{
		ID:        uuid.NewString(),
		Type:      req.Type,
		Format:    req.Format,
		Status:    dto.ExportStatusPending,
		CreatedAt: time.Now().UTC(),
	}
	s.mu.Lock()
	s.statuses[job.ID] = job
	s.mu.Unlock()

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: req.Type, Payload: req}); err != nil {
		s.setFailed(job.ID, err.Error())
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "enqueue export")
	}
	return &job, nil
}

// Job returns the tracked status of one export.
func (s *ExportService) Job(id string) (*dto.ExportJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.statuses[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &job, nil
}

// FilePath returns the rendered file location for a READY job.
func (s *ExportService) FilePath(id string) (string, error) {
	job, err := s.Job(id)
	if err != nil {
		return "", err
	}
	if job.Status != dto.ExportStatusReady {
		return "", appErrors.Clone(appErrors.ErrConflict, "export not ready")
	}
	return filepath.Join(s.dir, job.FileName), nil
}

func (s *ExportService) handle(ctx context.Context, job jobs.Job) error {
	req, ok := job.Payload.(dto.ExportRequest)
	if !ok {
		s.setFailed(job.ID, "malformed export payload")
		return nil
	}

	dataset, title, err := s.buildDataset(ctx, req)
	if err != nil {
		s.setFailed(job.ID, err.Error())
		return nil
	}

	var rendered []byte
	switch req.Format {
	case "pdf":
		rendered, err = s.pdf.Render(dataset, title)
	default:
		rendered, err = s.csv.Render(dataset)
	}
	if err != nil {
		s.setFailed(job.ID, err.Error())
		return nil
	}

	fileName := fmt.Sprintf("%s.%s", job.ID, req.Format)
	if err := os.WriteFile(filepath.Join(s.dir, fileName), rendered, 0o644); err != nil {
		s.logger.Warn("export write failed", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}

	s.mu.Lock()
	tracked := s.statuses[job.ID]
	tracked.Status = dto.ExportStatusReady
	tracked.FileName = fileName
	s.statuses[job.ID] = tracked
	s.mu.Unlock()
	return nil
}

func (s *ExportService) buildDataset(ctx context.Context, req dto.ExportRequest) (export.Dataset, string, error) {
	switch req.Type {
	case "bimester":
		report, err := s.stats.BimesterReport(ctx, req.ClassID, req.BimesterID)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{
			Headers: []string{"Student", "Enrollment", "Present", "Absent", "Excused", "Total", "Percentage", "Risk"},
		}
		for _, row := range report.Students {
			ds.Rows = append(ds.Rows, []string{
				row.Name,
				string(row.Enrollment),
				fmt.Sprintf("%d", row.Counts.Present),
				fmt.Sprintf("%d", row.Counts.Absent),
				fmt.Sprintf("%d", row.Counts.Excused),
				fmt.Sprintf("%d", row.Counts.Total),
				fmt.Sprintf("%.1f%%", row.Percentage),
				string(row.Risk),
			})
		}
		return ds, fmt.Sprintf("Attendance %s", report.Name), nil

	case "class-month":
		summary, err := s.stats.ClassMonth(ctx, req.ClassID, req.Month)
		if err != nil {
			return export.Dataset{}, "", err
		}
		ds := export.Dataset{
			Headers: []string{"Student", "Present", "Absent", "Excused", "Lessons", "Percentage"},
		}
		for _, row := range summary.Rows {
			ds.Rows = append(ds.Rows, []string{
				row.Name,
				fmt.Sprintf("%d", row.Counts.Present),
				fmt.Sprintf("%d", row.Counts.Absent),
				fmt.Sprintf("%d", row.Counts.Excused),
				fmt.Sprintf("%d", row.TotalLessons),
				row.PercentDisplay,
			})
		}
		return ds, fmt.Sprintf("Attendance %s", summary.Month), nil
	}
	return export.Dataset{}, "", fmt.Errorf("unknown export type %q", req.Type)
}

func (s *ExportService) setFailed(id, reason string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job := s.statuses[id]
	job.Status = dto.ExportStatusFailed
	job.Error = reason
	s.statuses[id] = job
}
