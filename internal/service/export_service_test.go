package service

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathvieira649/frequenciaeconteudo/internal/dto"
	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/jobs"
)

func newExportFixture(t *testing.T) *ExportService {
	t.Helper()
	state := newStatsState()
	markDays(state, "s-1", models.AttendancePresent, models.AttendanceAbsent)
	stats := NewStatsService(state, nil, nil)
	return NewExportService(stats, t.TempDir(), 1, 1, nil, nil)
}

func TestExportEnqueueValidatesRequest(t *testing.T) {
	svc := newExportFixture(t)

	_, err := svc.Enqueue(dto.ExportRequest{Type: "bimester", Format: "xlsx", ClassID: "c-1", BimesterID: "b1"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.Enqueue(dto.ExportRequest{Type: "bimester", Format: "csv", ClassID: "c-1"})
	require.Error(t, err)

	_, err = svc.Enqueue(dto.ExportRequest{Type: "class-month", Format: "csv", ClassID: "c-1"})
	require.Error(t, err)
}

func TestExportHandleRendersCSV(t *testing.T) {
	svc := newExportFixture(t)
	req := dto.ExportRequest{Type: "bimester", Format: "csv", ClassID: "c-1", BimesterID: "b1"}
	svc.statuses["job-1"] = dto.ExportJob{ID: "job-1", Type: req.Type, Format: req.Format, Status: dto.ExportStatusPending}

	require.NoError(t, svc.handle(context.Background(), jobs.Job{ID: "job-1", Payload: req}))

	job, err := svc.Job("job-1")
	require.NoError(t, err)
	assert.Equal(t, dto.ExportStatusReady, job.Status)
	assert.Equal(t, "job-1.csv", job.FileName)

	path, err := svc.FilePath("job-1")
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(raw)
	assert.True(t, strings.HasPrefix(content, "Student,Enrollment,Present"))
	assert.Contains(t, content, "Ana")
	assert.Contains(t, content, "50.0%")
}

func TestExportHandleRendersPDF(t *testing.T) {
	svc := newExportFixture(t)
	req := dto.ExportRequest{Type: "class-month", Format: "pdf", ClassID: "c-1", Month: "2025-03"}
	svc.statuses["job-2"] = dto.ExportJob{ID: "job-2", Type: req.Type, Format: req.Format, Status: dto.ExportStatusPending}

	require.NoError(t, svc.handle(context.Background(), jobs.Job{ID: "job-2", Payload: req}))

	job, err := svc.Job("job-2")
	require.NoError(t, err)
	assert.Equal(t, dto.ExportStatusReady, job.Status)

	path, err := svc.FilePath("job-2")
	require.NoError(t, err)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "%PDF"))
}

func TestExportHandleMarksFailureWithoutRetry(t *testing.T) {
	svc := newExportFixture(t)
	req := dto.ExportRequest{Type: "bimester", Format: "csv", ClassID: "ghost", BimesterID: "b1"}
	svc.statuses["job-3"] = dto.ExportJob{ID: "job-3", Status: dto.ExportStatusPending}

	// Unknown class is a permanent failure; handle reports it on the job
	// instead of erroring so the queue does not retry.
	require.NoError(t, svc.handle(context.Background(), jobs.Job{ID: "job-3", Payload: req}))

	job, err := svc.Job("job-3")
	require.NoError(t, err)
	assert.Equal(t, dto.ExportStatusFailed, job.Status)
	assert.NotEmpty(t, job.Error)
}

func TestExportFilePathRequiresReadyJob(t *testing.T) {
	svc := newExportFixture(t)
	svc.statuses["job-4"] = dto.ExportJob{ID: "job-4", Status: dto.ExportStatusPending}

	_, err := svc.FilePath("job-4")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErrors.FromError(err).Code)

	_, err = svc.Job("ghost")
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
