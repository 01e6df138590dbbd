package store

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

type fakePersister struct {
	saved   [][]models.PendingChange
	loaded  []models.PendingChange
	saveErr error
	loadErr error
}

func (f *fakePersister) SavePending(changes []models.PendingChange) error {
	f.saved = append(f.saved, changes)
	return f.saveErr
}

func (f *fakePersister) LoadPending() ([]models.PendingChange, error) {
	return f.loaded, f.loadErr
}

func TestEnqueueDedupsSameCellKeepingLatest(t *testing.T) {
	queue := NewPendingQueue(nil)

	require.NoError(t, queue.Enqueue(models.PendingChange{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: models.AttendancePresent}))
	require.NoError(t, queue.Enqueue(models.PendingChange{StudentID: "s-2", Date: "2025-03-10", LessonIndex: 0, Status: models.AttendancePresent}))
	require.NoError(t, queue.Enqueue(models.PendingChange{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: models.AttendanceAbsent}))

	items := queue.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "s-2", items[0].StudentID)
	assert.Equal(t, "s-1", items[1].StudentID)
	assert.Equal(t, models.AttendanceAbsent, items[1].Status)
}

func TestEnqueueDistinguishesLessonSlots(t *testing.T) {
	queue := NewPendingQueue(nil)

	require.NoError(t, queue.Enqueue(models.PendingChange{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: models.AttendancePresent}))
	require.NoError(t, queue.Enqueue(models.PendingChange{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 1, Status: models.AttendancePresent}))

	assert.Equal(t, 2, queue.Len())
}

func TestQueuePersistsOnEveryMutation(t *testing.T) {
	persister := &fakePersister{}
	queue := NewPendingQueue(persister)

	require.NoError(t, queue.Enqueue(models.PendingChange{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: models.AttendancePresent}))
	require.NoError(t, queue.Clear())

	require.Len(t, persister.saved, 2)
	assert.Len(t, persister.saved[0], 1)
	assert.Empty(t, persister.saved[1])
}

func TestRestoreLoadsPersistedChanges(t *testing.T) {
	persister := &fakePersister{loaded: []models.PendingChange{
		{StudentID: "s-1", Date: "2025-03-10", LessonIndex: 0, Status: models.AttendanceExcused},
	}}
	queue := NewPendingQueue(persister)

	require.NoError(t, queue.Restore())
	require.Equal(t, 1, queue.Len())
	assert.Equal(t, models.AttendanceExcused, queue.Items()[0].Status)
}

func TestRestorePropagatesLoadError(t *testing.T) {
	persister := &fakePersister{loadErr: errors.New("disk gone")}
	queue := NewPendingQueue(persister)

	assert.Error(t, queue.Restore())
}
