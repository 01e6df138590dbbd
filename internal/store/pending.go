package store

import (
	"sync"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

// PendingPersister stores the queue contents durably. The queue rewrites the
// blob on every mutation so queued edits survive a restart.
type PendingPersister interface {
	SavePending(changes []models.PendingChange) error
	LoadPending() ([]models.PendingChange, error)
}

// PendingQueue is the ordered, deduplicated list of attendance edits not yet
// confirmed persisted to the remote store. Insertion order of distinct cells
// is preserved; a second edit to the same cell replaces the earlier entry at
// the tail.
type PendingQueue struct {
	mu        sync.Mutex
	changes   []models.PendingChange
	persister PendingPersister
}

// NewPendingQueue builds a queue. persister may be nil (tests).
func NewPendingQueue(persister PendingPersister) *PendingQueue {
	return &PendingQueue{persister: persister}
}

// SetPersister attaches durable storage after construction.
func (q *PendingQueue) SetPersister(p PendingPersister) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.persister = p
}

// Restore loads previously queued edits. Called once at startup.
func (q *PendingQueue) Restore() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.persister == nil {
		return nil
	}
	changes, err := q.persister.LoadPending()
	if err != nil {
		return err
	}
	q.changes = changes
	return nil
}

// Enqueue adds an edit, replacing any earlier entry for the same cell.
func (q *PendingQueue) Enqueue(change models.PendingChange) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	key := change.CellKey()
	kept := q.changes[:0]
	for _, existing := range q.changes {
		if existing.CellKey() != key {
			kept = append(kept, existing)
		}
	}
	q.changes = append(kept, change)
	return q.persistLocked()
}

// Items returns a copy of the queue in order.
func (q *PendingQueue) Items() []models.PendingChange {
	q.mu.Lock()
	defer q.mu.Unlock()
	return append([]models.PendingChange(nil), q.changes...)
}

// Len returns the number of queued edits.
func (q *PendingQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.changes)
}

// Clear empties the queue after a successful flush.
func (q *PendingQueue) Clear() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.changes = nil
	return q.persistLocked()
}

func (q *PendingQueue) persistLocked() error {
	if q.persister == nil {
		return nil
	}
	return q.persister.SavePending(append([]models.PendingChange(nil), q.changes...))
}
