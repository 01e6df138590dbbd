package repository

import (
	"errors"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
	"github.com/mathvieira649/frequenciaeconteudo/internal/remote"
	appErrors "github.com/mathvieira649/frequenciaeconteudo/pkg/errors"
	"github.com/mathvieira649/frequenciaeconteudo/pkg/localstore"
)

// Fixed blob names for the two pieces of durable local state.
const (
	blobSnapshot = "data_snapshot"
	blobPending  = "pending_changes"
)

// LocalRepository persists the offline snapshot and the pending queue
// through the local blob store.
type LocalRepository struct {
	store *localstore.Store
}

// NewLocalRepository wraps a blob store.
func NewLocalRepository(store *localstore.Store) *LocalRepository {
	return &LocalRepository{store: store}
}

// SaveSnapshot replaces the last-known-good dataset, kept in the same wire
// shape as the getData() response.
func (r *LocalRepository) SaveSnapshot(payload *remote.DataPayload) error {
	return r.store.Write(blobSnapshot, payload)
}

// LoadSnapshot reads the last-known-good dataset. ErrCacheMiss when none was
// ever written; ErrCacheCorrupt when the blob does not parse.
func (r *LocalRepository) LoadSnapshot() (*remote.DataPayload, error) {
	payload := &remote.DataPayload{}
	if err := r.store.Read(blobSnapshot, payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// SavePending implements store.PendingPersister.
func (r *LocalRepository) SavePending(changes []models.PendingChange) error {
	return r.store.Write(blobPending, changes)
}

// LoadPending implements store.PendingPersister. A missing blob is an empty
// queue, not an error.
func (r *LocalRepository) LoadPending() ([]models.PendingChange, error) {
	var changes []models.PendingChange
	if err := r.store.Read(blobPending, &changes); err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, nil
		}
		return nil, err
	}
	return changes, nil
}
