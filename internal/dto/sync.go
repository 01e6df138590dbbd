package dto

import (
	"time"

	"github.com/mathvieira649/frequenciaeconteudo/internal/models"
)

// Load sources.
const (
	LoadSourceRemote = "remote"
	LoadSourceCache  = "cache"
)

// LoadResult reports where the dataset came from and any non-fatal warning.
type LoadResult struct {
	Source        string `json:"source"`
	Warning       string `json:"warning,omitempty"`
	Students      int    `json:"students"`
	Classes       int    `json:"classes"`
	SelectedClass string `json:"selected_class,omitempty"`
}

// FlushResult reports a pending-queue flush attempt.
type FlushResult struct {
	Outcome models.SaveOutcome `json:"outcome"`
	Sent    int                `json:"sent"`
	Reason  string             `json:"reason,omitempty"`
}

// SaveResult reports an optimistic write.
type SaveResult struct {
	Outcome models.SaveOutcome `json:"outcome"`
	ID      string             `json:"id,omitempty"`
	Reason  string             `json:"reason,omitempty"`
}

// SyncStatus is the introspection payload for the sync coordinator.
type SyncStatus struct {
	Configured    bool       `json:"configured"`
	Online        bool       `json:"online"`
	PendingCount  int        `json:"pending_count"`
	Flushing      bool       `json:"flushing"`
	LastLoadAt    *time.Time `json:"last_load_at,omitempty"`
	LastLoadFrom  string     `json:"last_load_from,omitempty"`
	SelectedClass string     `json:"selected_class,omitempty"`
}

// SaveStudentRequest creates or updates a roster entry.
type SaveStudentRequest struct {
	ID         string `json:"id"`
	Name       string `json:"name" validate:"required"`
	ClassID    string `json:"class_id"`
	Enrollment string `json:"enrollment" validate:"omitempty,enrollment_status"`
}

// SaveClassRequest creates or updates a class.
type SaveClassRequest struct {
	ID   string `json:"id"`
	Name string `json:"name" validate:"required"`
}

// ConfigValueRequest replaces a managed configuration list.
type ConfigValueRequest struct {
	Subjects []string         `json:"subjects,omitempty"`
	Holidays []models.Holiday `json:"holidays,omitempty"`
}
