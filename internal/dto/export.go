package dto

import "time"

// Export job states.
const (
	ExportStatusPending = "PENDING"
	ExportStatusReady   = "READY"
	ExportStatusFailed  = "FAILED"
)

// ExportRequest asks for a downloadable report rendition.
type ExportRequest struct {
	Type       string `json:"type" validate:"required,oneof=bimester class-month"`
	Format     string `json:"format" validate:"required,oneof=csv pdf"`
	ClassID    string `json:"class_id" validate:"required"`
	BimesterID string `json:"bimester_id,omitempty"`
	Month      string `json:"month,omitempty"`
}

// ExportJob tracks an asynchronous export.
type ExportJob struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Format    string    `json:"format"`
	Status    string    `json:"status"`
	FileName  string    `json:"file_name,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
