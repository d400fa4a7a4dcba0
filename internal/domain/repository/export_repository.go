package repository

import (
	"context"

	"github.com/resumeforge/resumeforge/pkg/export"
)

// ExportRepository is the durable record of export jobs. Redis carries the
// hot status for polling; this is the survives-a-flush copy.
type ExportRepository interface {
	Record(ctx context.Context, ownerID, documentID string, rec export.StatusRecord) error
	Get(ctx context.Context, jobID string) (*export.StatusRecord, error)
}
