package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumeforge/resumeforge/internal/domain/repository"
	"github.com/resumeforge/resumeforge/pkg/export"
)

type ExportRepository struct {
	pool *pgxpool.Pool
}

func NewExportRepository(pool *pgxpool.Pool) *ExportRepository {
	return &ExportRepository{pool: pool}
}

// Record upserts the durable copy of a job's state. Enqueue writes the
// pending row; the worker overwrites it with the outcome.
func (r *ExportRepository) Record(ctx context.Context, ownerID, documentID string, rec export.StatusRecord) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO exports (job_id, owner_id, document_id, format, status, artifact_url, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (job_id) DO UPDATE SET
			status = EXCLUDED.status,
			artifact_url = EXCLUDED.artifact_url,
			error = EXCLUDED.error,
			updated_at = now()
	`, rec.JobID, ownerID, documentID, string(rec.Format), rec.Status, rec.URL, rec.Error)
	return err
}

func (r *ExportRepository) Get(ctx context.Context, jobID string) (*export.StatusRecord, error) {
	var rec export.StatusRecord
	var format string
	err := r.pool.QueryRow(ctx, `
		SELECT job_id, status, format, artifact_url, error
		FROM exports WHERE job_id = $1
	`, jobID).Scan(&rec.JobID, &rec.Status, &format, &rec.URL, &rec.Error)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	rec.Format = export.Format(format)
	return &rec, nil
}
