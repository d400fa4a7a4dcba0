package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
	"github.com/resumeforge/resumeforge/internal/domain/repository"
)

// ResumeRepository persists resume documents. The whole document is stored
// as a JSONB blob so every field round-trips losslessly; owner, template and
// modification time are mirrored into columns for lookups and ordering. The
// row's last_modified is the confirmed timestamp returned to callers.
type ResumeRepository struct {
	pool *pgxpool.Pool
}

func NewResumeRepository(pool *pgxpool.Pool) *ResumeRepository {
	return &ResumeRepository{pool: pool}
}

func (r *ResumeRepository) FetchAll(ctx context.Context, ownerID string) ([]*entity.ResumeDocument, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT document, last_modified
		FROM resumes
		WHERE owner_id = $1
		ORDER BY last_modified DESC
	`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *ResumeRepository) GetByOwnerEmail(ctx context.Context, email string) (*entity.ResumeDocument, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT r.document, r.last_modified
		FROM resumes r
		JOIN users u ON u.id = r.owner_id
		WHERE u.email = $1
		ORDER BY r.last_modified DESC
		LIMIT 1
	`, email)

	var raw []byte
	var lastModified time.Time
	if err := row.Scan(&raw, &lastModified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return decodeDocument(raw, lastModified)
}

func (r *ResumeRepository) ListByOwnerEmail(ctx context.Context, email string) ([]*entity.ResumeDocument, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT r.document, r.last_modified
		FROM resumes r
		JOIN users u ON u.id = r.owner_id
		WHERE u.email = $1
		ORDER BY r.last_modified DESC
	`, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (r *ResumeRepository) Save(ctx context.Context, ownerID string, doc *entity.ResumeDocument) (*entity.ResumeDocument, error) {
	if doc.OwnerID != ownerID {
		return nil, repository.ErrOwnerMismatch
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}

	var lastModified time.Time
	row := r.pool.QueryRow(ctx, `
		INSERT INTO resumes (id, owner_id, template_id, document, last_modified)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (id) DO UPDATE
		SET template_id = EXCLUDED.template_id,
		    document = EXCLUDED.document,
		    last_modified = now(),
		    updated_at = now()
		WHERE resumes.owner_id = EXCLUDED.owner_id
		RETURNING last_modified
	`, doc.ID, ownerID, doc.TemplateID, raw)
	if err := row.Scan(&lastModified); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Upsert matched an existing row owned by someone else.
			return nil, repository.ErrOwnerMismatch
		}
		return nil, err
	}

	confirmed := doc.Clone()
	confirmed.LastModified = lastModified.UTC()
	return confirmed, nil
}

func scanDocuments(rows pgx.Rows) ([]*entity.ResumeDocument, error) {
	docs := []*entity.ResumeDocument{}
	for rows.Next() {
		var raw []byte
		var lastModified time.Time
		if err := rows.Scan(&raw, &lastModified); err != nil {
			return nil, err
		}
		doc, err := decodeDocument(raw, lastModified)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

func decodeDocument(raw []byte, lastModified time.Time) (*entity.ResumeDocument, error) {
	doc := &entity.ResumeDocument{}
	if err := json.Unmarshal(raw, doc); err != nil {
		return nil, err
	}
	doc.LastModified = lastModified.UTC()
	return doc, nil
}

var _ repository.ResumeRepository = (*ResumeRepository)(nil)
