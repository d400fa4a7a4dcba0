package repository

import (
	"context"
	"errors"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

var (
	// ErrNotFound signals a lookup that matched no rows. Callers decide
	// whether that is an error (single fetch) or an empty state (listing).
	ErrNotFound = errors.New("resume not found")
	// ErrOwnerMismatch signals a save whose owner does not match the
	// document's embedded OwnerID.
	ErrOwnerMismatch = errors.New("document owner does not match identity")
)

// ResumeRepository is the persistence gateway for resume documents. Every
// field of ResumeDocument must round-trip losslessly.
type ResumeRepository interface {
	// FetchAll returns every document owned by ownerID. Zero documents is an
	// empty slice, not an error.
	FetchAll(ctx context.Context, ownerID string) ([]*entity.ResumeDocument, error)
	// GetByOwnerEmail returns the most recently modified document owned by
	// the user with the given email, or ErrNotFound.
	GetByOwnerEmail(ctx context.Context, email string) (*entity.ResumeDocument, error)
	// ListByOwnerEmail returns all documents owned by the user with the
	// given email, newest first.
	ListByOwnerEmail(ctx context.Context, email string) ([]*entity.ResumeDocument, error)
	// Save upserts the document under ownerID and returns the persisted
	// state, including the gateway-confirmed LastModified. Saves with
	// ownerID != doc.OwnerID fail with ErrOwnerMismatch.
	Save(ctx context.Context, ownerID string, doc *entity.ResumeDocument) (*entity.ResumeDocument, error)
}
