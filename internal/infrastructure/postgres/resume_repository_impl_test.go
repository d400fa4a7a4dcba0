package postgres

import (
	"context"
	"errors"
	"testing"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
	"github.com/resumeforge/resumeforge/internal/domain/repository"
)

func TestSaveRejectsOwnerMismatch(t *testing.T) {
	// The ownership guard fires before any pool access, so no database is
	// needed to exercise it.
	r := NewResumeRepository(nil)
	doc := entity.NewResumeDocument("owner-a", "stem-modern")

	if _, err := r.Save(context.Background(), "owner-b", doc); !errors.Is(err, repository.ErrOwnerMismatch) {
		t.Fatalf("expected ErrOwnerMismatch, got %v", err)
	}
}
