package validation

import (
	"errors"
	"testing"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

func validDoc() *entity.ResumeDocument {
	doc := entity.NewResumeDocument("owner-1", "stem-modern")
	doc.Contact = entity.Contact{FullName: "Ada Lovelace", Email: "ada@example.com"}
	return doc
}

func TestValidateDocumentAcceptsNewDocument(t *testing.T) {
	if err := ValidateDocument(validDoc()); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateDocumentAcceptsFullDocument(t *testing.T) {
	doc := validDoc()
	doc.Education = []entity.Education{{ID: "e1", Institution: "MIT", StartDate: "2018-09", EndDate: "2022-06"}}
	doc.Experience = []entity.Experience{{ID: "x1", Company: "Acme", Current: true, Bullets: []string{"did things"}}}
	doc.Skills = []entity.Skill{{ID: "s1", Name: "Go", Level: entity.SkillExpert}}
	doc.Projects = []entity.Project{{ID: "p1", Name: "proj", Bullets: []string{}}}
	doc.AdditionalSections = []entity.AdditionalSection{{Title: "Awards", Content: map[string]any{"count": 3}}}
	if err := ValidateDocument(doc); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
}

func TestValidateDocumentRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*entity.ResumeDocument)
	}{
		{"missing owner", func(d *entity.ResumeDocument) { d.OwnerID = "" }},
		{"missing template", func(d *entity.ResumeDocument) { d.TemplateID = "" }},
		{"skill without name", func(d *entity.ResumeDocument) {
			d.Skills = []entity.Skill{{ID: "s1", Name: ""}}
		}},
		{"skill with bogus level", func(d *entity.ResumeDocument) {
			d.Skills = []entity.Skill{{ID: "s1", Name: "Go", Level: "Wizard"}}
		}},
		{"entry without id", func(d *entity.ResumeDocument) {
			d.Education = []entity.Education{{Institution: "MIT"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validDoc()
			tt.mutate(doc)
			err := ValidateDocument(doc)
			if err == nil {
				t.Fatal("expected rejection")
			}
			var dErr *DocumentError
			if !errors.As(err, &dErr) {
				t.Fatalf("expected *DocumentError, got %T", err)
			}
			if len(dErr.Details()) == 0 {
				t.Fatal("rejection must carry violations")
			}
		})
	}
}
