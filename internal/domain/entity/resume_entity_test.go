package entity

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewResumeDocumentSerializesEmptyArrays(t *testing.T) {
	doc := NewResumeDocument("owner-1", "stem-modern")
	b, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"education":[]`, `"experience":[]`, `"skills":[]`, `"projects":[]`} {
		if !strings.Contains(s, want) {
			t.Errorf("missing %s in %s", want, s)
		}
	}
	if strings.Contains(s, "additionalSections") {
		t.Error("empty additionalSections should be omitted")
	}
	if doc.ID == "" {
		t.Error("new document must get an id")
	}
}

func TestCloneIsIndependent(t *testing.T) {
	doc := NewResumeDocument("owner-1", "stem-modern")
	doc.Experience = []Experience{{ID: "e1", Company: "Acme", Bullets: []string{"first"}}}
	doc.Projects = []Project{{ID: "p1", Name: "proj", Bullets: []string{"alpha"}}}
	doc.Skills = []Skill{{ID: "s1", Name: "Go"}}
	doc.AdditionalSections = []AdditionalSection{{Title: "Awards", Content: map[string]any{"year": 2024}}}

	c := doc.Clone()
	c.Contact.FullName = "Changed"
	c.Experience[0].Bullets[0] = "mutated"
	c.Projects[0].Bullets[0] = "mutated"
	c.Skills[0].Name = "Rust"
	c.AdditionalSections[0].Content["year"] = 1999

	if doc.Contact.FullName == "Changed" {
		t.Error("contact shared between clone and original")
	}
	if doc.Experience[0].Bullets[0] != "first" {
		t.Error("experience bullets shared")
	}
	if doc.Projects[0].Bullets[0] != "alpha" {
		t.Error("project bullets shared")
	}
	if doc.Skills[0].Name != "Go" {
		t.Error("skills shared")
	}
	if doc.AdditionalSections[0].Content["year"] != 2024 {
		t.Error("additional section content shared")
	}
}

func TestCloneNil(t *testing.T) {
	var doc *ResumeDocument
	if doc.Clone() != nil {
		t.Fatal("clone of nil must be nil")
	}
}

func TestSectionUpdateTouchesOnlyItsSection(t *testing.T) {
	mk := func() *ResumeDocument {
		d := NewResumeDocument("owner-1", "stem-modern")
		d.Contact = Contact{FullName: "Keep"}
		d.Education = []Education{{ID: "edu"}}
		d.Experience = []Experience{{ID: "exp"}}
		d.Skills = []Skill{{ID: "skl"}}
		d.Projects = []Project{{ID: "prj"}}
		return d
	}

	tests := []struct {
		update  SectionUpdate
		section string
		check   func(t *testing.T, d *ResumeDocument)
	}{
		{ContactUpdate{Contact: Contact{FullName: "New"}}, "contact", func(t *testing.T, d *ResumeDocument) {
			if d.Contact.FullName != "New" {
				t.Error("contact not replaced")
			}
		}},
		{EducationUpdate{Education: []Education{{ID: "a"}, {ID: "b"}}}, "education", func(t *testing.T, d *ResumeDocument) {
			if len(d.Education) != 2 {
				t.Error("education not replaced")
			}
		}},
		{ExperienceUpdate{Experience: nil}, "experience", func(t *testing.T, d *ResumeDocument) {
			if len(d.Experience) != 0 {
				t.Error("experience not replaced")
			}
		}},
		{SkillsUpdate{Skills: []Skill{{ID: "x"}}}, "skills", func(t *testing.T, d *ResumeDocument) {
			if len(d.Skills) != 1 || d.Skills[0].ID != "x" {
				t.Error("skills not replaced")
			}
		}},
		{ProjectsUpdate{Projects: []Project{}}, "projects", func(t *testing.T, d *ResumeDocument) {
			if len(d.Projects) != 0 {
				t.Error("projects not replaced")
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.section, func(t *testing.T) {
			if got := tt.update.Section(); got != tt.section {
				t.Fatalf("Section() = %q, want %q", got, tt.section)
			}
			d := mk()
			before := d.Clone()
			tt.update.Apply(d)
			tt.check(t, d)

			// Every other section must be untouched.
			if tt.section != "contact" && d.Contact != before.Contact {
				t.Error("contact changed")
			}
			if tt.section != "education" && len(d.Education) != len(before.Education) {
				t.Error("education changed")
			}
			if tt.section != "experience" && len(d.Experience) != len(before.Experience) {
				t.Error("experience changed")
			}
			if tt.section != "skills" && len(d.Skills) != len(before.Skills) {
				t.Error("skills changed")
			}
			if tt.section != "projects" && len(d.Projects) != len(before.Projects) {
				t.Error("projects changed")
			}
		})
	}
}

func TestTemplateByID(t *testing.T) {
	tpl := TemplateByID("business-executive")
	if tpl.ID != "business-executive" {
		t.Fatalf("got %q", tpl.ID)
	}
	// Unknown ids fall back to the first catalog entry.
	if got := TemplateByID("nope"); got.ID != Templates[0].ID {
		t.Fatalf("fallback = %q, want %q", got.ID, Templates[0].ID)
	}
}
