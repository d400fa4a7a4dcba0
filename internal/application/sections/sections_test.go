package sections

import (
	"errors"
	"testing"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

func TestAddSkill(t *testing.T) {
	tests := []struct {
		name      string
		draft     SkillDraft
		wantAdded bool
		wantName  string
		wantLevel entity.SkillLevel
	}{
		{"plain name", SkillDraft{Name: "Go", Level: entity.SkillAdvanced}, true, "Go", entity.SkillAdvanced},
		{"trims whitespace", SkillDraft{Name: "  Rust  ", Level: entity.SkillBeginner}, true, "Rust", entity.SkillBeginner},
		{"defaults level", SkillDraft{Name: "SQL"}, true, "SQL", entity.SkillIntermediate},
		{"empty name rejected", SkillDraft{Name: ""}, false, "", ""},
		{"whitespace-only rejected", SkillDraft{Name: "   \t"}, false, "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := []entity.Skill{{ID: "s1", Name: "Existing"}}
			out, added := AddSkill(base, tt.draft)
			if added != tt.wantAdded {
				t.Fatalf("added = %v, want %v", added, tt.wantAdded)
			}
			if !tt.wantAdded {
				if len(out) != len(base) {
					t.Fatalf("rejected draft must leave the section unchanged, got %d entries", len(out))
				}
				return
			}
			got := out[len(out)-1]
			if got.Name != tt.wantName {
				t.Fatalf("name = %q, want %q", got.Name, tt.wantName)
			}
			if got.Level != tt.wantLevel {
				t.Fatalf("level = %q, want %q", got.Level, tt.wantLevel)
			}
			if got.ID == "" {
				t.Fatal("committed skill must get an id")
			}
		})
	}
}

func TestAddSkillDoesNotMutateInput(t *testing.T) {
	base := []entity.Skill{{ID: "s1", Name: "Go"}}
	if _, added := AddSkill(base, SkillDraft{Name: "Rust"}); !added {
		t.Fatal("expected add")
	}
	if len(base) != 1 {
		t.Fatalf("input slice mutated: %d entries", len(base))
	}
}

func TestRemoveSkillByID(t *testing.T) {
	list := []entity.Skill{
		{ID: "a", Name: "Go"},
		{ID: "b", Name: "Rust"},
		{ID: "c", Name: "SQL"},
	}

	out := RemoveSkillByID(list, "b")
	if len(out) != 2 {
		t.Fatalf("expected 2 skills, got %d", len(out))
	}
	if out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("order not preserved: %+v", out)
	}

	// Unknown id removes nothing.
	if out := RemoveSkillByID(list, "zzz"); len(out) != 3 {
		t.Fatalf("unknown id should remove nothing, got %d", len(out))
	}
}

func TestAddEducationAssignsID(t *testing.T) {
	out := AddEducation(nil)
	if len(out) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(out))
	}
	if out[0].ID == "" {
		t.Fatal("new entry must get an id")
	}
}

func TestUpdateEducationPreservesID(t *testing.T) {
	list := []entity.Education{{ID: "edu-1", Institution: "Old U"}}
	out, err := UpdateEducation(list, 0, entity.Education{ID: "spoofed", Institution: "New U"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out[0].ID != "edu-1" {
		t.Fatalf("id changed to %q; entry ids are stable across edits", out[0].ID)
	}
	if out[0].Institution != "New U" {
		t.Fatalf("institution = %q", out[0].Institution)
	}
	if list[0].Institution != "Old U" {
		t.Fatal("input slice mutated")
	}
}

func TestUpdateEducationOutOfRange(t *testing.T) {
	for _, i := range []int{-1, 1, 5} {
		if _, err := UpdateEducation([]entity.Education{{ID: "e"}}, i, entity.Education{}); !errors.Is(err, ErrIndexOutOfRange) {
			t.Fatalf("index %d: expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
}

func TestRemoveEducationAt(t *testing.T) {
	list := []entity.Education{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	out, err := RemoveEducationAt(list, 1)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(out) != 2 || out[0].ID != "a" || out[1].ID != "c" {
		t.Fatalf("unexpected result: %+v", out)
	}
	if _, err := RemoveEducationAt(list, 3); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
	}
}

func TestRemoveExperienceByIDRemovesExactlyOne(t *testing.T) {
	list := []entity.Experience{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	out := RemoveExperienceByID(list, "y")
	if len(out) != 2 || out[0].ID != "x" || out[1].ID != "z" {
		t.Fatalf("unexpected result: %+v", out)
	}
}

func TestUpdateExperienceKeepsBulletsWhenPayloadOmitsThem(t *testing.T) {
	list := []entity.Experience{{ID: "e1", Company: "Acme", Bullets: []string{"shipped it"}}}
	out, err := UpdateExperience(list, 0, entity.Experience{Company: "Initech"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if out[0].Company != "Initech" {
		t.Fatalf("company = %q", out[0].Company)
	}
	if len(out[0].Bullets) != 1 || out[0].Bullets[0] != "shipped it" {
		t.Fatalf("bullets lost on update: %+v", out[0].Bullets)
	}
}

func TestExperienceBulletLifecycle(t *testing.T) {
	list := []entity.Experience{{ID: "e1", Bullets: []string{}}}

	list, err := AddExperienceBullet(list, 0)
	if err != nil {
		t.Fatalf("add bullet: %v", err)
	}
	if len(list[0].Bullets) != 1 || list[0].Bullets[0] != "" {
		t.Fatalf("expected one empty bullet, got %+v", list[0].Bullets)
	}

	list, err = UpdateExperienceBullet(list, 0, 0, "Did a thing")
	if err != nil {
		t.Fatalf("update bullet: %v", err)
	}
	if list[0].Bullets[0] != "Did a thing" {
		t.Fatalf("bullet = %q", list[0].Bullets[0])
	}

	list, err = RemoveExperienceBullet(list, 0, 0)
	if err != nil {
		t.Fatalf("remove bullet: %v", err)
	}
	if len(list[0].Bullets) != 0 {
		t.Fatalf("expected no bullets, got %+v", list[0].Bullets)
	}
}

func TestBulletIndexValidation(t *testing.T) {
	list := []entity.Experience{{ID: "e1", Bullets: []string{"only"}}}
	tests := []struct {
		name string
		item int
		idx  int
	}{
		{"item out of range", 2, 0},
		{"negative item", -1, 0},
		{"bullet out of range", 0, 1},
		{"negative bullet", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := UpdateExperienceBullet(list, tt.item, tt.idx, "x"); !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
			if _, err := RemoveExperienceBullet(list, tt.item, tt.idx); !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("expected ErrIndexOutOfRange, got %v", err)
			}
		})
	}
}

func TestBulletEditDoesNotMutateInput(t *testing.T) {
	list := []entity.Experience{{ID: "e1", Bullets: []string{"original"}}}
	out, err := UpdateExperienceBullet(list, 0, 0, "changed")
	if err != nil {
		t.Fatalf("update bullet: %v", err)
	}
	if list[0].Bullets[0] != "original" {
		t.Fatal("input bullets mutated")
	}
	if out[0].Bullets[0] != "changed" {
		t.Fatalf("output bullet = %q", out[0].Bullets[0])
	}
}

func TestProjectLifecycle(t *testing.T) {
	list := AddProject(nil)
	if len(list) != 1 || list[0].ID == "" {
		t.Fatalf("unexpected add result: %+v", list)
	}

	list, err := UpdateProject(list, 0, entity.Project{Name: "resumeforge"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if list[0].Name != "resumeforge" {
		t.Fatalf("name = %q", list[0].Name)
	}

	list, err = AddProjectBullet(list, 0)
	if err != nil {
		t.Fatalf("add bullet: %v", err)
	}
	list, err = UpdateProjectBullet(list, 0, 0, "open sourced")
	if err != nil {
		t.Fatalf("update bullet: %v", err)
	}
	if list[0].Bullets[0] != "open sourced" {
		t.Fatalf("bullet = %q", list[0].Bullets[0])
	}

	id := list[0].ID
	if out := RemoveProjectByID(list, id); len(out) != 0 {
		t.Fatalf("expected empty list, got %+v", out)
	}
}
