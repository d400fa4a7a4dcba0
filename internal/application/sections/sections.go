// Package sections contains the section editors: pure transforms that take a
// section value and return the whole replacement value. Callers hand the
// result to the workspace as a section replacement; nothing here writes to
// the store directly.
package sections

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

var ErrIndexOutOfRange = errors.New("index out of range")

// SkillDraft is the transient edit state of the skills editor: the skill
// being typed, before it is committed to the section.
type SkillDraft struct {
	Name  string            `json:"name"`
	Level entity.SkillLevel `json:"level"`
}

// AddEducation appends a new entry with a fresh id and empty fields.
func AddEducation(list []entity.Education) []entity.Education {
	out := append([]entity.Education(nil), list...)
	return append(out, entity.Education{ID: uuid.NewString()})
}

// UpdateEducation replaces the fields of the entry at index i. The entry id
// is stable across edits and never taken from the payload.
func UpdateEducation(list []entity.Education, i int, v entity.Education) ([]entity.Education, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := append([]entity.Education(nil), list...)
	v.ID = out[i].ID
	out[i] = v
	return out, nil
}

// RemoveEducationAt removes the entry at index i, preserving the order of
// the remaining entries.
func RemoveEducationAt(list []entity.Education, i int) ([]entity.Education, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]entity.Education, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

// RemoveEducationByID removes the entry whose id matches, if any.
func RemoveEducationByID(list []entity.Education, id string) []entity.Education {
	out := make([]entity.Education, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

func AddExperience(list []entity.Experience) []entity.Experience {
	out := append([]entity.Experience(nil), list...)
	return append(out, entity.Experience{ID: uuid.NewString(), Bullets: []string{}})
}

func UpdateExperience(list []entity.Experience, i int, v entity.Experience) ([]entity.Experience, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneExperience(list)
	v.ID = out[i].ID
	if v.Bullets == nil {
		v.Bullets = out[i].Bullets
	}
	out[i] = v
	return out, nil
}

func RemoveExperienceAt(list []entity.Experience, i int) ([]entity.Experience, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]entity.Experience, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

func RemoveExperienceByID(list []entity.Experience, id string) []entity.Experience {
	out := make([]entity.Experience, 0, len(list))
	for _, e := range list {
		if e.ID != id {
			out = append(out, e)
		}
	}
	return out
}

// Bullet lists have positional identity only; all addressing is by
// (item index, bullet index).

func AddExperienceBullet(list []entity.Experience, i int) ([]entity.Experience, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneExperience(list)
	out[i].Bullets = append(out[i].Bullets, "")
	return out, nil
}

func UpdateExperienceBullet(list []entity.Experience, i, j int, text string) ([]entity.Experience, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	if j < 0 || j >= len(list[i].Bullets) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneExperience(list)
	out[i].Bullets[j] = text
	return out, nil
}

func RemoveExperienceBullet(list []entity.Experience, i, j int) ([]entity.Experience, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	if j < 0 || j >= len(list[i].Bullets) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneExperience(list)
	b := out[i].Bullets
	out[i].Bullets = append(append(make([]string, 0, len(b)-1), b[:j]...), b[j+1:]...)
	return out, nil
}

// AddSkill commits the draft to the section. A draft whose trimmed name is
// empty is rejected and the section is returned unchanged.
func AddSkill(list []entity.Skill, draft SkillDraft) ([]entity.Skill, bool) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return list, false
	}
	level := draft.Level
	if level == "" {
		level = entity.SkillIntermediate
	}
	out := append([]entity.Skill(nil), list...)
	return append(out, entity.Skill{ID: uuid.NewString(), Name: name, Level: level}), true
}

// RemoveSkillByID removes the skill whose id matches. Skills are addressed
// by id, not position.
func RemoveSkillByID(list []entity.Skill, id string) []entity.Skill {
	out := make([]entity.Skill, 0, len(list))
	for _, s := range list {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func AddProject(list []entity.Project) []entity.Project {
	out := append([]entity.Project(nil), list...)
	return append(out, entity.Project{ID: uuid.NewString(), Bullets: []string{}})
}

func UpdateProject(list []entity.Project, i int, v entity.Project) ([]entity.Project, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneProjects(list)
	v.ID = out[i].ID
	if v.Bullets == nil {
		v.Bullets = out[i].Bullets
	}
	out[i] = v
	return out, nil
}

func RemoveProjectAt(list []entity.Project, i int) ([]entity.Project, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]entity.Project, 0, len(list)-1)
	out = append(out, list[:i]...)
	return append(out, list[i+1:]...), nil
}

func RemoveProjectByID(list []entity.Project, id string) []entity.Project {
	out := make([]entity.Project, 0, len(list))
	for _, p := range list {
		if p.ID != id {
			out = append(out, p)
		}
	}
	return out
}

func AddProjectBullet(list []entity.Project, i int) ([]entity.Project, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneProjects(list)
	out[i].Bullets = append(out[i].Bullets, "")
	return out, nil
}

func UpdateProjectBullet(list []entity.Project, i, j int, text string) ([]entity.Project, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	if j < 0 || j >= len(list[i].Bullets) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneProjects(list)
	out[i].Bullets[j] = text
	return out, nil
}

func RemoveProjectBullet(list []entity.Project, i, j int) ([]entity.Project, error) {
	if i < 0 || i >= len(list) {
		return nil, ErrIndexOutOfRange
	}
	if j < 0 || j >= len(list[i].Bullets) {
		return nil, ErrIndexOutOfRange
	}
	out := cloneProjects(list)
	b := out[i].Bullets
	out[i].Bullets = append(append(make([]string, 0, len(b)-1), b[:j]...), b[j+1:]...)
	return out, nil
}

func cloneExperience(list []entity.Experience) []entity.Experience {
	out := make([]entity.Experience, len(list))
	for i, e := range list {
		e.Bullets = append([]string(nil), e.Bullets...)
		out[i] = e
	}
	return out
}

func cloneProjects(list []entity.Project) []entity.Project {
	out := make([]entity.Project, len(list))
	for i, p := range list {
		p.Bullets = append([]string(nil), p.Bullets...)
		out[i] = p
	}
	return out
}
