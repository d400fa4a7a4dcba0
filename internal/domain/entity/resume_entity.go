package entity

import (
	"time"

	"github.com/google/uuid"
)

// ResumeDocument is the aggregate root for the resume domain. A document is
// owned by exactly one user and is always persisted and loaded as a whole;
// edits happen through whole-section replacement, never field patches.
type ResumeDocument struct {
	ID                 string              `json:"id"`
	OwnerID            string              `json:"ownerId"`
	TemplateID         string              `json:"templateId"`
	LastModified       time.Time           `json:"lastModified"`
	Contact            Contact             `json:"contact"`
	Education          []Education         `json:"education"`
	Experience         []Experience        `json:"experience"`
	Skills             []Skill             `json:"skills"`
	Projects           []Project           `json:"projects"`
	AdditionalSections []AdditionalSection `json:"additionalSections,omitempty"`
}

// Contact is the single embedded contact record. FullName and Email are the
// only required fields; the rest are omitted from JSON when empty.
type Contact struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Location string `json:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty"`
	Website  string `json:"website,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

type Education struct {
	ID          string `json:"id"`
	Institution string `json:"institution"`
	Degree      string `json:"degree"`
	Field       string `json:"field"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
	GPA         string `json:"gpa,omitempty"`
	Description string `json:"description,omitempty"`
}

type Experience struct {
	ID          string   `json:"id"`
	Company     string   `json:"company"`
	Position    string   `json:"position"`
	Location    string   `json:"location"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Current     bool     `json:"current"`
	Description string   `json:"description"`
	Bullets     []string `json:"bullets"`
}

// SkillLevel is a display hint, not a validated scale.
type SkillLevel string

const (
	SkillBeginner     SkillLevel = "Beginner"
	SkillIntermediate SkillLevel = "Intermediate"
	SkillAdvanced     SkillLevel = "Advanced"
	SkillExpert       SkillLevel = "Expert"
)

type Skill struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Level SkillLevel `json:"level,omitempty"`
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	StartDate   string   `json:"startDate"`
	EndDate     string   `json:"endDate"`
	Bullets     []string `json:"bullets"`
	Link        string   `json:"link,omitempty"`
}

// AdditionalSection is the free-form extension point. Current editors do not
// populate it, but it must round-trip through persistence untouched.
type AdditionalSection struct {
	Title   string         `json:"title"`
	Content map[string]any `json:"content,omitempty"`
}

// NewResumeDocument builds an empty document for the given owner and
// template. Section slices are allocated so the document serializes with
// empty arrays rather than nulls.
func NewResumeDocument(ownerID, templateID string) *ResumeDocument {
	return &ResumeDocument{
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		TemplateID:   templateID,
		LastModified: time.Now().UTC(),
		Education:    []Education{},
		Experience:   []Experience{},
		Skills:       []Skill{},
		Projects:     []Project{},
	}
}

// Clone returns a deep copy. The workspace hands clones to the persistence
// gateway so an in-flight save never observes a concurrent section replace.
func (d *ResumeDocument) Clone() *ResumeDocument {
	if d == nil {
		return nil
	}
	c := *d

	c.Education = append([]Education(nil), d.Education...)
	c.Skills = append([]Skill(nil), d.Skills...)

	c.Experience = make([]Experience, len(d.Experience))
	for i, e := range d.Experience {
		e.Bullets = append([]string(nil), e.Bullets...)
		c.Experience[i] = e
	}
	c.Projects = make([]Project, len(d.Projects))
	for i, p := range d.Projects {
		p.Bullets = append([]string(nil), p.Bullets...)
		c.Projects[i] = p
	}

	if d.AdditionalSections != nil {
		c.AdditionalSections = make([]AdditionalSection, len(d.AdditionalSections))
		for i, s := range d.AdditionalSections {
			content := make(map[string]any, len(s.Content))
			for k, v := range s.Content {
				content[k] = v
			}
			s.Content = content
			c.AdditionalSections[i] = s
		}
	}
	return &c
}
