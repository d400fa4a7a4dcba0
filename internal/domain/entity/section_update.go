package entity

// SectionUpdate is a whole-section replacement command. Each variant carries
// the full replacement value for one named section; applying a variant never
// touches any other section. This replaces string-keyed section dispatch with
// an exhaustive set of typed commands.
type SectionUpdate interface {
	// Section returns the canonical section name, used for logging and for
	// the wire representation of workspace updates.
	Section() string
	// Apply replaces the target section on the document.
	Apply(doc *ResumeDocument)
}

type ContactUpdate struct {
	Contact Contact `json:"contact"`
}

func (ContactUpdate) Section() string            { return "contact" }
func (u ContactUpdate) Apply(d *ResumeDocument)  { d.Contact = u.Contact }

type EducationUpdate struct {
	Education []Education `json:"education"`
}

func (EducationUpdate) Section() string           { return "education" }
func (u EducationUpdate) Apply(d *ResumeDocument) { d.Education = u.Education }

type ExperienceUpdate struct {
	Experience []Experience `json:"experience"`
}

func (ExperienceUpdate) Section() string            { return "experience" }
func (u ExperienceUpdate) Apply(d *ResumeDocument)  { d.Experience = u.Experience }

type SkillsUpdate struct {
	Skills []Skill `json:"skills"`
}

func (SkillsUpdate) Section() string           { return "skills" }
func (u SkillsUpdate) Apply(d *ResumeDocument) { d.Skills = u.Skills }

type ProjectsUpdate struct {
	Projects []Project `json:"projects"`
}

func (ProjectsUpdate) Section() string           { return "projects" }
func (u ProjectsUpdate) Apply(d *ResumeDocument) { d.Projects = u.Projects }
