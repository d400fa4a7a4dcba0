package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/nguyenthenguyen/docx"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

// DOCXBuilder fills a .docx template with document content. The template
// carries placeholders of the form {{FULL_NAME}}, {{CONTACT}},
// {{EDUCATION}}, {{EXPERIENCE}}, {{SKILLS}}, {{PROJECTS}}.
type DOCXBuilder struct {
	TemplatePath string
}

func NewDOCXBuilder(templatePath string) *DOCXBuilder {
	return &DOCXBuilder{TemplatePath: templatePath}
}

func (b *DOCXBuilder) Build(doc *entity.ResumeDocument) ([]byte, error) {
	tpl, err := docx.ReadDocxFile(b.TemplatePath)
	if err != nil {
		return nil, fmt.Errorf("read docx template: %w", err)
	}
	defer tpl.Close()

	d := tpl.Editable()
	replacements := map[string]string{
		"{{FULL_NAME}}":  doc.Contact.FullName,
		"{{CONTACT}}":    contactLine(doc.Contact),
		"{{EDUCATION}}":  educationText(doc.Education),
		"{{EXPERIENCE}}": experienceText(doc.Experience),
		"{{SKILLS}}":     skillsText(doc.Skills),
		"{{PROJECTS}}":   projectsText(doc.Projects),
	}
	for old, val := range replacements {
		if err := d.Replace(old, val, -1); err != nil {
			return nil, fmt.Errorf("fill %s: %w", old, err)
		}
	}

	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func contactLine(c entity.Contact) string {
	parts := []string{c.Email}
	for _, v := range []string{c.Phone, c.Location, c.LinkedIn, c.Website, c.GitHub} {
		if v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " | ")
}

func educationText(list []entity.Education) string {
	var sb strings.Builder
	for _, e := range list {
		fmt.Fprintf(&sb, "%s - %s in %s (%s - %s)\n", e.Institution, e.Degree, e.Field, e.StartDate, e.EndDate)
		if e.Description != "" {
			sb.WriteString(e.Description + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func experienceText(list []entity.Experience) string {
	var sb strings.Builder
	for _, e := range list {
		end := e.EndDate
		if e.Current {
			end = "Present"
		}
		fmt.Fprintf(&sb, "%s, %s (%s - %s)\n", e.Position, e.Company, e.StartDate, end)
		if e.Description != "" {
			sb.WriteString(e.Description + "\n")
		}
		for _, bl := range e.Bullets {
			sb.WriteString("- " + bl + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}

func skillsText(list []entity.Skill) string {
	names := make([]string, 0, len(list))
	for _, s := range list {
		names = append(names, s.Name)
	}
	return strings.Join(names, ", ")
}

func projectsText(list []entity.Project) string {
	var sb strings.Builder
	for _, p := range list {
		fmt.Fprintf(&sb, "%s (%s - %s)\n", p.Name, p.StartDate, p.EndDate)
		if p.Description != "" {
			sb.WriteString(p.Description + "\n")
		}
		for _, bl := range p.Bullets {
			sb.WriteString("- " + bl + "\n")
		}
		if p.Link != "" {
			sb.WriteString(p.Link + "\n")
		}
	}
	return strings.TrimRight(sb.String(), "\n")
}
