// Package preview renders a resume document to displayable HTML. Rendering
// is a pure mapping of (document, template entry): no mutation, no network,
// safe to re-invoke on every document change. The same output feeds the live
// preview endpoint and the PDF exporter.
package preview

import (
	"bytes"
	"html/template"
	"time"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

// styles carries the per-category colors applied by the page template.
type styles struct {
	HeaderBg    string
	HeaderText  string
	AccentColor string
}

func stylesFor(cat entity.TemplateCategory) styles {
	switch cat {
	case entity.CategoryBusiness:
		return styles{HeaderBg: "#0f4c5c", HeaderText: "#ffffff", AccentColor: "#0f4c5c"}
	case entity.CategoryHumanities:
		return styles{HeaderBg: "#7c2d55", HeaderText: "#ffffff", AccentColor: "#7c2d55"}
	default: // STEM
		return styles{HeaderBg: "#1d4ed8", HeaderText: "#ffffff", AccentColor: "#1d4ed8"}
	}
}

// displayDate formats a stored date for display only; stored values remain
// unformatted. Unparseable input is shown as-is.
func displayDate(raw string) string {
	if raw == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "2006-01", time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format("Jan 2006")
		}
	}
	return raw
}

// experienceEnd renders the open-ended boundary for current roles.
func experienceEnd(e entity.Experience) string {
	if e.Current {
		return "Present"
	}
	return displayDate(e.EndDate)
}

var pageTemplate = template.Must(template.New("resume").Funcs(template.FuncMap{
	"date":   displayDate,
	"expEnd": experienceEnd,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style>
  body { font-family: Helvetica, Arial, sans-serif; margin: 0; color: #1f2937; }
  .header { background: {{.Styles.HeaderBg}}; color: {{.Styles.HeaderText}}; padding: 24px; }
  .header h1 { margin: 0 0 8px 0; font-size: 26px; }
  .header .contact span { margin-right: 16px; font-size: 13px; }
  .content { padding: 24px; }
  h2 { color: {{.Styles.AccentColor}}; border-bottom: 1px solid #e5e7eb; padding-bottom: 4px; font-size: 17px; }
  .entry { margin-bottom: 14px; }
  .entry .meta { color: #6b7280; font-size: 13px; }
  .entry h3 { margin: 0; font-size: 15px; }
  .entry p { margin: 4px 0; font-size: 13px; }
  ul { margin: 4px 0 0 18px; }
  li { font-size: 13px; }
  .skill { display: inline-block; background: #f3f4f6; border-radius: 4px; padding: 2px 8px; margin: 2px; font-size: 13px; }
</style>
</head>
<body>
<div class="header">
  <h1>{{if .Doc.Contact.FullName}}{{.Doc.Contact.FullName}}{{else}}Your Name{{end}}</h1>
  <div class="contact">
    {{if .Doc.Contact.Email}}<span>{{.Doc.Contact.Email}}</span>{{end}}
    {{if .Doc.Contact.Phone}}<span>{{.Doc.Contact.Phone}}</span>{{end}}
    {{if .Doc.Contact.Location}}<span>{{.Doc.Contact.Location}}</span>{{end}}
    {{if .Doc.Contact.LinkedIn}}<span>{{.Doc.Contact.LinkedIn}}</span>{{end}}
    {{if .Doc.Contact.Website}}<span>{{.Doc.Contact.Website}}</span>{{end}}
    {{if .Doc.Contact.GitHub}}<span>{{.Doc.Contact.GitHub}}</span>{{end}}
  </div>
</div>
<div class="content">
{{if .Doc.Education}}
  <h2>Education</h2>
  {{range .Doc.Education}}
  <div class="entry">
    <h3>{{.Institution}}</h3>
    <p>{{.Degree}}{{if .Field}} in {{.Field}}{{end}}{{if .GPA}} | GPA: {{.GPA}}{{end}}</p>
    <div class="meta">{{date .StartDate}}{{if .EndDate}} - {{date .EndDate}}{{end}}</div>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
  </div>
  {{end}}
{{end}}
{{if .Doc.Experience}}
  <h2>Experience</h2>
  {{range .Doc.Experience}}
  <div class="entry">
    <h3>{{.Position}}</h3>
    <p>{{.Company}}{{if .Location}}, {{.Location}}{{end}}</p>
    <div class="meta">{{date .StartDate}} - {{expEnd .}}</div>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    {{if .Bullets}}
    <ul>
      {{range .Bullets}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
  </div>
  {{end}}
{{end}}
{{if .Doc.Skills}}
  <h2>Skills</h2>
  <div>
    {{range .Doc.Skills}}<span class="skill">{{.Name}}</span>{{end}}
  </div>
{{end}}
{{if .Doc.Projects}}
  <h2>Projects</h2>
  {{range .Doc.Projects}}
  <div class="entry">
    <h3>{{.Name}}</h3>
    <div class="meta">{{date .StartDate}}{{if .EndDate}} - {{date .EndDate}}{{end}}</div>
    {{if .Description}}<p>{{.Description}}</p>{{end}}
    {{if .Bullets}}
    <ul>
      {{range .Bullets}}<li>{{.}}</li>{{end}}
    </ul>
    {{end}}
    {{if .Link}}<p>{{.Link}}</p>{{end}}
  </div>
  {{end}}
{{end}}
</div>
</body>
</html>
`))

// Render maps the document and its template catalog entry to HTML. Sections
// with empty sequences produce no heading; optional contact fields are
// omitted rather than shown blank.
func Render(doc *entity.ResumeDocument, tpl entity.Template) (string, error) {
	var buf bytes.Buffer
	data := struct {
		Doc    *entity.ResumeDocument
		Tpl    entity.Template
		Styles styles
	}{Doc: doc, Tpl: tpl, Styles: stylesFor(tpl.Category)}
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
