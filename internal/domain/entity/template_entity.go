package entity

// TemplateCategory drives the visual treatment of a rendered resume.
type TemplateCategory string

const (
	CategorySTEM       TemplateCategory = "STEM"
	CategoryBusiness   TemplateCategory = "Business"
	CategoryHumanities TemplateCategory = "Humanities"
)

// Template is one entry of the visual template catalog.
type Template struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category TemplateCategory `json:"category"`
	Preview  string           `json:"preview"`
}

// Templates is the built-in catalog. IDs are stable and referenced by
// ResumeDocument.TemplateID.
var Templates = []Template{
	{ID: "stem-modern", Name: "Modern STEM", Category: CategorySTEM, Preview: "/previews/stem-modern.jpg"},
	{ID: "stem-technical", Name: "Technical STEM", Category: CategorySTEM, Preview: "/previews/stem-technical.jpg"},
	{ID: "business-professional", Name: "Professional Business", Category: CategoryBusiness, Preview: "/previews/business-professional.jpg"},
	{ID: "business-executive", Name: "Executive Business", Category: CategoryBusiness, Preview: "/previews/business-executive.jpg"},
	{ID: "humanities-creative", Name: "Creative Humanities", Category: CategoryHumanities, Preview: "/previews/humanities-creative.jpg"},
	{ID: "humanities-academic", Name: "Academic Humanities", Category: CategoryHumanities, Preview: "/previews/humanities-academic.jpg"},
}

// TemplateByID looks up a catalog entry. Unknown ids fall back to the first
// STEM template so a document with a stale reference still renders.
func TemplateByID(id string) Template {
	for _, t := range Templates {
		if t.ID == id {
			return t
		}
	}
	return Templates[0]
}
