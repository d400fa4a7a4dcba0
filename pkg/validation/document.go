package validation

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/resumeforge/resumeforge/internal/domain/entity"
)

//go:embed resume.schema.json
var resumeSchema []byte

// DocumentError carries the individual schema violations of a rejected
// document.
type DocumentError struct {
	Violations []string
}

func (e *DocumentError) Error() string {
	return "document schema validation failed: " + strings.Join(e.Violations, "; ")
}

func (e *DocumentError) Details() []string { return e.Violations }

// ValidateDocument checks a resume document against the JSON schema before
// it is handed to persistence. Structural problems here indicate a
// programming error upstream, not user input.
func ValidateDocument(doc *entity.ResumeDocument) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(resumeSchema),
		gojsonschema.NewBytesLoader(b),
	)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return &DocumentError{Violations: msgs}
}
