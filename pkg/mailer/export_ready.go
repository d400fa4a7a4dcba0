package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

var exportReadyTemplate = template.Must(template.New("export_ready").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Helvetica, Arial, sans-serif; color: #1f2937;">
  <h2>Your resume export is ready</h2>
  <p>Hi {{.Name}},</p>
  <p>Your resume has been exported as {{.Format}} and is ready to download:</p>
  <p><a href="{{.URL}}">Download your resume</a></p>
  <p>If you did not request this export, you can ignore this email.</p>
</body>
</html>
`))

// RenderExportReady renders the export-completion notification. Returns
// subject, plain-text body, and HTML body.
func RenderExportReady(name, format, url string) (string, string, string, error) {
	var buf bytes.Buffer
	data := struct {
		Name   string
		Format string
		URL    string
	}{Name: name, Format: strings.ToUpper(format), URL: url}
	if err := exportReadyTemplate.Execute(&buf, data); err != nil {
		return "", "", "", err
	}
	subject := "Your resume export is ready"
	text := fmt.Sprintf("Your resume has been exported as %s. Download it here: %s", data.Format, url)
	return subject, text, buf.String(), nil
}
