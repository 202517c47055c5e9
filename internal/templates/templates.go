package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// ServiceTemplate is the skeleton every generated class is wrapped in.
// Body is already indented and ends with a newline when not empty.
const ServiceTemplate = `{{.Header}}
{{range .Usings}}using {{.}};
{{end}}
namespace {{.Namespace}};

/// <inheritdoc cref="{{.Interface}}"/>
public {{if .Partial}}partial {{end}}class {{.ClassName}} : {{.Interface}} {

{{.Body}}}
`

// ServiceTemplateData holds the values substituted into ServiceTemplate
type ServiceTemplateData struct {
	Header    string
	Usings    []string
	Namespace string
	Interface string
	ClassName string
	Partial   bool
	Body      string
}

var serviceTemplate = template.Must(template.New("service").Parse(ServiceTemplate))

// GenerateService renders a complete generated class file
func GenerateService(data ServiceTemplateData) (string, error) {
	if data.Header == "" {
		data.Header = FileHeader
	}

	var buf bytes.Buffer
	if err := serviceTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template service: %w", err)
	}
	return buf.String(), nil
}

// ConvertNewlines rewrites LF line endings to newline
func ConvertNewlines(content, newline string) string {
	if newline == "" || newline == "\n" {
		return content
	}
	return strings.ReplaceAll(content, "\n", newline)
}
