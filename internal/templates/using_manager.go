package templates

import (
	"fmt"
	"strings"
)

// UsingManager collects using directives, de-duplicated in first-added order
type UsingManager struct {
	module string
	seen   map[string]bool
	usings []string
}

// NewUsingManager creates a new using manager
func NewUsingManager() *UsingManager {
	return &UsingManager{
		seen:   make(map[string]bool),
		usings: make([]string, 0),
	}
}

// SetModule sets the namespace the generated file is declared in
func (um *UsingManager) SetModule(module string) {
	um.module = module
}

// Add adds using directives. Each may be written with or without the
// "using" keyword and trailing semicolon.
func (um *UsingManager) Add(usings ...string) {
	for _, u := range usings {
		normalized := NormalizeUsing(u)
		if normalized == "" || um.seen[normalized] {
			continue
		}
		um.seen[normalized] = true
		um.usings = append(um.usings, normalized)
	}
}

// AddNamespace imports a namespace unless it is the module's own namespace
func (um *UsingManager) AddNamespace(namespace string) {
	if namespace == "" || namespace == um.module {
		return
	}
	um.Add(namespace)
}

// Usings returns the collected directives without keyword or semicolon
func (um *UsingManager) Usings() []string {
	result := make([]string, len(um.usings))
	copy(result, um.usings)
	return result
}

// Generate renders the using block, one directive per line
func (um *UsingManager) Generate() string {
	var builder strings.Builder
	for _, u := range um.usings {
		builder.WriteString(fmt.Sprintf("using %s;\n", u))
	}
	return builder.String()
}

// NormalizeUsing strips the using and global keywords, the trailing semicolon
// and redundant whitespace from a directive.
func NormalizeUsing(directive string) string {
	fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(directive), ";"))
	if len(fields) > 0 && fields[0] == "global" {
		fields = fields[1:]
	}
	if len(fields) > 0 && fields[0] == "using" {
		fields = fields[1:]
	}
	return strings.Join(fields, " ")
}
