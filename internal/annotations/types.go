package annotations

import (
	"fmt"
	"strings"
)

// AttributeSuffix is the conventional suffix C# allows callers to omit
const AttributeSuffix = "Attribute"

// DefaultNamespace is the namespace declaring the built-in marker attribute
const DefaultNamespace = "DudNet.Attributes"

// ProxyServiceMarker is the attribute that selects a class for generation
const ProxyServiceMarker = "ProxyService"

// Marker describes one attribute that marks a class as a candidate
type Marker struct {
	Name      string // short name without the Attribute suffix
	Namespace string // declaring namespace, may be empty
}

// NewMarker parses a marker from either a short or a namespace-qualified name.
// A trailing Attribute suffix is dropped.
func NewMarker(name string) (Marker, error) {
	name = strings.TrimSpace(strings.TrimPrefix(name, "global::"))
	if name == "" {
		return Marker{}, fmt.Errorf("marker name cannot be empty")
	}

	var namespace string
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		namespace, name = name[:idx], name[idx+1:]
	}
	name = trimAttributeSuffix(name)
	if name == "" {
		return Marker{}, fmt.Errorf("marker name cannot be empty")
	}

	return Marker{Name: name, Namespace: namespace}, nil
}

// Spellings returns every attribute name under which the marker may appear
func (m Marker) Spellings() []string {
	names := []string{m.Name, m.Name + AttributeSuffix}
	if m.Namespace != "" {
		names = append(names,
			m.Namespace+"."+m.Name,
			m.Namespace+"."+m.Name+AttributeSuffix,
		)
	}
	return names
}

// String returns the qualified marker name
func (m Marker) String() string {
	if m.Namespace == "" {
		return m.Name
	}
	return m.Namespace + "." + m.Name
}

// NormalizeAttributeName strips the global:: alias and surrounding whitespace
func NormalizeAttributeName(name string) string {
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "global::"))
}

func trimAttributeSuffix(name string) string {
	if name != AttributeSuffix && strings.HasSuffix(name, AttributeSuffix) {
		return strings.TrimSuffix(name, AttributeSuffix)
	}
	return name
}
