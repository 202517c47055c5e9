package annotations

import (
	"sync"

	"github.com/toyz/dudgen/internal/utils"
)

// MarkerRegistry decides which attribute names mark a class for generation
type MarkerRegistry interface {
	// Register adds a marker; every spelling of it becomes a match
	Register(marker Marker) error

	// IsMarked reports whether an attribute name matches any marker
	IsMarked(attributeName string) bool

	// Match returns the marker an attribute name resolves to
	Match(attributeName string) (Marker, bool)

	// Markers returns the registered markers in registration order
	Markers() []Marker
}

// registry is the concrete implementation of MarkerRegistry
type registry struct {
	markers   *utils.BaseRegistry[string, Marker] // keyed by qualified name
	spellings *utils.BaseRegistry[string, Marker] // keyed by accepted spelling
}

// NewRegistry creates an empty marker registry
func NewRegistry() MarkerRegistry {
	markers := utils.NewBaseRegistry[string, Marker]("marker")
	markers.SetValidator(utils.NotEmptyKeyValidator[Marker]("marker"))

	return &registry{
		markers:   markers,
		spellings: utils.NewBaseRegistry[string, Marker]("marker spelling"),
	}
}

// NewDefaultRegistry creates a registry holding ProxyService declared in namespace
func NewDefaultRegistry(namespace string) MarkerRegistry {
	r := NewRegistry()
	_ = r.Register(Marker{Name: ProxyServiceMarker, Namespace: namespace})
	return r
}

var (
	defaultRegistry     MarkerRegistry
	defaultRegistryOnce sync.Once
)

// DefaultRegistry returns the global registry matching DudNet.Attributes.ProxyService
func DefaultRegistry() MarkerRegistry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewDefaultRegistry(DefaultNamespace)
	})
	return defaultRegistry
}

// Register adds a marker to the registry
func (r *registry) Register(marker Marker) error {
	if err := r.markers.Register(marker.String(), marker); err != nil {
		return err
	}
	for _, spelling := range marker.Spellings() {
		if err := r.spellings.Register(spelling, marker); err != nil {
			return err
		}
	}
	return nil
}

// IsMarked reports whether an attribute name matches any marker
func (r *registry) IsMarked(attributeName string) bool {
	_, ok := r.Match(attributeName)
	return ok
}

// Match returns the marker an attribute name resolves to
func (r *registry) Match(attributeName string) (Marker, bool) {
	return r.spellings.Get(NormalizeAttributeName(attributeName))
}

// Markers returns the registered markers in registration order
func (r *registry) Markers() []Marker {
	keys := r.markers.List()
	markers := make([]Marker, 0, len(keys))
	for _, key := range keys {
		if marker, ok := r.markers.Get(key); ok {
			markers = append(markers, marker)
		}
	}
	return markers
}

// RegisterNames parses and registers each name as a marker
func RegisterNames(r MarkerRegistry, names ...string) error {
	for _, name := range names {
		marker, err := NewMarker(name)
		if err != nil {
			return err
		}
		if err := r.Register(marker); err != nil {
			return err
		}
	}
	return nil
}
