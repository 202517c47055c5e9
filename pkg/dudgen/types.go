package dudgen

import (
	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/parser"
)

// Re-exported model types so callers can build candidates without reaching
// into internal packages.
type (
	Candidate         = models.Candidate
	TargetMetadata    = models.TargetMetadata
	MemberDescriptor  = models.MemberDescriptor
	Parameter         = models.Parameter
	Accessibility     = models.Accessibility
	GeneratedArtifact = models.GeneratedArtifact
	Notice            = parser.Notice
)

// Accessibilities a generated member may carry
const (
	Public    = models.Public
	Internal  = models.Internal
	Protected = models.Protected
)

// Method describes an ordinary interface method. A "void" return type marks
// the method as returning nothing.
func Method(name, returnType string, params ...Parameter) MemberDescriptor {
	return models.NewMethod(name, returnType, params...)
}

// Property describes a property as its getter and setter descriptors
func Property(name, valueType string, get, set bool) []MemberDescriptor {
	var members []MemberDescriptor
	if get {
		members = append(members, models.NewGetter(name, valueType, models.Public))
	}
	if set {
		members = append(members, models.NewSetter(name, valueType, models.Public))
	}
	return members
}
