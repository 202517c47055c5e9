package models

import "strings"

// MemberKind distinguishes ordinary methods from property accessors
type MemberKind int

const (
	MethodMember MemberKind = iota
	PropertyGetter
	PropertySetter
)

// String returns the string representation of the member kind
func (k MemberKind) String() string {
	switch k {
	case MethodMember:
		return "method"
	case PropertyGetter:
		return "getter"
	case PropertySetter:
		return "setter"
	default:
		return "unknown"
	}
}

// Accessibility is the declared accessibility of an interface member
type Accessibility int

const (
	NotApplicable Accessibility = iota
	Private
	ProtectedAndInternal
	Protected
	Internal
	ProtectedOrInternal
	Public
)

// String returns the C# spelling of the accessibility
func (a Accessibility) String() string {
	switch a {
	case Private:
		return "private"
	case ProtectedAndInternal:
		return "private protected"
	case Protected:
		return "protected"
	case Internal:
		return "internal"
	case ProtectedOrInternal:
		return "protected internal"
	case Public:
		return "public"
	default:
		return "not applicable"
	}
}

// ParseAccessibility converts a modifier list into an Accessibility
func ParseAccessibility(modifiers ...string) Accessibility {
	has := make(map[string]bool, len(modifiers))
	for _, m := range modifiers {
		has[m] = true
	}

	switch {
	case has["private"] && has["protected"]:
		return ProtectedAndInternal
	case has["protected"] && has["internal"]:
		return ProtectedOrInternal
	case has["private"]:
		return Private
	case has["protected"]:
		return Protected
	case has["internal"]:
		return Internal
	case has["public"]:
		return Public
	default:
		return NotApplicable
	}
}

// Accessor name markers
const (
	GetterPrefix = "get_"
	SetterPrefix = "set_"
	VoidType     = "void"
)

// Parameter represents one method parameter
type Parameter struct {
	Type     string // opaque type name
	Name     string // parameter name
	Modifier string // "", "ref", "in" or "params"
}

// MemberDescriptor describes one interface member
type MemberDescriptor struct {
	Kind           MemberKind
	Name           string // accessor names carry the get_/set_ marker
	ReturnType     string
	Parameters     []Parameter
	IsStatic       bool
	Accessibility  Accessibility
	TypeParameters []string
	Constraints    []string // "T : class" clauses, rendered after the parameter list
	ReturnsVoid    bool
}

// NewMethod creates an ordinary method descriptor
func NewMethod(name, returnType string, params ...Parameter) MemberDescriptor {
	return MemberDescriptor{
		Kind:          MethodMember,
		Name:          name,
		ReturnType:    returnType,
		Parameters:    params,
		Accessibility: Public,
		ReturnsVoid:   returnType == VoidType,
	}
}

// NewGetter creates the getter descriptor of a property
func NewGetter(property, valueType string, access Accessibility) MemberDescriptor {
	return MemberDescriptor{
		Kind:          PropertyGetter,
		Name:          GetterPrefix + property,
		ReturnType:    valueType,
		Accessibility: access,
	}
}

// NewSetter creates the setter descriptor of a property
func NewSetter(property, valueType string, access Accessibility) MemberDescriptor {
	return MemberDescriptor{
		Kind:          PropertySetter,
		Name:          SetterPrefix + property,
		ReturnType:    VoidType,
		Parameters:    []Parameter{{Type: valueType, Name: "value"}},
		Accessibility: access,
		ReturnsVoid:   true,
	}
}

// IsAccessor reports whether the member is a property getter or setter
func (m MemberDescriptor) IsAccessor() bool {
	return m.Kind == PropertyGetter || m.Kind == PropertySetter
}

// IsGeneric reports whether the member declares type parameters
func (m MemberDescriptor) IsGeneric() bool {
	return len(m.TypeParameters) > 0
}

// PropertyName returns the owning property name of an accessor.
// Non-accessors return their own name.
func (m MemberDescriptor) PropertyName() string {
	switch m.Kind {
	case PropertyGetter:
		return strings.TrimPrefix(m.Name, GetterPrefix)
	case PropertySetter:
		return strings.TrimPrefix(m.Name, SetterPrefix)
	default:
		return m.Name
	}
}

// ValueType returns the property value type of an accessor
func (m MemberDescriptor) ValueType() string {
	if m.Kind == PropertySetter {
		if len(m.Parameters) > 0 {
			return m.Parameters[0].Type
		}
		return ""
	}
	return m.ReturnType
}

// Signature identifies a member for de-duplication across inherited interfaces
func (m MemberDescriptor) Signature() string {
	var sb strings.Builder
	sb.WriteString(m.Name)
	sb.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(p.Type)
	}
	sb.WriteByte(')')
	return sb.String()
}
