package generator

import (
	"strings"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

// RenderDeclaration renders the signature of a member, without body.
// Accessors render only their get/set keyword because the enclosing
// property block carries the name, type and accessibility.
func RenderDeclaration(member models.MemberDescriptor) (string, error) {
	switch member.Kind {
	case models.PropertyGetter:
		return "get", nil
	case models.PropertySetter:
		return "set", nil
	}

	access, err := renderAccessibility(member)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(access)
	sb.WriteByte(' ')
	if member.IsStatic {
		sb.WriteString("static ")
	}
	sb.WriteString(member.ReturnType)
	sb.WriteByte(' ')
	sb.WriteString(member.Name)
	sb.WriteString(RenderTypeParameters(member.TypeParameters))
	sb.WriteByte('(')
	sb.WriteString(RenderParameters(member.Parameters))
	sb.WriteByte(')')
	sb.WriteString(RenderConstraints(member.Constraints))
	return sb.String(), nil
}

// RenderPropertyDeclaration renders a property header such as "public int Id".
// Accessibility comes from the first present accessor.
func RenderPropertyDeclaration(property models.PropertyGroup) (string, error) {
	accessors := property.Accessors()
	if len(accessors) == 0 {
		return "", errors.NewValidationError(property.Name, "property has no accessors")
	}

	first := accessors[0]
	access, err := renderAccessibility(first)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(access)
	sb.WriteByte(' ')
	if first.IsStatic {
		sb.WriteString("static ")
	}
	sb.WriteString(property.Type)
	sb.WriteByte(' ')
	sb.WriteString(property.Name)
	return sb.String(), nil
}

// RenderParameters renders a comma-joined "type name" list, keeping modifiers
func RenderParameters(params []models.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		if p.Modifier != "" {
			parts[i] = p.Modifier + " " + p.Type + " " + p.Name
		} else {
			parts[i] = p.Type + " " + p.Name
		}
	}
	return strings.Join(parts, ", ")
}

// RenderArguments renders the positional argument list forwarding params.
// ref and in are repeated at the call site; params is not.
func RenderArguments(params []models.Parameter) string {
	parts := make([]string, len(params))
	for i, p := range params {
		switch p.Modifier {
		case "ref", "in":
			parts[i] = p.Modifier + " " + p.Name
		default:
			parts[i] = p.Name
		}
	}
	return strings.Join(parts, ", ")
}

// RenderTypeParameters renders "<T, U>", or nothing for non-generic members
func RenderTypeParameters(typeParams []string) string {
	if len(typeParams) == 0 {
		return ""
	}
	return "<" + strings.Join(typeParams, ", ") + ">"
}

// RenderConstraints renders " where T : class where U : new()"
func RenderConstraints(constraints []string) string {
	var sb strings.Builder
	for _, c := range constraints {
		sb.WriteString(" where ")
		sb.WriteString(c)
	}
	return sb.String()
}

func renderAccessibility(member models.MemberDescriptor) (string, error) {
	switch member.Accessibility {
	case models.Internal, models.Public, models.Protected:
		return member.Accessibility.String(), nil
	default:
		return "", errors.NewAccessibilityError(member.Name, member.Accessibility.String())
	}
}
