package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
)

// Reasons recorded for interface members that are not generated
const (
	ReasonEvent         = "events are not supported"
	ReasonField         = "fields are not part of the implementation contract"
	ReasonDefaultBody   = "members with a default implementation are not part of the implementation contract"
	ReasonOutParameter  = "out parameters are not supported"
	ReasonInitAccessor  = "init accessors are not supported"
	ReasonIndexer       = "indexers are not supported"
	ReasonOperator      = "operators are not supported"
	ReasonPropertyValue = "property initializers are not part of the implementation contract"
	ReasonInvalidMember = "member could not be interpreted"
)

const operatorKeyword = "operator"

// converter turns a parsed compilation unit into a SourceFile
type converter struct {
	file *models.SourceFile
}

func convertUnit(path string, unit *CompilationUnit) *models.SourceFile {
	c := &converter{
		file: &models.SourceFile{
			Path:       path,
			Usings:     make([]string, 0),
			Interfaces: make([]models.InterfaceDecl, 0),
			Classes:    make([]models.ClassDecl, 0),
		},
	}

	c.walk(unit.Members, "")

	for i := range c.file.Classes {
		c.file.Classes[i].Usings = append([]string(nil), c.file.Usings...)
	}
	return c.file
}

func (c *converter) walk(members []*NamespaceMember, namespace string) {
	for _, member := range members {
		switch {
		case member.Using != nil:
			c.file.Usings = append(c.file.Usings, joinTokens(member.Using.Parts))
		case member.Namespace != nil:
			name := qualify(namespace, strings.Join(member.Namespace.Name, "."))
			if c.file.Namespace == "" {
				c.file.Namespace = name
			}
			body := member.Namespace.Body
			if body == nil {
				continue
			}
			if body.Block != nil {
				c.walk(body.Block.Members, name)
			} else if body.File != nil {
				c.walk(body.File.Members, name)
			}
		case member.Type != nil:
			c.convertType(member.Type.Attributes, member.Type.Kind, namespace)
		}
	}
}

func (c *converter) convertType(attributes []*AttributeSection, kind *TypeKind, namespace string) {
	if kind == nil {
		return
	}

	switch {
	case kind.Interface != nil:
		c.convertInterface(kind.Interface, namespace)
	case kind.Class != nil:
		c.convertClass(attributes, kind.Class, namespace)
	}
}

func (c *converter) convertClass(attributes []*AttributeSection, decl *ClassDecl, namespace string) {
	class := models.ClassDecl{
		Name:       decl.Name,
		Kind:       decl.Kind,
		Namespace:  namespace,
		Attributes: attributeNames(attributes),
		Bases:      make([]string, 0, len(decl.Bases)),
		Path:       c.file.Path,
		Location:   c.location(decl.Pos),
	}
	for _, base := range decl.Bases {
		class.Bases = append(class.Bases, base.Type.String())
	}
	c.file.Classes = append(c.file.Classes, class)
}

func (c *converter) convertInterface(decl *InterfaceDecl, namespace string) {
	iface := models.InterfaceDecl{
		Name:      decl.Name,
		Namespace: namespace,
		Bases:     make([]string, 0, len(decl.Bases)),
		Members:   make([]models.MemberDescriptor, 0, len(decl.Members)),
		Skipped:   make([]models.SkippedMember, 0),
		Location:  c.location(decl.Pos),
	}
	if decl.TypeParams != nil {
		for _, tp := range decl.TypeParams.Params {
			iface.TypeParameters = append(iface.TypeParameters, tp.Name)
		}
	}
	for _, base := range decl.Bases {
		iface.Bases = append(iface.Bases, base.String())
	}

	for _, member := range decl.Members {
		if member.Decl == nil {
			continue
		}
		if member.Decl.Nested != nil {
			c.convertType(member.Attributes, member.Decl.Nested, qualify(namespace, decl.Name))
			continue
		}
		descriptors, skipped := c.convertMember(member)
		iface.Members = append(iface.Members, descriptors...)
		iface.Skipped = append(iface.Skipped, skipped...)
	}

	c.file.Interfaces = append(c.file.Interfaces, iface)
}

// convertMember returns the descriptors of one interface member, or the
// reason it is not generated.
func (c *converter) convertMember(member *InterfaceMember) ([]models.MemberDescriptor, []models.SkippedMember) {
	loc := c.location(member.Pos)
	skip := func(name, reason string, fatal bool) []models.SkippedMember {
		return []models.SkippedMember{{Name: name, Reason: reason, Fatal: fatal, Location: loc}}
	}

	if member.Decl.Event != nil {
		return nil, skip(strings.Join(member.Decl.Event.Names, ", "), ReasonEvent, false)
	}

	typed := member.Decl.Member
	if typed == nil || typed.Tail == nil {
		return nil, skip("", ReasonInvalidMember, false)
	}

	access := models.ParseAccessibility(member.Modifiers...)
	if access == models.NotApplicable {
		access = models.Public
	}
	isStatic := hasModifier(member.Modifiers, "static")
	typeName := typed.Type.String()
	tail := typed.Tail

	switch {
	case tail.Method != nil:
		if tail.Method.Body.hasBody() {
			return nil, skip(typed.Name, ReasonDefaultBody, false)
		}
		if typeName == operatorKeyword {
			return nil, skip(typed.Name, ReasonOperator, true)
		}
		params, hasOut := convertParams(tail.Method.Params)
		if hasOut {
			return nil, skip(typed.Name, ReasonOutParameter, true)
		}

		method := models.NewMethod(typed.Name, typeName, params...)
		method.Accessibility = access
		method.IsStatic = isStatic
		if tail.Method.TypeParams != nil {
			for _, tp := range tail.Method.TypeParams.Params {
				method.TypeParameters = append(method.TypeParameters, tp.Name)
			}
		}
		for _, constraint := range tail.Method.Constraints {
			method.Constraints = append(method.Constraints, joinTokens(constraint.Parts))
		}
		return []models.MemberDescriptor{method}, nil

	case tail.Property != nil:
		return c.convertProperty(typed.Name, typeName, access, isStatic, tail.Property, loc)

	case tail.Indexer != nil:
		if tail.Indexer.Accessors.hasBody() {
			return nil, skip(typed.Name, ReasonDefaultBody, false)
		}
		return nil, skip(typed.Name, ReasonIndexer, true)

	case tail.Operator != nil:
		if typed.Name != operatorKeyword {
			return nil, skip(typed.Name, ReasonField, false)
		}
		if tail.Operator.Body.hasBody() {
			return nil, skip(typed.Name, ReasonDefaultBody, false)
		}
		return nil, skip(typed.Name+" "+joinTokens(tail.Operator.Symbol), ReasonOperator, true)

	default:
		return nil, skip(typed.Name, ReasonField, false)
	}
}

func (c *converter) convertProperty(name, typeName string, access models.Accessibility, isStatic bool, tail *PropertyTail, loc errors.SourceLocation) ([]models.MemberDescriptor, []models.SkippedMember) {
	skip := func(reason string, fatal bool) []models.SkippedMember {
		return []models.SkippedMember{{Name: name, Reason: reason, Fatal: fatal, Location: loc}}
	}

	if tail.hasBody() {
		return nil, skip(ReasonDefaultBody, false)
	}
	if tail.Accessors == nil {
		return nil, skip(ReasonInvalidMember, false)
	}
	if len(tail.Accessors.Initializer) > 0 {
		return nil, skip(ReasonPropertyValue, false)
	}

	descriptors := make([]models.MemberDescriptor, 0, 2)
	for _, accessor := range tail.Accessors.Accessors {
		accessorAccess := models.ParseAccessibility(accessor.Modifiers...)
		if accessorAccess == models.NotApplicable {
			accessorAccess = access
		}

		var descriptor models.MemberDescriptor
		switch accessor.Kind {
		case "get":
			descriptor = models.NewGetter(name, typeName, accessorAccess)
		case "set":
			descriptor = models.NewSetter(name, typeName, accessorAccess)
		default:
			return nil, skip(ReasonInitAccessor, true)
		}
		descriptor.IsStatic = isStatic
		descriptors = append(descriptors, descriptor)
	}
	return descriptors, nil
}

func convertParams(params []*Param) ([]models.Parameter, bool) {
	result := make([]models.Parameter, 0, len(params))
	for _, p := range params {
		var modifier string
		switch {
		case hasModifier(p.Modifiers, "out"):
			return nil, true
		case hasModifier(p.Modifiers, "ref"):
			modifier = "ref"
		case hasModifier(p.Modifiers, "in"):
			modifier = "in"
		case hasModifier(p.Modifiers, "params"):
			modifier = "params"
		}
		result = append(result, models.Parameter{
			Type:     p.Type.String(),
			Name:     p.Name,
			Modifier: modifier,
		})
	}
	return result, false
}

// hasBody reports whether the member carries an implementation
func (b *MemberBody) hasBody() bool {
	return b != nil && (b.Block != nil || len(b.Expression) > 0)
}

// hasBody reports whether the property or any of its accessors is implemented
func (t *PropertyTail) hasBody() bool {
	if t == nil {
		return false
	}
	if len(t.Expression) > 0 {
		return true
	}
	if t.Accessors == nil {
		return false
	}
	for _, accessor := range t.Accessors.Accessors {
		if accessor.Body.hasBody() {
			return true
		}
	}
	return false
}

func (c *converter) location(pos lexer.Position) errors.SourceLocation {
	return errors.SourceLocation{File: c.file.Path, Line: pos.Line, Column: pos.Column}
}

func attributeNames(sections []*AttributeSection) []string {
	names := make([]string, 0)
	for _, section := range sections {
		for _, attr := range section.Attributes {
			names = append(names, strings.Join(attr.Name, "."))
		}
	}
	return names
}

func hasModifier(modifiers []string, want string) bool {
	for _, m := range modifiers {
		if m == want {
			return true
		}
	}
	return false
}

func qualify(namespace, name string) string {
	if namespace == "" {
		return name
	}
	return namespace + "." + name
}
