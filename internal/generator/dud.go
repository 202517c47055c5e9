package generator

import (
	"fmt"

	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/utils"
)

// GenerateDudBody writes the body of an inert class: getters and methods
// return the default of their type, setters and void methods do nothing.
func GenerateDudBody(b *utils.IndentedBuilder, model models.MemberModel, _ string) error {
	for _, property := range model.Properties {
		if err := writeDudProperty(b, property); err != nil {
			return err
		}
	}

	for _, method := range model.Methods {
		declaration, err := RenderDeclaration(method)
		if err != nil {
			return err
		}
		writeDudMember(b, declaration, method)
	}

	return nil
}

func writeDudProperty(b *utils.IndentedBuilder, property models.PropertyGroup) error {
	header, err := RenderPropertyDeclaration(property)
	if err != nil {
		return err
	}

	var bodyErr error
	b.Line(header + " {").Indented(func(sb *utils.IndentedBuilder) {
		for _, accessor := range property.Accessors() {
			declaration, err := RenderDeclaration(accessor)
			if err != nil {
				bodyErr = err
				return
			}
			writeDudMember(sb, declaration, accessor)
		}
	}).Line("}").Newline()

	return bodyErr
}

func writeDudMember(b *utils.IndentedBuilder, declaration string, member models.MemberDescriptor) {
	if member.ReturnsVoid {
		b.Line(declaration + " {}").Newline()
		return
	}

	b.Line(declaration + " {").Indented(func(sb *utils.IndentedBuilder) {
		sb.Line(defaultValue(member.ReturnType))
	}).Line("}").Newline()
}

func defaultValue(typeName string) string {
	return fmt.Sprintf("return (%s) default;", typeName)
}
