package generator

import (
	"fmt"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/utils"
)

// Names used in generated proxies
const (
	ServiceField      = "_service"
	InterceptorName   = "Interceptor"
	InterceptorSuffix = "Interceptor"
	CallerInterceptor = "partial void Interceptor([CallerMemberName]string callerName = null);"
)

// GenerateProxyBody writes the body of a proxy class forwarding every member
// of interfaceName to the held instance through interception hooks.
func GenerateProxyBody(b *utils.IndentedBuilder, model models.MemberModel, interfaceName string) error {
	if err := checkForwardable(model); err != nil {
		return err
	}

	b.Line(fmt.Sprintf("private readonly %s %s;", interfaceName, ServiceField)).Newline()

	for _, property := range model.Properties {
		if err := writeProxyProperty(b, property); err != nil {
			return err
		}
	}

	for _, method := range model.Methods {
		if err := writeProxyMethod(b, method); err != nil {
			return err
		}
	}

	b.Line(CallerInterceptor).Newline()

	b.Block(func(sb *utils.IndentedBuilder) {
		for _, property := range model.Properties {
			for _, accessor := range property.Accessors() {
				sb.Line(hookDeclaration(accessor)).Newline()
			}
		}
		for _, method := range model.Methods {
			sb.Line(hookDeclaration(method)).Newline()
		}
	})

	return nil
}

// checkForwardable rejects static members, which cannot be reached through
// the held instance.
func checkForwardable(model models.MemberModel) error {
	for _, property := range model.Properties {
		for _, accessor := range property.Accessors() {
			if accessor.IsStatic {
				return errors.NewUnsupportedMemberError(accessor.Name, "static members cannot be forwarded to the held instance")
			}
		}
	}
	for _, method := range model.Methods {
		if method.IsStatic {
			return errors.NewUnsupportedMemberError(method.Name, "static members cannot be forwarded to the held instance")
		}
	}
	return nil
}

func writeProxyProperty(b *utils.IndentedBuilder, property models.PropertyGroup) error {
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

			sb.Line(declaration + " {").Indented(func(sb *utils.IndentedBuilder) {
				sb.Line(InterceptorName + "();")
				if accessor.Kind == models.PropertyGetter {
					sb.Line(accessor.Name + InterceptorSuffix + "();")
					sb.Line(fmt.Sprintf("return %s.%s;", ServiceField, property.Name))
				} else {
					sb.Line(accessor.Name + InterceptorSuffix + "(value);")
					sb.Line(fmt.Sprintf("%s.%s = value;", ServiceField, property.Name))
				}
			}).Line("}").Newline()
		}
	}).Line("}").Newline()

	return bodyErr
}

func writeProxyMethod(b *utils.IndentedBuilder, method models.MemberDescriptor) error {
	declaration, err := RenderDeclaration(method)
	if err != nil {
		return err
	}

	typeArgs := RenderTypeParameters(method.TypeParameters)
	args := RenderArguments(method.Parameters)
	returnPrefix := "return "
	if method.ReturnsVoid {
		returnPrefix = ""
	}

	b.Line(declaration + " {").Indented(func(sb *utils.IndentedBuilder) {
		sb.Line(InterceptorName + "();")
		sb.Line(fmt.Sprintf("%s%s%s(%s);", method.Name, InterceptorSuffix, typeArgs, args))
		sb.Line(fmt.Sprintf("%s%s.%s%s(%s);", returnPrefix, ServiceField, method.Name, typeArgs, args))
	}).Line("}").Newline()

	return nil
}

// hookDeclaration renders the bodiless partial hook paired with a member.
// Hooks always return void.
func hookDeclaration(member models.MemberDescriptor) string {
	return fmt.Sprintf("partial void %s%s%s(%s)%s;",
		member.Name,
		InterceptorSuffix,
		RenderTypeParameters(member.TypeParameters),
		RenderParameters(member.Parameters),
		RenderConstraints(member.Constraints),
	)
}
