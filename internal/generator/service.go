package generator

import (
	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/models"
	"github.com/toyz/dudgen/internal/templates"
	"github.com/toyz/dudgen/internal/utils"
)

// BodyGenerator writes a class body for a member model into b
type BodyGenerator func(b *utils.IndentedBuilder, model models.MemberModel, interfaceName string) error

// Variant describes one kind of generated class
type Variant struct {
	Name    string   // configuration name, e.g. "proxy"
	Suffix  string   // appended to the target name, e.g. "Proxy"
	Partial bool     // declare the class partial so hooks can be implemented elsewhere
	Usings  []string // usings the variant itself needs, emitted first
	Body    BodyGenerator
}

// ProxyVariant forwards to a held instance through interception hooks
var ProxyVariant = Variant{
	Name:    "proxy",
	Suffix:  "Proxy",
	Partial: true,
	Usings:  []string{"System.Runtime.CompilerServices"},
	Body:    GenerateProxyBody,
}

// DudVariant is the inert null-object implementation
var DudVariant = Variant{
	Name:   "dud",
	Suffix: "Dud",
	Body:   GenerateDudBody,
}

// Format controls the whitespace of assembled files
type Format struct {
	IndentUnit string // defaults to a tab
	Newline    string // defaults to "\n"
}

// Assemble wraps the body produced by variant in the class skeleton and
// returns the finished artifact keyed <Name><Suffix>.
func Assemble(target models.TargetMetadata, model models.MemberModel, variant Variant, format Format) (*models.GeneratedArtifact, error) {
	if err := validateTarget(target); err != nil {
		return nil, err
	}
	if variant.Body == nil {
		return nil, errors.Newf(errors.GenerationErrorCode, "variant '%s' has no body generator", variant.Name)
	}

	className := target.Name + variant.Suffix

	opts := []utils.IndentOption{utils.WithStartingLevel(1)}
	if format.IndentUnit != "" {
		opts = append(opts, utils.WithIndentUnit(format.IndentUnit))
	}
	body := utils.NewIndentedBuilder(opts...)
	if err := variant.Body(body, model, target.Interface); err != nil {
		return nil, errors.Wrapf(errors.CodeOf(err), err, "failed to generate %s", className)
	}

	usings := templates.NewUsingManager()
	usings.SetModule(target.Module)
	usings.Add(variant.Usings...)
	usings.Add(target.Usings...)
	usings.AddNamespace(target.InterfaceNamespace)

	content, err := templates.GenerateService(templates.ServiceTemplateData{
		Usings:    usings.Usings(),
		Namespace: target.Module,
		Interface: target.Interface,
		ClassName: className,
		Partial:   variant.Partial,
		Body:      body.String(),
	})
	if err != nil {
		return nil, errors.Wrap(errors.GenerationErrorCode, "failed to render "+className, err)
	}

	return &models.GeneratedArtifact{
		Key:     className,
		Content: templates.ConvertNewlines(content, format.Newline),
	}, nil
}

func validateTarget(target models.TargetMetadata) error {
	switch {
	case target.Name == "":
		return errors.NewValidationError("name", "target name cannot be empty")
	case target.Interface == "":
		return errors.NewValidationError("interface", "target "+target.Name+" has no governing interface")
	case target.Module == "":
		return errors.NewValidationError("module", "target "+target.Name+" has no module namespace")
	}
	return nil
}
