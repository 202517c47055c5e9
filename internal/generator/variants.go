package generator

import (
	"strings"

	"github.com/toyz/dudgen/internal/errors"
	"github.com/toyz/dudgen/internal/utils"
)

// VariantRegistry holds the variants that can be selected by name
type VariantRegistry struct {
	*utils.BaseRegistry[string, Variant]
}

// NewVariantRegistry creates a registry holding the proxy and dud variants
func NewVariantRegistry() *VariantRegistry {
	base := utils.NewBaseRegistry[string, Variant]("variant")
	base.SetValidator(utils.ChainValidators(
		utils.NotEmptyKeyValidator[Variant]("variant name"),
		utils.NoDuplicateValidator[string, Variant]("variant"),
	))

	r := &VariantRegistry{BaseRegistry: base}
	_ = r.Register(ProxyVariant.Name, ProxyVariant)
	_ = r.Register(DudVariant.Name, DudVariant)
	return r
}

// Resolve returns the named variants in the given order. Names are matched
// case-insensitively and an empty list selects every registered variant.
func (r *VariantRegistry) Resolve(names []string) ([]Variant, error) {
	if len(names) == 0 {
		names = r.List()
	}

	variants := make([]Variant, 0, len(names))
	seen := make(map[string]bool)
	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if seen[key] {
			continue
		}
		variant, ok := r.Get(key)
		if !ok {
			return nil, errors.NewConfigurationError("variants", name, "must be one of "+strings.Join(r.List(), ", "))
		}
		seen[key] = true
		variants = append(variants, variant)
	}
	return variants, nil
}
