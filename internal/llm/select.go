package llm

import (
	"errors"
	"sort"
)

// ErrNoVariants is returned when a tier has no variants to choose from.
var ErrNoVariants = errors.New("no model variants available")

// SelectVariant picks the smallest variant whose capacity holds tokens. When
// no variant is large enough it returns the largest one; oversized prompts
// degrade rather than fail. Ties keep the input order.
func SelectVariant(variants []Variant, tokens int) (Variant, error) {
	if len(variants) == 0 {
		return Variant{}, ErrNoVariants
	}

	sorted := make([]Variant, len(variants))
	copy(sorted, variants)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MaxTokens < sorted[j].MaxTokens
	})

	for _, v := range sorted {
		if tokens <= v.MaxTokens {
			return v, nil
		}
	}
	return sorted[len(sorted)-1], nil
}
