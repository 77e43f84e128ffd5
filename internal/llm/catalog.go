package llm

import (
	"sort"

	"github.com/teemow/inboxagent/internal/usage"
)

// Tier names a family of interchangeable model variants.
type Tier string

// Known tiers.
const (
	TierGPT4      Tier = "gpt4"
	TierGPT35     Tier = "gpt35"
	TierEmbedding Tier = "embeddings"
)

// Variant is one concrete model with its context capacity and price.
type Variant struct {
	Name      string
	MaxTokens int
	Rate      usage.Rate
	Embedding bool
}

// Catalog maps tiers to their variants. The order of variants within a tier
// is the order used for usage reports.
type Catalog map[Tier][]Variant

// DefaultCatalog returns the built-in model catalog.
func DefaultCatalog() Catalog {
	return Catalog{
		TierGPT4: {
			{Name: "gpt-4-32k", MaxTokens: 32768, Rate: usage.Rate{Input: 0.06, Output: 0.12}},
			{Name: "gpt-4", MaxTokens: 8192, Rate: usage.Rate{Input: 0.03, Output: 0.06}},
		},
		TierGPT35: {
			{Name: "gpt-3.5-turbo-16k", MaxTokens: 16384, Rate: usage.Rate{Input: 0.003, Output: 0.004}},
			{Name: "gpt-3.5-turbo", MaxTokens: 4096, Rate: usage.Rate{Input: 0.0015, Output: 0.002}},
		},
		TierEmbedding: {
			{Name: "text-embedding-ada-002", MaxTokens: 8191, Rate: usage.Rate{Input: 0.0001}, Embedding: true},
		},
	}
}

// tierOrder fixes the report order of the known tiers; unknown tiers follow
// in name order.
var tierOrder = []Tier{TierGPT35, TierGPT4, TierEmbedding}

// Tiers returns the catalog's tiers in report order.
func (c Catalog) Tiers() []Tier {
	seen := make(map[Tier]bool, len(c))
	out := make([]Tier, 0, len(c))
	for _, t := range tierOrder {
		if _, ok := c[t]; ok {
			out = append(out, t)
			seen[t] = true
		}
	}
	var rest []Tier
	for t := range c {
		if !seen[t] {
			rest = append(rest, t)
		}
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i] < rest[j] })
	return append(out, rest...)
}

// LedgerEntries returns one ledger entry per variant in report order.
func (c Catalog) LedgerEntries() []usage.Entry {
	var entries []usage.Entry
	for _, t := range c.Tiers() {
		for _, v := range c[t] {
			entries = append(entries, usage.Entry{Model: v.Name, Embedding: v.Embedding, Rate: v.Rate})
		}
	}
	return entries
}

// NewLedger returns a zeroed ledger covering every variant of the catalog.
func (c Catalog) NewLedger() *usage.Ledger {
	return usage.NewLedger(c.LedgerEntries()...)
}

// Lookup finds a variant by name.
func (c Catalog) Lookup(name string) (Variant, bool) {
	for _, vs := range c {
		for _, v := range vs {
			if v.Name == name {
				return v, true
			}
		}
	}
	return Variant{}, false
}
