package usage

import (
	"fmt"
	"strings"
	"sync"
)

// Rate is the price of a model variant in dollars per 1000 tokens.
// Embedding variants only charge Input.
type Rate struct {
	Input  float64
	Output float64
}

// Entry is the running usage of one model variant.
type Entry struct {
	Model        string
	Embedding    bool
	Rate         Rate
	InputTokens  int64
	OutputTokens int64
	InputCost    float64
	OutputCost   float64
	TotalCost    float64
}

// TotalTokens returns input plus output tokens.
func (e Entry) TotalTokens() int64 {
	return e.InputTokens + e.OutputTokens
}

func (e Entry) active() bool {
	return e.InputTokens != 0 || e.OutputTokens != 0
}

func (e *Entry) recompute() {
	if e.Embedding {
		e.InputCost = float64(e.TotalTokens()) * e.Rate.Input / 1000
		e.OutputCost = 0
		e.TotalCost = e.InputCost
		return
	}
	e.InputCost = float64(e.InputTokens) * e.Rate.Input / 1000
	e.OutputCost = float64(e.OutputTokens) * e.Rate.Output / 1000
	e.TotalCost = e.InputCost + e.OutputCost
}

func (e *Entry) zero() {
	e.InputTokens = 0
	e.OutputTokens = 0
	e.InputCost = 0
	e.OutputCost = 0
	e.TotalCost = 0
}

// Ledger is a set of per-variant usage counters. It is safe for concurrent use.
type Ledger struct {
	mu      sync.Mutex
	entries []Entry
	index   map[string]int
}

// NewLedger creates a ledger with one zeroed entry per variant, in the given
// order. Only Model, Embedding and Rate of each entry are used.
func NewLedger(variants ...Entry) *Ledger {
	l := &Ledger{index: make(map[string]int, len(variants))}
	for _, v := range variants {
		if _, dup := l.index[v.Model]; dup {
			continue
		}
		v.zero()
		l.index[v.Model] = len(l.entries)
		l.entries = append(l.entries, v)
	}
	return l
}

// Record adds usage for model and recomputes its cost from the running totals.
// Usage of a model that is not in the ledger is rejected.
func (l *Ledger) Record(model string, inputTokens, outputTokens int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i, ok := l.index[model]
	if !ok {
		return fmt.Errorf("unknown model %q", model)
	}
	e := &l.entries[i]
	e.InputTokens += inputTokens
	if !e.Embedding {
		e.OutputTokens += outputTokens
	}
	e.recompute()
	return nil
}

// Reset zeroes every numeric field of every entry.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		l.entries[i].zero()
	}
}

// Snapshot returns a copy of the current entries.
func (l *Ledger) Snapshot() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// TotalCost returns the summed cost across all entries.
func (l *Ledger) TotalCost() float64 {
	var total float64
	for _, e := range l.Snapshot() {
		total += e.TotalCost
	}
	return total
}

// Report renders one line per entry with activity, followed by the grand total.
func (l *Ledger) Report() string {
	var (
		b     strings.Builder
		total float64
	)
	for _, e := range l.Snapshot() {
		total += e.TotalCost
		if !e.active() {
			continue
		}
		if e.Embedding {
			fmt.Fprintf(&b, "Model: %s, Total Tokens: %d, Cost: $%.6f\n",
				e.Model, e.TotalTokens(), e.TotalCost)
			continue
		}
		fmt.Fprintf(&b, "Model: %s, Input Tokens: %d, Input Tokens Cost: $%.6f, Output Tokens: %d, Output Tokens Cost: $%.6f, Total Cost: $%.6f\n",
			e.Model, e.InputTokens, e.InputCost, e.OutputTokens, e.OutputCost, e.TotalCost)
	}
	fmt.Fprintf(&b, "Total Cost of all models: $%.6f", total)
	return b.String()
}

// Track runs fn and resets the ledger when fn returns, whether it succeeded,
// failed or panicked. Anything that needs the usage of fn must capture it
// (via Report or Snapshot) inside fn.
func (l *Ledger) Track(fn func() error) error {
	defer l.Reset()
	return fn()
}
