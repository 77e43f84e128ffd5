package campaign

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Invitation is an interview invitation letter.
type Invitation struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// Nomination is a business recommended by a respondent to be featured next.
type Nomination struct {
	BusinessName string      `json:"nominated_business_name"`
	Location     string      `json:"nominated_business_location"`
	Person       string      `json:"nominated_business_person"`
	Link         string      `json:"nominated_business_link"`
	Invitation   *Invitation `json:"email_template,omitempty"`
	// Skipped holds the reason enrichment did not run for this nomination.
	Skipped string `json:"skipped,omitempty"`
}

// Empty reports whether every extracted field is blank.
func (n Nomination) Empty() bool {
	return n.BusinessName == "" && n.Location == "" && n.Person == "" && n.Link == ""
}

// HasLink reports whether the nomination carries an absolute URL.
func (n Nomination) HasLink() bool {
	return strings.Contains(n.Link, "http")
}

// Nominations is an ordered list of nominations.
type Nominations []Nomination

// Any reports whether at least one nomination has a non-empty field.
func (ns Nominations) Any() bool {
	for _, n := range ns {
		if !n.Empty() {
			return true
		}
	}
	return false
}

// Named returns the nominations that carry a business name.
func (ns Nominations) Named() Nominations {
	var out Nominations
	for _, n := range ns {
		if n.BusinessName != "" {
			out = append(out, n)
		}
	}
	return out
}

// JSON renders the nominations as an indented JSON array.
func (ns Nominations) JSON() string {
	if ns == nil {
		ns = Nominations{}
	}
	b, err := json.MarshalIndent(ns, "", "  ")
	if err != nil {
		return "[]"
	}
	return string(b)
}

// nominationWire is the shape the model fills in. The email_template slot is
// left empty by the model and is ignored.
type nominationWire struct {
	BusinessName  string          `json:"nominated_business_name"`
	Location      string          `json:"nominated_business_location"`
	Person        string          `json:"nominated_business_person"`
	Link          string          `json:"nominated_business_link"`
	EmailTemplate json.RawMessage `json:"email_template"`
}

func (w nominationWire) nomination() Nomination {
	return Nomination{
		BusinessName: strings.TrimSpace(w.BusinessName),
		Location:     strings.TrimSpace(w.Location),
		Person:       strings.TrimSpace(w.Person),
		Link:         strings.TrimSpace(w.Link),
	}
}

// ParseNominations decodes the index-keyed object {"0": {...}, "1": {...}}
// returned by the model. Entries are ordered by numeric key; keys that are
// not numbers sort after the numbered ones. An empty object yields no
// nominations. A JSON array of the same records is accepted too.
func ParseNominations(raw string) (Nominations, error) {
	raw = TrimFences(raw)
	if raw == "" {
		return nil, fmt.Errorf("nominations: %w", ErrEmptyResponse)
	}

	if !isObject([]byte(raw)) {
		var list []nominationWire
		if err := DecodeStrict(raw, &list); err != nil {
			return nil, fmt.Errorf("nominations: %w", err)
		}
		out := make(Nominations, 0, len(list))
		for _, w := range list {
			out = append(out, w.nomination())
		}
		return out, nil
	}

	var keyed map[string]json.RawMessage
	if err := DecodeStrict(raw, &keyed); err != nil {
		return nil, fmt.Errorf("nominations: %w", err)
	}

	keys := make([]string, 0, len(keyed))
	for k := range keyed {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.Atoi(keys[i])
		b, berr := strconv.Atoi(keys[j])
		switch {
		case aerr == nil && berr == nil:
			return a < b
		case aerr == nil:
			return true
		case berr == nil:
			return false
		default:
			return keys[i] < keys[j]
		}
	})

	out := make(Nominations, 0, len(keys))
	for _, k := range keys {
		var w nominationWire
		if err := DecodeStrict(string(keyed[k]), &w); err != nil {
			return nil, fmt.Errorf("nominations[%s]: %w", k, err)
		}
		out = append(out, w.nomination())
	}
	return out, nil
}
