package mail

import (
	"regexp"
	"strings"
)

// Cleaner strips quoting, signature noise and blank lines from email bodies
// before they reach a model.
type Cleaner struct {
	// NoiseMarkers drop any <...> or [...] span containing one of them,
	// compared case-insensitively. Mail clients render inline images and
	// tracking links this way.
	NoiseMarkers []string
	// Boilerplate lines, such as the mailbox owner's signature, are removed
	// verbatim.
	Boilerplate []string
}

// DefaultCleaner removes inline images and map links.
var DefaultCleaner = Cleaner{
	NoiseMarkers: []string{"maps.google.com", "image", "zohoinsights"},
}

var (
	bracketed   = regexp.MustCompile(`<[^>]*>|\[[^\]]*\]`)
	quotedLine  = regexp.MustCompile(`(?m)^>.*(\r?\n|$)`)
	blankLine   = regexp.MustCompile(`(?m)^[ \t]*\r?\n`)
	trailingEOL = regexp.MustCompile(`\s+$`)
)

// Clean returns text without quoted lines, noise spans, boilerplate and
// empty lines.
func (c Cleaner) Clean(text string) string {
	markers := make([]string, 0, len(c.NoiseMarkers))
	for _, m := range c.NoiseMarkers {
		if m = strings.ToLower(strings.TrimSpace(m)); m != "" {
			markers = append(markers, m)
		}
	}

	text = bracketed.ReplaceAllStringFunc(text, func(span string) string {
		lower := strings.ToLower(span)
		for _, m := range markers {
			if strings.Contains(lower, m) {
				return ""
			}
		}
		return span
	})

	for _, b := range c.Boilerplate {
		if b != "" {
			text = strings.ReplaceAll(text, b, "")
		}
	}

	text = quotedLine.ReplaceAllString(text, "")
	text = blankLine.ReplaceAllString(text, "")
	return trailingEOL.ReplaceAllString(text, "")
}

var (
	quotedFrom    = regexp.MustCompile(`(?m)^>?\s*From: (.*?)\r?$`)
	quotedTo      = regexp.MustCompile(`(?m)^>?\s*To: (.*?)\r?$`)
	quotedDate    = regexp.MustCompile(`(?m)^>?\s*(?:Date|Sent): (.*?)\r?$`)
	quotedSubject = regexp.MustCompile(`(?m)^>?\s*Subject: (.*?)\r?$`)
)

// QuotedHeaders extracts the From, To, Date and Subject lines of the first
// quoted or forwarded message in text. Missing fields are empty.
func QuotedHeaders(text string) Headers {
	find := func(re *regexp.Regexp) string {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1])
		}
		return ""
	}
	return Headers{
		From:    find(quotedFrom),
		To:      find(quotedTo),
		Date:    find(quotedDate),
		Subject: find(quotedSubject),
	}
}
