package gmail

import (
	"strings"

	"github.com/teemow/inboxagent/internal/mail"
)

// parseListUnsubscribe parses a List-Unsubscribe header value such as
// "<mailto:unsub@example.com>, <https://example.com/unsub>".
func parseListUnsubscribe(header string) []mail.UnsubscribeMethod {
	var methods []mail.UnsubscribeMethod

	for _, part := range strings.Split(header, "<") {
		part = strings.TrimSpace(part)
		end := strings.Index(part, ">")
		if end == -1 {
			continue
		}

		url := strings.TrimSpace(part[:end])
		switch {
		case strings.HasPrefix(url, "mailto:"):
			methods = append(methods, mail.UnsubscribeMethod{Type: "mailto", URL: url})
		case strings.HasPrefix(url, "http://"), strings.HasPrefix(url, "https://"):
			methods = append(methods, mail.UnsubscribeMethod{Type: "http", URL: url})
		}
	}

	return methods
}
