package gmail

import (
	"encoding/base64"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxagent/internal/mail"
)

// toEmail maps a full Gmail message. The Message-ID header is the email id;
// the Gmail id is kept as UID for archiving.
func (c *Client) toEmail(msg *gmail.Message) mail.Email {
	id := HeaderValue(msg, "Message-ID")
	if id == "" {
		id = msg.Id
	}

	text, _ := body(msg.Payload, "text/plain")
	htmlBody, _ := body(msg.Payload, "text/html")
	if strings.TrimSpace(text) == "" && htmlBody != "" {
		text = mail.HTMLToText(htmlBody)
	}

	e := mail.Email{
		ID:  id,
		UID: msg.Id,
		Headers: mail.Headers{
			From:    HeaderValue(msg, "From"),
			To:      HeaderValue(msg, "To"),
			Date:    HeaderValue(msg, "Date"),
			Subject: HeaderValue(msg, "Subject"),
		},
		Text:        c.cleaner.Clean(text),
		HTML:        htmlBody,
		Unsubscribe: parseListUnsubscribe(HeaderValue(msg, "List-Unsubscribe")),
	}
	if quoted := mail.QuotedHeaders(text); quoted != (mail.Headers{}) {
		e.Original = &quoted
	}
	return e
}

// HeaderValue extracts a header value from a Gmail message. Header names are
// matched case-insensitively.
func HeaderValue(m *gmail.Message, header string) string {
	if m == nil || m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, header) {
			return h.Value
		}
	}
	return ""
}

// body returns the first decoded part with the given MIME type.
func body(payload *gmail.MessagePart, mimeType string) (string, error) {
	var data string
	walkParts(payload, func(part *gmail.MessagePart) {
		if data == "" && part.Filename == "" && part.MimeType == mimeType && part.Body != nil && part.Body.Data != "" {
			data = part.Body.Data
		}
	})
	if data == "" {
		return "", fmt.Errorf("no %s body found", mimeType)
	}
	decoded, err := decodeData(data)
	if err != nil {
		return "", fmt.Errorf("failed to decode message body: %w", err)
	}
	return string(decoded), nil
}

// walkParts visits part and its descendants depth-first.
func walkParts(part *gmail.MessagePart, fn func(*gmail.MessagePart)) {
	if part == nil {
		return
	}
	fn(part)
	for _, sub := range part.Parts {
		walkParts(sub, fn)
	}
}

// decodeData decodes Gmail's base64url payloads, tolerating padding and the
// standard alphabet.
func decodeData(s string) ([]byte, error) {
	if b, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(s, "=")); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
