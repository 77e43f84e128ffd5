// Package mail defines the email records exchanged between the mailbox,
// the pipeline and the result store.
package mail

import (
	"encoding/json"
	"strings"
)

// Headers holds the envelope fields the pipeline uses.
type Headers struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Date    string `json:"date"`
	Subject string `json:"subject"`
}

// Attachment is a file attached to an email.
type Attachment struct {
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
	Data        []byte `json:"-"`
}

// UnsubscribeMethod is one way of unsubscribing advertised by the sender
// in the List-Unsubscribe header.
type UnsubscribeMethod struct {
	Type string `json:"type"` // "http" or "mailto"
	URL  string `json:"url"`
}

// Email is a fetched message. It is never modified after it has been fetched.
type Email struct {
	// ID is the Message-ID header, or the mailbox id when the header is
	// missing. It is the idempotency and storage key.
	ID string `json:"id"`
	// UID is the mailbox-level id used to archive the message.
	UID     string  `json:"-"`
	Headers Headers `json:"headers"`
	Text    string  `json:"text"`
	// Original holds the headers of the quoted message this one replies
	// to, when the body carries one.
	Original    *Headers     `json:"originalMessage,omitempty"`
	HTML        string       `json:"-"`
	Attachments []Attachment `json:"attachments,omitempty"`
	// Unsubscribe lists the List-Unsubscribe methods. A mailing list
	// offering them says nothing about what the sender asks for.
	Unsubscribe []UnsubscribeMethod `json:"listUnsubscribe,omitempty"`
}

// JSON returns the serialized form used for indexing and prompts: the id,
// headers, cleaned text, attachment metadata and List-Unsubscribe methods.
func (e Email) JSON() string {
	b, err := json.Marshal(e)
	if err != nil {
		// Only strings and ints are marshalled.
		return "{}"
	}
	return string(b)
}

// Raw renders the email in a readable plain-text form for archiving.
func (e Email) Raw() string {
	var b strings.Builder
	b.WriteString("From: " + e.Headers.From + "\n")
	b.WriteString("To: " + e.Headers.To + "\n")
	b.WriteString("Date: " + e.Headers.Date + "\n")
	b.WriteString("Subject: " + e.Headers.Subject + "\n")
	if len(e.Unsubscribe) > 0 {
		urls := make([]string, 0, len(e.Unsubscribe))
		for _, m := range e.Unsubscribe {
			urls = append(urls, "<"+m.URL+">")
		}
		b.WriteString("List-Unsubscribe: " + strings.Join(urls, ", ") + "\n")
	}
	b.WriteString("\n" + e.Text)
	return b.String()
}
