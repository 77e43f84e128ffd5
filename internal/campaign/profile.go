package campaign

import (
	"encoding/json"

	"github.com/teemow/inboxagent/internal/mail"
)

// Profile is the merged record built from an Answers email. It is the input
// of the article generator.
type Profile struct {
	QA              []QA            `json:"qa"`
	Keywords        string          `json:"keywords"`
	Details         BusinessDetails `json:"businessDetails"`
	Nominations     Nominations     `json:"nominations"`
	OriginalMessage mail.Headers    `json:"originalMessage"`
}

// AnsweredCount returns the number of answered questions.
func (p Profile) AnsweredCount() int {
	return AnsweredCount(p.QA)
}

// JSON renders the profile as indented JSON.
func (p Profile) JSON() string {
	if p.Nominations == nil {
		p.Nominations = Nominations{}
	}
	b, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(b)
}
