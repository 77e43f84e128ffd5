package pipeline

import "github.com/teemow/inboxagent/internal/campaign"

// Category is a classification label.
type Category string

// The categories an email can be classified into.
const (
	CategoryAnswers        Category = "Answers"
	CategoryNominations    Category = "Nominations"
	CategoryQuestions      Category = "Questions"
	CategoryUnsubscribe    Category = "Unsubscribe request"
	CategoryAcknowledgment Category = "Acknowledgment"
	CategoryConfirmation   Category = "Confirmation"
	CategoryDecline        Category = "Decline to Participate"
	CategorySpam           Category = "Spam or Promotion"
)

// Categories lists every category in priority order.
var Categories = []Category{
	CategoryAnswers,
	CategoryNominations,
	CategoryQuestions,
	CategoryUnsubscribe,
	CategoryAcknowledgment,
	CategoryConfirmation,
	CategoryDecline,
	CategorySpam,
}

// ParseCategory maps a label to its Category. Labels are matched exactly.
func ParseCategory(label string) (Category, error) {
	for _, c := range Categories {
		if string(c) == label {
			return c, nil
		}
	}
	return "", &UnknownCategoryError{Label: label}
}

func (c Category) String() string {
	return string(c)
}

// Decision is the classifier's verdict for one email.
type Decision struct {
	Category    Category `json:"category"`
	Explanation string   `json:"explanation"`
}

// JSON renders the decision the way it is persisted.
func (d Decision) JSON() string {
	return marshal(d)
}

type decisionWire struct {
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
}

func parseDecision(raw string) (Decision, error) {
	var w decisionWire
	if err := campaign.DecodeStrict(raw, &w); err != nil {
		return Decision{}, err
	}
	c, err := ParseCategory(w.Category)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Category: c, Explanation: w.Explanation}, nil
}

// Reply is a generated email reply.
type Reply struct {
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func parseReply(raw string) (Reply, error) {
	var r Reply
	if err := campaign.DecodeStrict(raw, &r); err != nil {
		return Reply{}, err
	}
	if r.Subject == "" && r.Message == "" {
		return Reply{}, campaign.ErrEmptyResponse
	}
	return r, nil
}

// String renders the reply the way it is persisted.
func (r Reply) String() string {
	return "Generated subject for this email:\n" + r.Subject + "\nGenerated response for this email:\n" + r.Message
}
