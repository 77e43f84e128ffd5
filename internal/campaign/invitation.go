package campaign

import (
	"fmt"
	"strings"
)

// Sender identifies who signs outgoing campaign letters.
type Sender struct {
	OwnerName   string
	Outlet      string
	DefaultTown string
}

// DefaultSender is the campaign owner used when none is configured.
var DefaultSender = Sender{
	OwnerName:   "Dan Boldis",
	Outlet:      "Hamlethub.com",
	DefaultTown: "Ridgefield",
}

// FirstName returns the owner's first name, used to sign letters.
func (s Sender) FirstName() string {
	if f := strings.Fields(s.OwnerName); len(f) > 0 {
		return f[0]
	}
	return s.OwnerName
}

// Invitation renders the letter inviting a nominated business to be
// interviewed. details describes the business that made the nomination.
func (s Sender) Invitation(details BusinessDetails, n Nomination) Invitation {
	town := firstNonEmpty(n.Location, details.Town, s.DefaultTown)

	greeting := "Hello!"
	if n.Person != "" {
		greeting = "Hello " + n.Person
	}

	var intro string
	switch {
	case details.SenderName != "" && details.BusinessName != "":
		intro = details.SenderName + " from " + details.BusinessName
	case details.SenderName != "":
		intro = details.SenderName
	default:
		intro = details.BusinessName + " team"
	}

	var thanks string
	if details.SenderName != "" {
		thanks = fmt.Sprintf("%s was very thankful for the opportunity to showcase %s business, and was very happy to nominate you to participate next!",
			details.SenderName, details.Pronoun())
	} else {
		thanks = fmt.Sprintf("%s team was very thankful for the opportunity to showcase their business, and were very happy to nominate you to participate next!",
			details.BusinessName)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", greeting)
	fmt.Fprintf(&b, "My name is %s from the %s website - a local news provider in %s.\n", s.FirstName(), s.Outlet, town)
	fmt.Fprintf(&b, "%s asked us to reach out to you to check if you're willing to participate in an online interview that we're running in %s. %s\n", intro, town, thanks)
	b.WriteString("The interview process is completely online, and you can reply with your answers to the following questions:\n\n")
	for _, q := range Questions {
		fmt.Fprintf(&b, "- %s\n", q)
	}
	b.WriteString("\nPlease let me know if you have any questions or if you need any help! Locally yours,\n")
	b.WriteString(s.FirstName())

	return Invitation{
		Subject: fmt.Sprintf("Invitation to interview - %s and %s", strings.ToLower(s.Outlet), details.BusinessName),
		Message: b.String(),
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
