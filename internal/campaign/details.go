package campaign

import (
	"fmt"
	"strings"
)

// Gender of the person who answered, as reported by the model.
type Gender string

const (
	GenderMale    Gender = "Male"
	GenderFemale  Gender = "Female"
	GenderUnknown Gender = "Unknown"
)

// BusinessDetails describes the responding business and the person writing.
type BusinessDetails struct {
	SenderName   string `json:"senderName"`
	SenderGender Gender `json:"senderGender"`
	SenderTitle  string `json:"senderTitle,omitempty"`
	BusinessName string `json:"businessName"`
	Address      string `json:"address,omitempty"`
	Town         string `json:"town"`
	PhoneNumber  string `json:"phoneNumber,omitempty"`
	Website      string `json:"website,omitempty"`
	Facebook     string `json:"facebook,omitempty"`
	Twitter      string `json:"twitter,omitempty"`
	Instagram    string `json:"instagram,omitempty"`
	LinkedIn     string `json:"linkedin,omitempty"`
}

// ParseBusinessDetails decodes a business details object returned by the model.
func ParseBusinessDetails(raw string) (BusinessDetails, error) {
	var d BusinessDetails
	if err := DecodeStrict(raw, &d); err != nil {
		return BusinessDetails{}, fmt.Errorf("business details: %w", err)
	}
	d.normalize()
	return d, nil
}

func (d *BusinessDetails) normalize() {
	for _, f := range d.fields() {
		*f = strings.TrimSpace(*f)
	}
	switch Gender(strings.ToLower(string(d.SenderGender))) {
	case "male":
		d.SenderGender = GenderMale
	case "female":
		d.SenderGender = GenderFemale
	default:
		d.SenderGender = GenderUnknown
	}
}

func (d *BusinessDetails) fields() []*string {
	return []*string{
		&d.SenderName, &d.SenderTitle, &d.BusinessName, &d.Address, &d.Town,
		&d.PhoneNumber, &d.Website, &d.Facebook, &d.Twitter, &d.Instagram, &d.LinkedIn,
	}
}

// Fill copies every non-empty field of other into d where d's field is empty.
func (d *BusinessDetails) Fill(other BusinessDetails) {
	dst, src := d.fields(), other.fields()
	for i := range dst {
		if *dst[i] == "" {
			*dst[i] = *src[i]
		}
	}
	if d.SenderGender == "" || d.SenderGender == GenderUnknown {
		if other.SenderGender != "" {
			d.SenderGender = other.SenderGender
		}
	}
}

// Missing returns the JSON names of the contact fields that are still empty.
func (d BusinessDetails) Missing() []string {
	var out []string
	check := []struct {
		name  string
		value string
	}{
		{"address", d.Address},
		{"town", d.Town},
		{"phoneNumber", d.PhoneNumber},
		{"website", d.Website},
		{"facebook", d.Facebook},
		{"twitter", d.Twitter},
		{"instagram", d.Instagram},
		{"linkedin", d.LinkedIn},
	}
	for _, c := range check {
		if c.value == "" {
			out = append(out, c.name)
		}
	}
	return out
}

// Pronoun returns the possessive pronoun for the sender.
func (d BusinessDetails) Pronoun() string {
	switch d.SenderGender {
	case GenderFemale:
		return "her"
	case GenderMale:
		return "his"
	default:
		return "their"
	}
}

// Social is a named social media profile link.
type Social struct {
	Name string
	Link string
}

// Socials returns the non-empty social profiles in display order.
func (d BusinessDetails) Socials() []Social {
	all := []Social{
		{"Facebook", d.Facebook},
		{"Twitter", d.Twitter},
		{"Instagram", d.Instagram},
		{"LinkedIn", d.LinkedIn},
	}
	var out []Social
	for _, s := range all {
		if strings.TrimSpace(s.Link) != "" {
			out = append(out, s)
		}
	}
	return out
}

// PrimaryLink returns the best link to the business: the website, else the
// first of facebook, instagram and twitter.
func (d BusinessDetails) PrimaryLink() string {
	for _, l := range []string{d.Website, d.Facebook, d.Instagram, d.Twitter} {
		if l != "" {
			return l
		}
	}
	return ""
}
