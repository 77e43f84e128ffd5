package mail

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanerClean(t *testing.T) {
	in := "Hi Dan,\n\n" +
		"Here are my answers [image: logo.png]\n" +
		"Find us <https://maps.google.com/?q=main+st> on Main St.\n" +
		"   \n" +
		"Email me <jane@example.com>\n" +
		"Best,\nJane\n" +
		"HAMLETHUB Your Town.\n" +
		"> On Monday Dan wrote:\n" +
		"> Why did you start your business?\n"

	c := Cleaner{
		NoiseMarkers: DefaultCleaner.NoiseMarkers,
		Boilerplate:  []string{"HAMLETHUB Your Town."},
	}
	got := c.Clean(in)

	assert.Equal(t, "Hi Dan,\nHere are my answers \nFind us  on Main St.\nEmail me <jane@example.com>\nBest,\nJane", got)
}

func TestCleanerCleanEmpty(t *testing.T) {
	assert.Equal(t, "", DefaultCleaner.Clean(""))
	assert.Equal(t, "", DefaultCleaner.Clean("> quoted only\n>\n"))
}

func TestQuotedHeaders(t *testing.T) {
	text := "Sure, count me in!\n\n" +
		"---------- Forwarded message ---------\n" +
		"From: Dan Boldis <dan@hamlethub.com>\n" +
		"Date: Mon, Jun 5, 2023 at 10:00 AM\n" +
		"Subject: Why Small Businesses Matter\n" +
		"To: <jane@example.com>\n"

	h := QuotedHeaders(text)
	assert.Equal(t, "Dan Boldis <dan@hamlethub.com>", h.From)
	assert.Equal(t, "<jane@example.com>", h.To)
	assert.Equal(t, "Mon, Jun 5, 2023 at 10:00 AM", h.Date)
	assert.Equal(t, "Why Small Businesses Matter", h.Subject)

	assert.Equal(t, Headers{}, QuotedHeaders("no quoted message here"))
}

func TestHTMLToText(t *testing.T) {
	body := `<html><head><title>x</title><style>p{}</style></head><body>
<p>Hello   <b>Dan</b>,</p>
<div>Visit <a href="https://janes.example.com">our site</a><br>Thanks</div>
<script>alert(1)</script>
</body></html>`

	assert.Equal(t, "Hello Dan ,\nVisit our site (https://janes.example.com)\nThanks", HTMLToText(body))
	assert.Equal(t, "", HTMLToText(""))
}
