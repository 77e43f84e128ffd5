package article

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/teemow/inboxagent/internal/campaign"
)

func fullProfile() campaign.Profile {
	qa := make([]campaign.QA, 0, len(campaign.Questions))
	for i, q := range campaign.Questions {
		qa = append(qa, campaign.QA{Question: q, Answer: "Answer " + string(rune('A'+i))})
	}
	return campaign.Profile{
		QA:       qa,
		Keywords: "#bread #bakery",
		Details: campaign.BusinessDetails{
			SenderName:   "Jane Doe",
			SenderGender: campaign.GenderFemale,
			SenderTitle:  "Owner",
			BusinessName: "Jane's Bakery",
			Address:      "1 Main St, Ridgefield, CT",
			Town:         "Ridgefield, CT",
			PhoneNumber:  "203-555-0100",
			Website:      "https://janes.example.com",
			Facebook:     "https://facebook.com/janes",
			Twitter:      "https://twitter.com/janesbakery",
		},
	}
}

func TestGenerateFullProfile(t *testing.T) {
	a := Generate(fullProfile(), DefaultOptions())

	assert.Equal(t, "Why Small Businesses Matter in Ridgefield: Jane's Bakery", a.Title)

	link := `<a href="https://janes.example.com">Jane&#39;s Bakery</a>`
	assert.Contains(t, a.HTML, "<p><strong>You're IT&nbsp;"+link+"!</strong></p>")
	assert.Contains(t, a.HTML, "<p>Four questions with&nbsp;Jane Doe, Owner of&nbsp;"+link+".</p>")
	assert.Contains(t, a.HTML, "<p><strong>"+campaign.Questions[0]+"</strong></p>\n<p>Answer A</p>")
	assert.Contains(t, a.HTML, link+" is located at 1 Main St, Ridgefield, CT.")
	assert.Contains(t, a.HTML, `Visit&nbsp;`+link+`&nbsp;online&nbsp;<a href="https://janes.example.com">here</a>.`)
	assert.Contains(t, a.HTML, `Make sure to check out their&nbsp;<a href="https://facebook.com/janes" target="_blank">Facebook</a>, and <a href="https://twitter.com/janesbakery" target="_blank">Twitter</a>&nbsp;pages as well!`)
	assert.Contains(t, a.HTML, "Give "+link+"&nbsp;a call at&nbsp;203-555-0100.")
	assert.Contains(t, a.HTML, "Fairfield County Bank&nbsp;</a>for making our Why Small Businesses Matter series possible!")
	assert.True(t, strings.HasPrefix(a.HTML, `<div id="article-content">`))
	assert.True(t, strings.HasSuffix(a.HTML, "</div>"))
	assert.NotContains(t, a.HTML, "would like to nominate")

	assert.Equal(t,
		"#whysmallbusinessesmatter in #ridgefieldct made possible by #FairfieldCountyBank 4 questions with @janesbakery #bread #bakery #femalefounder #shoplocal #smallbusiness",
		a.Meta)
}

func TestGenerateCountWord(t *testing.T) {
	tests := []struct {
		name     string
		answered int
		want     string
	}{
		{"four", 4, "Four questions with"},
		{"three", 3, "Three questions with"},
		{"two", 2, UnknownCount + " questions with"},
		{"none", 0, UnknownCount + " questions with"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := fullProfile()
			for i := tt.answered; i < len(p.QA); i++ {
				p.QA[i].Answer = campaign.NoAnswer
			}
			a := Generate(p, DefaultOptions())
			assert.Contains(t, a.HTML, tt.want)
			assert.Equal(t, tt.answered, strings.Count(a.HTML, "</strong></p>\n<p>Answer"))
		})
	}
}

func TestGenerateMinimalProfile(t *testing.T) {
	p := campaign.Profile{
		QA: []campaign.QA{
			{Question: campaign.Questions[0], Answer: "Because."},
			{Question: campaign.Questions[1], Answer: "Bread."},
			{Question: campaign.Questions[2], Answer: "Many."},
		},
		Details: campaign.BusinessDetails{BusinessName: "Acme", Town: "Wilton"},
	}
	a := Generate(p, DefaultOptions())

	assert.Equal(t, "Why Small Businesses Matter in Wilton: Acme", a.Title)
	assert.Contains(t, a.HTML, "<p>Three questions with&nbsp;Acme.</p>")
	assert.Contains(t, a.HTML, "Acme is located at Wilton.")
	assert.NotContains(t, a.HTML, "Make sure to check out")
	assert.NotContains(t, a.HTML, "Visit&nbsp;")
	assert.NotContains(t, a.HTML, "a call at")
	assert.NotContains(t, a.Meta, "#femalefounder")
	assert.Contains(t, a.Meta, "3 questions with #acme #shoplocal")
}

func TestGenerateNominations(t *testing.T) {
	p := fullProfile()
	p.Nominations = campaign.Nominations{
		{BusinessName: "Corner Books", Location: "Wilton", Link: "https://books.example"},
		{BusinessName: "", Location: "Nowhere"},
		{BusinessName: "Tea Shop", Location: "Danbury"},
		{BusinessName: "Bike Co", Link: "bikeco.example"},
	}
	a := Generate(p, DefaultOptions())

	assert.Contains(t, a.HTML,
		`<p>Jane Doe would like to nominate <a href="https://books.example" target="_blank">Corner Books</a> in Wilton, Tea Shop in Danbury, and Bike Co to be featured next!</p>`)

	p.Details.SenderName = ""
	p.Nominations = p.Nominations[:1]
	a = Generate(p, DefaultOptions())
	assert.Contains(t, a.HTML, `<p>Jane&#39;s Bakery team would like to nominate <a href="https://books.example" target="_blank">Corner Books</a> in Wilton to be featured next!</p>`)
}

func TestGenerateNeverEmitsUndefined(t *testing.T) {
	p := fullProfile()
	p.Details.BusinessName = "undefined Goods"
	p.QA[0].Answer = "It was undefined at first"
	p.Keywords = "undefined"

	a := Generate(p, DefaultOptions())
	assert.NotContains(t, a.String(), "undefined")
}

func TestGenerateEmptyProfile(t *testing.T) {
	a := Generate(campaign.Profile{}, Options{})
	assert.Equal(t, "Why Small Businesses Matter", a.Title)
	assert.Contains(t, a.HTML, UnknownCount)
	assert.NotContains(t, a.String(), "undefined")
}

func TestGenerateTitleWithoutBusinessName(t *testing.T) {
	p := fullProfile()
	p.Details.BusinessName = "  "
	assert.Equal(t, "Why Small Businesses Matter in Ridgefield", Generate(p, DefaultOptions()).Title)
}

func TestGenerateEscapesEmailContent(t *testing.T) {
	p := fullProfile()
	p.QA[0].Answer = "<script>alert(1)</script>"
	p.Details.BusinessName = `Acme"><img src=x onerror=alert(2)>`
	p.Details.SenderName = "<b>Jane</b>"
	p.Details.Address = "<i>1 Main St</i>"
	p.Details.Website = "javascript:alert(3)"
	p.Details.Facebook = "JAVASCRIPT:alert(4)"
	p.Details.Twitter = `https://twitter.com/x"onmouseover="alert(5)`
	p.Nominations = campaign.Nominations{
		{BusinessName: "<u>Books</u>", Location: "Wilton", Link: "javascript:alert('http')"},
	}

	a := Generate(p, DefaultOptions())

	assert.NotContains(t, a.HTML, "<script>")
	assert.NotContains(t, a.HTML, "<img")
	assert.NotContains(t, a.HTML, "<b>Jane")
	assert.NotContains(t, a.HTML, "<i>1 Main")
	assert.NotContains(t, a.HTML, "<u>Books")
	assert.NotContains(t, strings.ToLower(a.HTML), "javascript:")
	assert.NotContains(t, a.HTML, `"onmouseover`)

	assert.Contains(t, a.HTML, "<p>&lt;script&gt;alert(1)&lt;/script&gt;</p>")
	assert.Contains(t, a.HTML, "You're IT&nbsp;Acme&#34;&gt;&lt;img src=x onerror=alert(2)&gt;!")
	assert.Contains(t, a.HTML, "&lt;u&gt;Books&lt;/u&gt; in Wilton")
	assert.NotContains(t, a.HTML, "Visit&nbsp;")
	assert.Contains(t, a.HTML, `<a href="https://twitter.com/x%22onmouseover=%22alert%285%29" target="_blank">Twitter</a>`)
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://janes.example.com", "https://janes.example.com"},
		{" http://example.com/a?b=1&c=2 ", "http://example.com/a?b=1&amp;c=2"},
		{"javascript:alert(1)", ""},
		{"data:text/html,<script>", ""},
		{"//example.com", ""},
		{"example.com", ""},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, safeURL(tt.in))
		})
	}
}

func TestJoinList(t *testing.T) {
	assert.Equal(t, "", joinList(nil))
	assert.Equal(t, "a", joinList([]string{"a"}))
	assert.Equal(t, "a, and b", joinList([]string{"a", "b"}))
	assert.Equal(t, "a, b, and c", joinList([]string{"a", "b", "c"}))
}
