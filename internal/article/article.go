package article

import (
	"fmt"
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/teemow/inboxagent/internal/campaign"
)

// UnknownCount is rendered in place of the answer count word when the
// number of answered questions is neither three nor four.
const UnknownCount = "__UNKNOWN__"

// Options holds the fixed parts of the article.
type Options struct {
	Series       string
	Tagline      string
	Outlet       string
	SponsorName  string
	SponsorURL   string
	DefaultTitle string
}

// DefaultOptions returns the options of the running campaign.
func DefaultOptions() Options {
	return Options{
		Series:       "Why Small Businesses Matter",
		Tagline:      "Shop small, do big things for your community",
		Outlet:       "HamletHub",
		SponsorName:  "Fairfield County Bank",
		SponsorURL:   "https://www.fairfieldcountybank.com/",
		DefaultTitle: "Founder",
	}
}

// Article is the rendered feature.
type Article struct {
	Title string
	HTML  string
	Meta  string
}

// String joins title, body and meta description the way they are saved.
func (a Article) String() string {
	return a.Title + "\n\n" + a.HTML + "\n\n" + a.Meta
}

// Generate renders the article for p.
func Generate(p campaign.Profile, opts Options) Article {
	if opts.Series == "" {
		opts = DefaultOptions()
	}
	r := renderer{p: p, d: p.Details, opts: opts}

	a := Article{
		Title: r.title(),
		HTML:  r.body(),
		Meta:  r.meta(),
	}
	a.Title = stripUndefined(a.Title)
	a.HTML = stripUndefined(a.HTML)
	a.Meta = stripUndefined(a.Meta)
	return a
}

type renderer struct {
	p    campaign.Profile
	d    campaign.BusinessDetails
	opts Options
}

func (r renderer) title() string {
	t := r.opts.Series
	if town := strings.TrimSpace(strings.Replace(r.d.Town, ", CT", "", 1)); town != "" {
		t += " in " + town
	}
	if name := strings.TrimSpace(r.d.BusinessName); name != "" {
		t += ": " + name
	}
	return t
}

func (r renderer) body() string {
	var b strings.Builder

	b.WriteString("<div id=\"article-content\">\n")
	fmt.Fprintf(&b, "<h2>%s</h2>\n", r.opts.Series)
	fmt.Fprintf(&b, "<p><em>%s</em></p>\n", r.opts.Tagline)
	fmt.Fprintf(&b, "<p>%s puts a spotlight on the local merchants who donate their time, talent, goods, and services for the betterment of our community. "+
		"The shop local movement spreads virally as local businesses who are “tagged” have the opportunity to share their story!</p>\n", r.opts.Series)
	fmt.Fprintf(&b, "<p><strong>You're IT&nbsp;%s!</strong></p>\n", r.businessLink())
	fmt.Fprintf(&b, "<p>%s questions with&nbsp;%s.</p>\n", r.countWord(), r.interviewee())

	for _, qa := range r.p.QA {
		if !qa.Answered() {
			continue
		}
		fmt.Fprintf(&b, "<p><strong>%s</strong></p>\n<p>%s</p>\n", esc(qa.Question), esc(qa.Answer))
	}

	if n := r.nominations(); n != "" {
		b.WriteString(n)
		b.WriteByte('\n')
	}

	if c := r.contact(); c != "" {
		fmt.Fprintf(&b, "<p>%s</p>\n", c)
	}

	fmt.Fprintf(&b, "<p><strong>%s thanks <a href=\"%s\">%s&nbsp;</a>for making our %s series possible!</strong></p>\n",
		r.opts.Outlet, r.opts.SponsorURL, r.opts.SponsorName, r.opts.Series)
	b.WriteString("</div>")

	return b.String()
}

// businessLink links the business name to its website or first social
// profile, or returns the plain name.
func (r renderer) businessLink() string {
	if r.d.BusinessName == "" {
		return ""
	}
	if link := safeURL(r.d.PrimaryLink()); link != "" {
		return fmt.Sprintf("<a href=\"%s\">%s</a>", link, esc(r.d.BusinessName))
	}
	return esc(r.d.BusinessName)
}

func (r renderer) countWord() string {
	switch r.p.AnsweredCount() {
	case 3:
		return "Three"
	case 4:
		return "Four"
	default:
		return UnknownCount
	}
}

func (r renderer) interviewee() string {
	link := r.businessLink()
	if r.d.SenderName == "" {
		return link
	}
	title := r.d.SenderTitle
	if title == "" {
		title = r.opts.DefaultTitle
	}
	if link == "" {
		return fmt.Sprintf("%s, %s", esc(r.d.SenderName), esc(title))
	}
	return fmt.Sprintf("%s, %s of&nbsp;%s", esc(r.d.SenderName), esc(title), link)
}

// nominator names who made the nominations.
func (r renderer) nominator() string {
	switch {
	case r.d.SenderName != "":
		return esc(r.d.SenderName)
	case r.d.BusinessName != "":
		return esc(r.d.BusinessName) + " team"
	default:
		return "They"
	}
}

func (r renderer) nominations() string {
	var items []string
	for _, n := range r.p.Nominations.Named() {
		item := esc(n.BusinessName)
		if link := safeURL(n.Link); n.HasLink() && link != "" {
			item = fmt.Sprintf("<a href=\"%s\" target=\"_blank\">%s</a>", link, item)
		}
		if n.Location != "" {
			item += " in " + esc(n.Location)
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return ""
	}
	return fmt.Sprintf("<p>%s would like to nominate %s to be featured next!</p>", r.nominator(), joinList(items))
}

func (r renderer) contact() string {
	var parts []string

	switch {
	case r.d.Address != "":
		parts = append(parts, fmt.Sprintf("%s is located at %s.", r.businessLink(), esc(r.d.Address)))
	case r.d.Town != "":
		parts = append(parts, fmt.Sprintf("%s is located at %s.", r.businessLink(), esc(r.d.Town)))
	}

	if site := safeURL(r.d.Website); site != "" {
		parts = append(parts, fmt.Sprintf("Visit&nbsp;%s&nbsp;online&nbsp;<a href=\"%s\">here</a>.", r.businessLink(), site))
	}

	var links []string
	for _, s := range r.d.Socials() {
		if link := safeURL(s.Link); link != "" {
			links = append(links, fmt.Sprintf("<a href=\"%s\" target=\"_blank\">%s</a>", link, s.Name))
		}
	}
	if len(links) > 0 {
		noun := "page"
		if len(links) > 1 {
			noun = "pages"
		}
		parts = append(parts, fmt.Sprintf("Make sure to check out their&nbsp;%s&nbsp;%s as well!", joinList(links), noun))
	}

	if r.d.PhoneNumber != "" {
		parts = append(parts, fmt.Sprintf("Give %s&nbsp;a call at&nbsp;%s.", r.businessLink(), esc(r.d.PhoneNumber)))
	}

	return strings.Join(parts, " ")
}

var (
	nonAlnum      = regexp.MustCompile(`[\W_]+`)
	twitterPrefix = regexp.MustCompile(`^https?://(www\.)?(twitter|x)\.com/`)
	handleNoise   = regexp.MustCompile(`[.,'"/?]`)
)

func (r renderer) meta() string {
	fields := []string{"#whysmallbusinessesmatter"}
	if town := r.hashtagTown(); town != "" {
		fields = append(fields, "in", town)
	}
	fields = append(fields, "made possible by", "#"+nonAlnum.ReplaceAllString(r.opts.SponsorName, ""))
	fields = append(fields, strconv.Itoa(r.p.AnsweredCount()), "questions with")
	if tag := r.businessTag(); tag != "" {
		fields = append(fields, tag)
	}
	if kw := strings.TrimSpace(r.p.Keywords); kw != "" {
		fields = append(fields, kw)
	}
	if r.d.SenderGender == campaign.GenderFemale {
		fields = append(fields, "#femalefounder")
	}
	fields = append(fields, "#shoplocal", "#smallbusiness")
	return strings.Join(fields, " ")
}

func (r renderer) hashtagTown() string {
	t := nonAlnum.ReplaceAllString(r.d.Town, "")
	if t == "" {
		return ""
	}
	return "#" + strings.ToLower(t)
}

// businessTag is the twitter handle when known, else a hashtag of the
// business name.
func (r renderer) businessTag() string {
	if r.d.Twitter != "" {
		handle := twitterPrefix.ReplaceAllString(r.d.Twitter, "")
		handle = strings.TrimPrefix(handle, "@")
		if handle = handleNoise.ReplaceAllString(handle, ""); handle != "" {
			return "@" + handle
		}
	}
	name := nonAlnum.ReplaceAllString(r.d.BusinessName, "")
	if name == "" {
		return ""
	}
	return "#" + strings.ToLower(name)
}

// esc escapes text extracted from an email for use in the article body.
func esc(s string) string {
	return html.EscapeString(s)
}

// safeURL returns u escaped for an href attribute, or "" unless it is an
// absolute http or https URL.
func safeURL(u string) string {
	parsed, err := url.Parse(strings.TrimSpace(u))
	if err != nil || parsed.Host == "" {
		return ""
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return ""
	}
	return html.EscapeString(parsed.String())
}

// joinList joins items as "a", "a, and b" or "a, b, and c".
func joinList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	default:
		return strings.Join(items[:len(items)-1], ", ") + ", and " + items[len(items)-1]
	}
}

func stripUndefined(s string) string {
	return strings.ReplaceAll(s, "undefined", "")
}
