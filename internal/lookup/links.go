package lookup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/teemow/inboxagent/internal/campaign"
)

// maxPageSize bounds how much of a page is read when looking for links.
const maxPageSize = 2 << 20

var socialDomains = []string{"facebook.com", "instagram.com", "twitter.com", "x.com", "linkedin.com"}

// LinkParser extracts social media links from web pages.
type LinkParser struct {
	client *http.Client
}

// NewLinkParser returns a parser using client, or a client with a 15s
// timeout when nil.
func NewLinkParser(client *http.Client) *LinkParser {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &LinkParser{client: client}
}

// SocialLinks fetches pageURL and returns the absolute social media links in
// its anchors, in document order and without duplicates.
func (p *LinkParser) SocialLinks(ctx context.Context, pageURL string) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid url %q: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", "inboxagent/1.0")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", pageURL, resp.StatusCode)
	}

	doc, err := html.Parse(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", pageURL, err)
	}

	var links []string
	seen := map[string]bool{}
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, a := range n.Attr {
				if a.Key != "href" || !strings.HasPrefix(a.Val, "http") {
					continue
				}
				if socialKind(a.Val) != "" && !seen[a.Val] {
					seen[a.Val] = true
					links = append(links, a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return links, nil
}

// socialKind names the social network a URL belongs to, or "".
func socialKind(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(strings.TrimPrefix(u.Hostname(), "www."))
	for _, d := range socialDomains {
		if host == d || strings.HasSuffix(host, "."+d) {
			switch d {
			case "x.com", "twitter.com":
				return "twitter"
			default:
				return strings.TrimSuffix(d, ".com")
			}
		}
	}
	return ""
}

var (
	urlPattern  = regexp.MustCompile(`https?://[^\s"'<>]+`)
	doubleSlash = regexp.MustCompile(`([^:])//+`)
)

// ExtractURLs finds the URLs in free text, trimming trailing punctuation and
// collapsing duplicate slashes in the path.
func ExtractURLs(text string) []string {
	var out []string
	for _, u := range urlPattern.FindAllString(text, -1) {
		u = strings.TrimRight(u, ".,;:)]")
		u = doubleSlash.ReplaceAllString(u, "$1/")
		out = append(out, u)
	}
	return out
}

// Assign fills the empty social fields of d from urls by domain. The first
// URL that is not a social profile becomes the website when d has none.
// It reports whether any field changed.
func Assign(d *campaign.BusinessDetails, urls []string) bool {
	changed := false
	set := func(field *string, v string) {
		if *field == "" {
			*field = v
			changed = true
		}
	}
	for _, u := range urls {
		switch socialKind(u) {
		case "facebook":
			set(&d.Facebook, u)
		case "instagram":
			set(&d.Instagram, u)
		case "twitter":
			set(&d.Twitter, u)
		case "linkedin":
			set(&d.LinkedIn, u)
		default:
			set(&d.Website, u)
		}
	}
	return changed
}
