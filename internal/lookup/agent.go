package lookup

import (
	"context"
	"log/slog"
	"strings"

	"github.com/teemow/inboxagent/internal/campaign"
	"github.com/teemow/inboxagent/internal/instrumentation"
	"github.com/teemow/inboxagent/internal/logging"
)

// Agent looks up missing business details on the web.
type Agent struct {
	searcher Searcher
	parser   *LinkParser
	logger   *slog.Logger
	metrics  *instrumentation.Metrics
}

// NewAgent creates an agent. A nil searcher makes every lookup return
// ErrNotConfigured.
func NewAgent(searcher Searcher, parser *LinkParser, logger *slog.Logger, metrics *instrumentation.Metrics) *Agent {
	if parser == nil {
		parser = NewLinkParser(nil)
	}
	return &Agent{
		searcher: searcher,
		parser:   parser,
		logger:   logging.OrDefault(logger).With(slog.String("component", "lookup")),
		metrics:  metrics,
	}
}

// FindMissingBusinessDetails searches for the business and fills in the
// website and social profiles that d lacks. The returned details always
// include everything d already had; on error they equal d.
func (a *Agent) FindMissingBusinessDetails(ctx context.Context, d campaign.BusinessDetails) (out campaign.BusinessDetails, err error) {
	ctx, span := instrumentation.StartClientSpan(ctx, "lookup.details",
		instrumentation.LookupKindAttr(instrumentation.LookupDetails))
	defer func() {
		a.metrics.RecordLookup(ctx, instrumentation.LookupDetails, instrumentation.StatusFromError(err))
		instrumentation.EndSpan(span, err)
	}()

	if a.searcher == nil {
		return d, ErrNotConfigured
	}
	if d.BusinessName == "" || !missingLinks(d) {
		return d, nil
	}

	out = d
	query := strings.TrimSpace(d.BusinessName + " " + d.Town)
	results, err := a.search(ctx, query)
	if err != nil {
		return d, err
	}

	urls := make([]string, 0, len(results))
	for _, r := range results {
		urls = append(urls, ExtractURLs(r.Link)...)
	}
	Assign(&out, urls)

	if out.Website != "" && missingLinks(out) {
		links, err := a.parser.SocialLinks(ctx, out.Website)
		if err != nil {
			a.logger.DebugContext(ctx, "link parser failed", slog.String("url", out.Website), logging.Err(err))
		} else {
			Assign(&out, links)
		}
	}

	a.logger.DebugContext(ctx, "looked up business details",
		slog.String("business", d.BusinessName), slog.Int("results", len(results)))
	return out, nil
}

// FindMissingLink returns a website or social link for the business
// described by query, or "" when nothing is found.
func (a *Agent) FindMissingLink(ctx context.Context, query string) (link string, err error) {
	ctx, span := instrumentation.StartClientSpan(ctx, "lookup.link",
		instrumentation.LookupKindAttr(instrumentation.LookupLink))
	defer func() {
		a.metrics.RecordLookup(ctx, instrumentation.LookupLink, instrumentation.StatusFromError(err))
		instrumentation.EndSpan(span, err)
	}()

	if a.searcher == nil {
		return "", ErrNotConfigured
	}
	results, err := a.search(ctx, query)
	if err != nil {
		return "", err
	}
	for _, r := range results {
		if urls := ExtractURLs(r.Link); len(urls) > 0 {
			return urls[0], nil
		}
	}
	return "", nil
}

func (a *Agent) search(ctx context.Context, query string) (results []Result, err error) {
	defer func() {
		a.metrics.RecordLookup(ctx, instrumentation.LookupSearch, instrumentation.StatusFromError(err))
	}()
	return a.searcher.Search(ctx, query)
}

// missingLinks reports whether the website or any social profile is empty.
func missingLinks(d campaign.BusinessDetails) bool {
	return d.Website == "" || d.Facebook == "" || d.Twitter == "" || d.Instagram == "" || d.LinkedIn == ""
}
