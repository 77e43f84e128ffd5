package lookup

import (
	"context"
	"errors"
	"fmt"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// DefaultResults is the number of search results requested.
const DefaultResults = 5

// ErrNotConfigured is returned when no search credentials are configured.
var ErrNotConfigured = errors.New("lookup: search is not configured")

// Result is one web search hit.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Searcher runs web searches.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// GoogleSearch queries a Programmable Search Engine.
type GoogleSearch struct {
	svc     *customsearch.Service
	cx      string
	results int64
}

// NewGoogleSearch creates a searcher for the engine cx. Extra options are
// passed to the API client.
func NewGoogleSearch(ctx context.Context, apiKey, cx string, opts ...option.ClientOption) (*GoogleSearch, error) {
	if apiKey == "" || cx == "" {
		return nil, ErrNotConfigured
	}
	opts = append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := customsearch.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create custom search service: %w", err)
	}
	return &GoogleSearch{svc: svc, cx: cx, results: DefaultResults}, nil
}

// Search returns the top results for query.
func (g *GoogleSearch) Search(ctx context.Context, query string) ([]Result, error) {
	res, err := g.svc.Cse.List().Cx(g.cx).Q(query).Num(g.results).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	out := make([]Result, 0, len(res.Items))
	for _, item := range res.Items {
		out = append(out, Result{Title: item.Title, Link: item.Link, Snippet: item.Snippet})
	}
	return out, nil
}
