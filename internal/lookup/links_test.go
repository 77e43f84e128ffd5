package lookup

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxagent/internal/campaign"
)

func TestSocialKind(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.facebook.com/janes", "facebook"},
		{"https://m.facebook.com/janes", "facebook"},
		{"https://instagram.com/janes", "instagram"},
		{"https://twitter.com/janes", "twitter"},
		{"https://x.com/janes", "twitter"},
		{"https://www.linkedin.com/company/janes", "linkedin"},
		{"https://janes.example.com", ""},
		{"https://notfacebook.com/x", ""},
		{"not a url", ""},
	}
	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, socialKind(tt.url))
		})
	}
}

func TestExtractURLs(t *testing.T) {
	got := ExtractURLs(`Found https://janes.example.com, and "https://www.facebook.com//janes". Also http://x.com/j).`)
	assert.Equal(t, []string{
		"https://janes.example.com",
		"https://www.facebook.com/janes",
		"http://x.com/j",
	}, got)
	assert.Empty(t, ExtractURLs("No data"))
}

func TestAssign(t *testing.T) {
	d := campaign.BusinessDetails{Facebook: "https://facebook.com/existing"}
	changed := Assign(&d, []string{
		"https://facebook.com/other",
		"https://janes.example.com",
		"https://second.example.com",
		"https://instagram.com/janes",
	})

	assert.True(t, changed)
	assert.Equal(t, "https://facebook.com/existing", d.Facebook)
	assert.Equal(t, "https://janes.example.com", d.Website)
	assert.Equal(t, "https://instagram.com/janes", d.Instagram)
	assert.Empty(t, d.Twitter)

	assert.False(t, Assign(&d, []string{"https://facebook.com/again"}))
}

func TestLinkParserSocialLinks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `<html><body>
			<a href="https://www.facebook.com/janes">fb</a>
			<a href="/about">about</a>
			<a href="https://www.facebook.com/janes">fb again</a>
			<div><a href="https://instagram.com/janes">ig</a></div>
			<a href="https://example.com/blog">blog</a>
		</body></html>`)
	}))
	defer srv.Close()

	p := NewLinkParser(srv.Client())
	links, err := p.SocialLinks(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []string{"https://www.facebook.com/janes", "https://instagram.com/janes"}, links)

	_, err = p.SocialLinks(context.Background(), srv.URL+"/missing")
	assert.Error(t, err)

	_, err = p.SocialLinks(context.Background(), "::bad")
	assert.Error(t, err)
}
