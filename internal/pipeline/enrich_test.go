package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxagent/internal/campaign"
)

func TestEnrich(t *testing.T) {
	h := newHarness(CategoryNominations)
	h.lookup.links["Tea Shop Ridgefield, CT"] = "https://teashop.example"
	h.lookup.linkErrs["Bike Barn Wilton, CT"] = errors.New("search failed")
	d := h.dispatcher(t)

	details := campaign.BusinessDetails{
		SenderName:   "Jane Doe",
		SenderGender: campaign.GenderFemale,
		BusinessName: "Acme Bakery",
		Town:         "Ridgefield, CT",
	}
	noms := campaign.Nominations{
		{BusinessName: "Tea Shop", Person: "Sam"},
		{BusinessName: "Bike Barn", Location: "Wilton, CT"},
		{BusinessName: "Book Nook", Location: "Weston, CT", Link: "https://booknook.example"},
		{Person: "Nobody in particular"},
	}

	got := d.Enrich(context.Background(), details, noms)
	require.Len(t, got, 4)

	tea := got[0]
	assert.Equal(t, "Ridgefield, CT", tea.Location, "location is inherited from the nominator")
	assert.Equal(t, "https://teashop.example", tea.Link)
	require.NotNil(t, tea.Invitation)
	assert.Contains(t, tea.Invitation.Message, "Hello Sam")
	assert.Contains(t, tea.Invitation.Subject, "Acme Bakery")
	assert.Contains(t, tea.Invitation.Message, "Jane Doe from Acme Bakery")

	bike := got[1]
	assert.Empty(t, bike.Link, "a failed lookup leaves the link empty")
	require.NotNil(t, bike.Invitation, "a failed lookup does not block the invitation")
	assert.Contains(t, bike.Invitation.Message, "Hello!")

	book := got[2]
	assert.Equal(t, "https://booknook.example", book.Link)
	require.NotNil(t, book.Invitation)

	assert.Equal(t, noms[3], got[3], "unnamed records are left alone")

	assert.ElementsMatch(t, []string{"Tea Shop Ridgefield, CT", "Bike Barn Wilton, CT"}, h.lookup.queries)
	assert.Nil(t, noms[0].Invitation, "the input is not modified")
}

func TestEnrich_NoTownAnywhere(t *testing.T) {
	h := newHarness(CategoryNominations)
	d := h.dispatcher(t)

	got := d.Enrich(context.Background(), campaign.BusinessDetails{BusinessName: "Acme Bakery"},
		campaign.Nominations{
			{BusinessName: "Tea Shop"},
			{BusinessName: "Book Nook", Location: "Weston, CT"},
		})

	assert.Equal(t, SkippedNoLocation, got[0].Skipped)
	assert.Nil(t, got[0].Invitation)
	assert.Empty(t, got[0].Location)

	assert.Empty(t, got[1].Skipped)
	assert.NotNil(t, got[1].Invitation)
	assert.Equal(t, []string{"Book Nook Weston, CT"}, h.lookup.queries)
}

func TestEnrich_WithoutLookup(t *testing.T) {
	h := newHarness(CategoryNominations)
	cfg := h.config()
	cfg.Lookup = nil
	d, err := NewDispatcher(cfg)
	require.NoError(t, err)

	got := d.Enrich(context.Background(), campaign.BusinessDetails{Town: "Ridgefield, CT"},
		campaign.Nominations{{BusinessName: "Tea Shop"}})

	assert.Empty(t, got[0].Link)
	assert.NotNil(t, got[0].Invitation)
}

func TestEnrich_Empty(t *testing.T) {
	h := newHarness(CategoryNominations)
	d := h.dispatcher(t)

	assert.Empty(t, d.Enrich(context.Background(), campaign.BusinessDetails{}, nil))
}
