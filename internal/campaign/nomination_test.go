package campaign

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNominations(t *testing.T) {
	raw := `{
		"10": {"nominated_business_name": "Last", "nominated_business_location": "", "nominated_business_person": "", "nominated_business_link": "", "email_template": ""},
		"2": {"nominated_business_name": "Second", "nominated_business_location": "Wilton", "nominated_business_person": "", "nominated_business_link": "", "email_template": ""},
		"0": {"nominated_business_name": " First ", "nominated_business_location": "", "nominated_business_person": "Sam", "nominated_business_link": "https://first.example", "email_template": ""}
	}`

	ns, err := ParseNominations(raw)
	require.NoError(t, err)
	require.Len(t, ns, 3)
	assert.Equal(t, "First", ns[0].BusinessName)
	assert.Equal(t, "Second", ns[1].BusinessName)
	assert.Equal(t, "Last", ns[2].BusinessName)
	assert.True(t, ns[0].HasLink())
	assert.False(t, ns[1].HasLink())
	assert.True(t, ns.Any())
}

func TestParseNominationsEmpty(t *testing.T) {
	ns, err := ParseNominations(`{}`)
	require.NoError(t, err)
	assert.Empty(t, ns)
	assert.False(t, ns.Any())
	assert.Equal(t, "[]", ns.JSON())
}

func TestParseNominationsAllBlank(t *testing.T) {
	ns, err := ParseNominations(`{"0": {"nominated_business_name": "", "nominated_business_location": "", "nominated_business_person": "", "nominated_business_link": ""}}`)
	require.NoError(t, err)
	assert.Len(t, ns, 1)
	assert.False(t, ns.Any())
	assert.Empty(t, ns.Named())
}

func TestParseNominationsArray(t *testing.T) {
	ns, err := ParseNominations(`[{"nominated_business_name": "A"}, {"nominated_business_name": "B"}]`)
	require.NoError(t, err)
	require.Len(t, ns, 2)
	assert.Equal(t, "B", ns[1].BusinessName)
}

func TestParseNominationsInvalid(t *testing.T) {
	_, err := ParseNominations("")
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = ParseNominations(`{"0": {"business": "A"}}`)
	assert.Error(t, err)

	_, err = ParseNominations(`not json`)
	assert.Error(t, err)
}
