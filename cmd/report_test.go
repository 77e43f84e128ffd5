package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/inboxagent/internal/store"
)

func TestCategoryLabel(t *testing.T) {
	tests := []struct {
		name     string
		decision string
		want     string
	}{
		{"decision json", `{"category":"Questions","explanation":"asks about dates"}`, "Questions"},
		{"empty", "", "-"},
		{"not json", "Questions", "-"},
		{"no category", `{"explanation":"x"}`, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, categoryLabel(tt.decision))
		})
	}
}

func TestTotalLine(t *testing.T) {
	report := "Model: gpt-4, Input Tokens: 10, Input Tokens Cost: $0.000300, Output Tokens: 5, Output Tokens Cost: $0.000300, Total Cost: $0.000600\n" +
		"Total Cost of all models: $0.000600"
	assert.Equal(t, "$0.000600", totalLine(report))
	assert.Equal(t, "-", totalLine(""))
}

func TestReportCommand(t *testing.T) {
	dataDir := filepath.Join(t.TempDir(), "data")
	t.Setenv("INBOXAGENT_DATA_DIR", dataDir)
	t.Setenv("INBOXAGENT_CONFIG", "")
	configPath = ""

	s := store.New(dataDir)
	require.NoError(t, s.Save(store.Bundle{
		ID:       "<msg-1@example.com>",
		Usage:    "Total Cost of all models: $0.001200",
		Category: `{"category":"Spam or Promotion","explanation":"newsletter"}`,
	}))

	cmd := newReportCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "EMAIL")
	assert.Contains(t, out.String(), store.Sanitize("<msg-1@example.com>"))
	assert.Contains(t, out.String(), "Spam or Promotion")
	assert.Contains(t, out.String(), "$0.001200")
}

func TestVersionCommand(t *testing.T) {
	cmd := newVersionCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "inboxagent version "+version+"\n", out.String())
}
