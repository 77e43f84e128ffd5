package usage

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLedger() *Ledger {
	return NewLedger(
		Entry{Model: "gpt-3.5-turbo-16k", Rate: Rate{Input: 0.003, Output: 0.004}},
		Entry{Model: "gpt-3.5-turbo", Rate: Rate{Input: 0.0015, Output: 0.002}},
		Entry{Model: "gpt-4-32k", Rate: Rate{Input: 0.06, Output: 0.12}},
		Entry{Model: "gpt-4", Rate: Rate{Input: 0.03, Output: 0.06}},
		Entry{Model: "text-embedding-ada-002", Embedding: true, Rate: Rate{Input: 0.0001}},
	)
}

func TestLedger_Record(t *testing.T) {
	l := testLedger()

	require.NoError(t, l.Record("gpt-4", 1000, 500))
	require.NoError(t, l.Record("gpt-4", 1000, 500))

	var got Entry
	for _, e := range l.Snapshot() {
		if e.Model == "gpt-4" {
			got = e
		}
	}
	assert.Equal(t, int64(2000), got.InputTokens)
	assert.Equal(t, int64(1000), got.OutputTokens)
	assert.InDelta(t, 0.06, got.InputCost, 1e-9)
	assert.InDelta(t, 0.06, got.OutputCost, 1e-9)
	assert.InDelta(t, 0.12, got.TotalCost, 1e-9)
}

func TestLedger_RecordEmbeddingIgnoresOutput(t *testing.T) {
	l := testLedger()

	require.NoError(t, l.Record("text-embedding-ada-002", 5000, 99))
	snap := l.Snapshot()
	emb := snap[len(snap)-1]
	assert.Equal(t, int64(5000), emb.TotalTokens())
	assert.Zero(t, emb.OutputTokens)
	assert.InDelta(t, 0.0005, emb.TotalCost, 1e-12)
}

func TestLedger_RecordUnknownModel(t *testing.T) {
	l := testLedger()
	err := l.Record("davinci", 1, 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "davinci")
}

func TestLedger_Report(t *testing.T) {
	l := testLedger()
	assert.Equal(t, "Total Cost of all models: $0.000000", l.Report())

	require.NoError(t, l.Record("gpt-4", 1000, 1000))
	require.NoError(t, l.Record("gpt-3.5-turbo", 2000, 0))
	require.NoError(t, l.Record("text-embedding-ada-002", 1000, 0))

	lines := strings.Split(l.Report(), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Model: gpt-3.5-turbo, Input Tokens: 2000, Input Tokens Cost: $0.003000, Output Tokens: 0, Output Tokens Cost: $0.000000, Total Cost: $0.003000", lines[0])
	assert.Equal(t, "Model: gpt-4, Input Tokens: 1000, Input Tokens Cost: $0.030000, Output Tokens: 1000, Output Tokens Cost: $0.060000, Total Cost: $0.090000", lines[1])
	assert.Equal(t, "Model: text-embedding-ada-002, Total Tokens: 1000, Cost: $0.000100", lines[2])
	assert.Equal(t, "Total Cost of all models: $0.093100", lines[3])
}

func TestLedger_Reset(t *testing.T) {
	l := testLedger()
	require.NoError(t, l.Record("gpt-4-32k", 10, 10))
	l.Reset()

	for _, e := range l.Snapshot() {
		assert.Zero(t, e.TotalTokens(), e.Model)
		assert.Zero(t, e.TotalCost, e.Model)
	}
	assert.Zero(t, l.TotalCost())
}

func TestLedger_Track(t *testing.T) {
	t.Run("resets after success", func(t *testing.T) {
		l := testLedger()
		var inside float64
		err := l.Track(func() error {
			require.NoError(t, l.Record("gpt-4", 1000, 0))
			inside = l.TotalCost()
			return nil
		})
		require.NoError(t, err)
		assert.InDelta(t, 0.03, inside, 1e-9)
		assert.Zero(t, l.TotalCost())
	})

	t.Run("resets after failure", func(t *testing.T) {
		l := testLedger()
		boom := errors.New("boom")
		err := l.Track(func() error {
			_ = l.Record("gpt-4", 1000, 0)
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.Zero(t, l.TotalCost())
	})

	t.Run("resets after panic", func(t *testing.T) {
		l := testLedger()
		assert.Panics(t, func() {
			_ = l.Track(func() error {
				_ = l.Record("gpt-4", 1000, 0)
				panic("handler bug")
			})
		})
		assert.Zero(t, l.TotalCost())
	})

	t.Run("sequential units are isolated", func(t *testing.T) {
		l := testLedger()
		var reports []string
		for i := 0; i < 2; i++ {
			_ = l.Track(func() error {
				_ = l.Record("gpt-4", 1000, 0)
				reports = append(reports, l.Report())
				return nil
			})
		}
		assert.Equal(t, reports[0], reports[1])
	})
}

func TestLedger_ConcurrentRecord(t *testing.T) {
	l := testLedger()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Record("gpt-3.5-turbo", 10, 10)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1000), l.Snapshot()[1].TotalTokens())
}

func TestNewLedger_SkipsDuplicates(t *testing.T) {
	l := NewLedger(
		Entry{Model: "a", InputTokens: 7},
		Entry{Model: "a"},
		Entry{Model: "b"},
	)
	snap := l.Snapshot()
	require.Len(t, snap, 2)
	assert.Zero(t, snap[0].InputTokens)
}
