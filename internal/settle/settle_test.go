package settle

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestAll_CollectsInIndexOrder(t *testing.T) {
	outcomes := All(context.Background(), 5, 0, func(_ context.Context, i int) (string, error) {
		// Finish in reverse order.
		time.Sleep(time.Duration(5-i) * time.Millisecond)
		return fmt.Sprintf("item-%d", i), nil
	})

	require.Len(t, outcomes, 5)
	for i, o := range outcomes {
		assert.Equal(t, i, o.Index)
		assert.Equal(t, fmt.Sprintf("item-%d", i), o.Value)
		assert.True(t, o.OK())
	}
}

func TestAll_FailureDoesNotStopSiblings(t *testing.T) {
	var finished atomic.Int32
	boom := errors.New("lookup failed")

	outcomes := All(context.Background(), 4, 0, func(ctx context.Context, i int) (int, error) {
		if i == 1 {
			return 0, boom
		}
		// Siblings keep running after the failure and see a live context.
		time.Sleep(10 * time.Millisecond)
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		finished.Add(1)
		return i * 10, nil
	})

	assert.Equal(t, int32(3), finished.Load())
	assert.ErrorIs(t, outcomes[1].Err, boom)
	assert.Equal(t, 30, outcomes[3].Value)

	s := Summarize(outcomes)
	assert.Equal(t, Summary{Total: 4, Successful: 3, Failed: 1}, s)
	assert.Equal(t, "3/4 succeeded, 1 failed", s.String())
	assert.ErrorIs(t, Errors(outcomes), boom)
}

func TestAll_RecoversPanics(t *testing.T) {
	outcomes := All(context.Background(), 2, 0, func(_ context.Context, i int) (int, error) {
		if i == 0 {
			panic("nil map")
		}
		return 1, nil
	})

	var pe *PanicError
	require.ErrorAs(t, outcomes[0].Err, &pe)
	assert.Equal(t, 0, pe.Index)
	assert.Contains(t, pe.Error(), "nil map")
	assert.True(t, outcomes[1].OK())
}

func TestAll_RespectsLimit(t *testing.T) {
	var running, peak atomic.Int32

	All(context.Background(), 8, 2, func(_ context.Context, _ int) (struct{}, error) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		running.Add(-1)
		return struct{}{}, nil
	})

	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestAll_Empty(t *testing.T) {
	outcomes := All(context.Background(), 0, 0, func(context.Context, int) (int, error) {
		t.Fatal("should not be called")
		return 0, nil
	})
	assert.Empty(t, outcomes)
	assert.NoError(t, Errors(outcomes))
	assert.Equal(t, Summary{}, Summarize(outcomes))
}
