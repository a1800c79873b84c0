package limiter

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialCeilingFormula(t *testing.T) {
	assert.EqualValues(t, 50, InitialCeiling(0, 100))
	assert.EqualValues(t, 10, InitialCeiling(10, 100))
	assert.EqualValues(t, 1, InitialCeiling(0, 1))
}

func TestAcquireReleaseLiveNeverExceedsCeiling(t *testing.T) {
	l := New(Config{Max: 8, Initial: 4, Floor: 1, HalvingFactor: 2})
	require.EqualValues(t, 4, l.Ceiling())

	var wg sync.WaitGroup
	var mu sync.Mutex
	maxObserved := int64(0)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := l.Acquire(context.Background())
			require.NoError(t, err)
			defer p.Release()

			mu.Lock()
			if live := l.Live(); live > maxObserved {
				maxObserved = live
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	// Every release restores one probed-up unit (no exhaustion was ever
	// reported), so the ceiling only grows here, up to Max; live at any
	// instant can never have exceeded the ceiling at that instant, hence
	// never the final, largest ceiling observed.
	assert.LessOrEqual(t, maxObserved, l.Ceiling())
	assert.LessOrEqual(t, l.Ceiling(), int64(8))
}

func TestReportExhaustionShrinksCeiling(t *testing.T) {
	l := New(Config{Max: 16, Initial: 16, Floor: 1, HalvingFactor: 2})
	require.EqualValues(t, 16, l.Ceiling())

	l.ReportExhaustion()
	assert.EqualValues(t, 8, l.Ceiling())

	l.ReportExhaustion()
	assert.EqualValues(t, 4, l.Ceiling())
}

func TestReportExhaustionRespectsFloor(t *testing.T) {
	l := New(Config{Max: 4, Initial: 4, Floor: 2, HalvingFactor: 2})
	l.ReportExhaustion()
	assert.EqualValues(t, 2, l.Ceiling())
	l.ReportExhaustion() // already at floor, should not shrink further
	assert.EqualValues(t, 2, l.Ceiling())
}

func TestProbeUpRestoresOneUnitPerRelease(t *testing.T) {
	l := New(Config{Max: 8, Initial: 2, Floor: 1, HalvingFactor: 2})
	require.EqualValues(t, 2, l.Ceiling())

	p, err := l.Acquire(context.Background())
	require.NoError(t, err)
	p.Release()

	assert.EqualValues(t, 3, l.Ceiling())
}
