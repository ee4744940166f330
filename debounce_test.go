package combobox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDebounceSchedulerCollapsesBursts(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	d := NewDebounceScheduler(200*time.Millisecond, clock)

	var calls []int
	for i := range 5 {
		d.Schedule(func() { calls = append(calls, i) })
		clock.Advance(50 * time.Millisecond)
	}
	assert.Empty(t, calls, "nothing fires while calls keep coming")
	assert.True(t, d.Pending())

	clock.Advance(150 * time.Millisecond)
	assert.Equal(t, []int{4}, calls, "only the last call runs, once")
	assert.False(t, d.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, []int{4}, calls)
}

func TestDebounceSchedulerCancel(t *testing.T) {
	t.Parallel()

	clock := newFakeClock()
	d := NewDebounceScheduler(100*time.Millisecond, clock)

	fired := false
	d.Schedule(func() { fired = true })
	d.Cancel()
	clock.Advance(time.Second)

	assert.False(t, fired)
	assert.Equal(t, 0, clock.Pending())
}

func TestDebounceSchedulerZeroDelay(t *testing.T) {
	t.Parallel()

	for _, delay := range []time.Duration{0, -time.Second} {
		d := NewDebounceScheduler(delay, newFakeClock())
		assert.Equal(t, time.Duration(0), d.Delay())

		fired := 0
		d.Schedule(func() { fired++ })
		assert.Equal(t, 1, fired, "runs synchronously")
		assert.False(t, d.Pending())
	}
}

func TestDebounceSchedulerSupersededTimer(t *testing.T) {
	t.Parallel()

	// A timer whose Stop reports false has already been handed to the clock;
	// the scheduler must still drop its call.
	clock := newFakeClock()
	d := NewDebounceScheduler(100*time.Millisecond, clock)

	var got []string
	d.Schedule(func() { got = append(got, "first") })
	first := clock.timers[0]
	d.Schedule(func() { got = append(got, "second") })

	first.fn()
	assert.Empty(t, got)

	clock.Advance(100 * time.Millisecond)
	assert.Equal(t, []string{"second"}, got)
}

func TestDebounceSchedulerRealClock(t *testing.T) {
	t.Parallel()

	d := NewDebounceScheduler(10*time.Millisecond, nil)
	done := make(chan struct{})
	d.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("debounced call never ran")
	}
}
