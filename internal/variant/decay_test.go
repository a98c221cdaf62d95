package variant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestDecay(clock *fakeClock) *DecayStore {
	nodes := []Node{{Key: "X", Stock: 10}, {Key: "Y", Stock: 3}, {Key: "Z", Stock: 0}}
	return NewDecayStore(nodes, 12*time.Hour, WithClock(clock.Now))
}

func TestDecayBeforeActivation(t *testing.T) {
	clock := newFakeClock()
	d := newTestDecay(clock)
	clock.Advance(5 * time.Hour)

	assert.Equal(t, 10, d.CurrentStock("X"))
	assert.Equal(t, StockInfo{CurrentStock: 10, IsActive: false}, d.StockInfo("X"))
	_, ok := d.TimeRemaining("X")
	assert.False(t, ok)
}

func TestDecayActivationReset(t *testing.T) {
	clock := newFakeClock()
	d := newTestDecay(clock)

	d.Activate("X")
	clock.Advance(6 * time.Hour)
	assert.Equal(t, 5, d.CurrentStock("X"))

	d.Activate("X")
	assert.Equal(t, 10, d.CurrentStock("X"))
	rem, ok := d.TimeRemaining("X")
	assert.True(t, ok)
	assert.Equal(t, Remaining{Minutes: 720, Seconds: 0}, rem)
}

func TestDecayClamp(t *testing.T) {
	testCases := []struct {
		name    string
		advance time.Duration
		want    int
	}{
		{name: "at activation", advance: 0, want: 10},
		{name: "clock went backwards", advance: -3 * time.Hour, want: 10},
		{name: "quarter", advance: 3 * time.Hour, want: 7},
		{name: "exactly the period", advance: 12 * time.Hour, want: 0},
		{name: "far beyond the period", advance: 400 * time.Hour, want: 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			clock := newFakeClock()
			d := newTestDecay(clock)
			d.Activate("X")
			clock.Advance(tc.advance)

			got := d.CurrentStock("X")
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 10)
		})
	}
}

func TestDecayTimeRemaining(t *testing.T) {
	clock := newFakeClock()
	d := newTestDecay(clock)
	d.Activate("Y")

	clock.Advance(11*time.Hour + 58*time.Minute + 30*time.Second)
	rem, ok := d.TimeRemaining("Y")
	assert.True(t, ok)
	assert.Equal(t, Remaining{Minutes: 1, Seconds: 30}, rem)

	clock.Advance(time.Minute + 29*time.Second + 500*time.Millisecond)
	rem, ok = d.TimeRemaining("Y")
	assert.True(t, ok)
	assert.Equal(t, Remaining{Minutes: 0, Seconds: 1}, rem, "partial second rounds up")

	clock.Advance(2 * time.Minute)
	_, ok = d.TimeRemaining("Y")
	assert.False(t, ok, "exhausted window has no countdown")
	assert.Equal(t, StockInfo{CurrentStock: 0, IsActive: true}, d.StockInfo("Y"))
}

func TestDecayUnknownKey(t *testing.T) {
	clock := newFakeClock()
	d := newTestDecay(clock)

	d.Activate("nope")
	clock.Advance(time.Hour)
	assert.Equal(t, 0, d.CurrentStock("nope"))
	assert.False(t, d.StockInfo("nope").IsActive)
}

func TestDecayReset(t *testing.T) {
	clock := newFakeClock()
	d := newTestDecay(clock)
	d.Activate("X")
	d.Activate("Y")
	clock.Advance(6 * time.Hour)

	d.Reset("X")
	assert.Equal(t, 10, d.CurrentStock("X"))
	assert.Equal(t, 1, d.CurrentStock("Y"))

	d.ResetAll()
	assert.Equal(t, 3, d.CurrentStock("Y"))
	assert.False(t, d.StockInfo("Y").IsActive)
}

func TestDecaySync(t *testing.T) {
	clock := newFakeClock()
	d := newTestDecay(clock)
	d.Activate("X")
	d.Activate("Z")
	clock.Advance(6 * time.Hour)

	d.Sync([]Node{{Key: "X", Stock: 20}, {Key: "Y", Stock: 6}, {Key: "W", Stock: 4}})

	assert.Equal(t, StockInfo{CurrentStock: 5, IsActive: true}, d.StockInfo("X"), "running window keeps its snapshot")
	assert.Equal(t, 6, d.CurrentStock("Y"))
	assert.Equal(t, 4, d.CurrentStock("W"))
	assert.Equal(t, StockInfo{}, d.StockInfo("Z"), "removed key is forgotten")

	d.Activate("W")
	assert.True(t, d.StockInfo("W").IsActive)
	d.Activate("X")
	assert.Equal(t, 20, d.CurrentStock("X"))
}

func TestDecayDefaultPeriod(t *testing.T) {
	d := NewDecayStore(nil, 0)
	assert.Equal(t, DefaultDecayPeriod, d.Period())
}
