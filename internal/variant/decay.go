package variant

import (
	"math"
	"time"
)

const DefaultDecayPeriod = 12 * time.Hour

// Remaining is the countdown until a decaying option reaches zero.
type Remaining struct {
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

type StockInfo struct {
	CurrentStock int  `json:"current_stock"`
	IsActive     bool `json:"is_active"`
}

type activation struct {
	at    time.Time
	stock int
}

// DecayStore simulates stock depletion for top-level options. Values are
// derived on read from the recorded activation time; nothing ticks.
// A DecayStore is not safe for concurrent use.
type DecayStore struct {
	period   time.Duration
	now      func() time.Time
	original map[string]int
	active   map[string]activation
}

type DecayOption func(*DecayStore)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) DecayOption {
	return func(d *DecayStore) {
		if now != nil {
			d.now = now
		}
	}
}

func NewDecayStore(nodes []Node, period time.Duration, opts ...DecayOption) *DecayStore {
	if period <= 0 {
		period = DefaultDecayPeriod
	}
	d := &DecayStore{
		period:   period,
		now:      time.Now,
		active:   map[string]activation{},
	}
	for _, o := range opts {
		o(d)
	}
	d.Sync(nodes)
	return d
}

// Sync replaces the original stock with the one in nodes. Activations of
// keys still present are kept; keys no longer present are forgotten.
func (d *DecayStore) Sync(nodes []Node) {
	original := make(map[string]int, len(nodes))
	for _, n := range nodes {
		if _, dup := original[n.Key]; dup {
			continue
		}
		original[n.Key] = n.Stock
	}
	for key := range d.active {
		if _, ok := original[key]; !ok {
			delete(d.active, key)
		}
	}
	d.original = original
}

func (d *DecayStore) Period() time.Duration { return d.period }

// Activate starts (or restarts) the decay window of an option.
// Unknown keys are ignored.
func (d *DecayStore) Activate(key string) {
	stock, ok := d.original[key]
	if !ok {
		return
	}
	d.active[key] = activation{at: d.now(), stock: stock}
}

func (d *DecayStore) Reset(key string) { delete(d.active, key) }

func (d *DecayStore) ResetAll() { d.active = map[string]activation{} }

func (d *DecayStore) elapsedFraction(a activation) float64 {
	elapsed := d.now().Sub(a.at)
	if elapsed <= 0 {
		return 0
	}
	f := float64(elapsed) / float64(d.period)
	if f > 1 {
		return 1
	}
	return f
}

// CurrentStock devuelve el stock simulado, siempre dentro de [0, original].
// Sin activación (o con clave desconocida) devuelve el stock original.
func (d *DecayStore) CurrentStock(key string) int {
	a, ok := d.active[key]
	if !ok {
		return d.original[key]
	}
	v := int(math.Floor(float64(a.stock) * (1 - d.elapsedFraction(a))))
	if v < 0 {
		return 0
	}
	if v > a.stock {
		return a.stock
	}
	return v
}

// TimeRemaining returns false when the option was never activated or its
// window already ran out.
func (d *DecayStore) TimeRemaining(key string) (Remaining, bool) {
	a, ok := d.active[key]
	if !ok {
		return Remaining{}, false
	}
	left := a.at.Add(d.period).Sub(d.now())
	if left <= 0 {
		return Remaining{}, false
	}
	// redondeo hacia arriba: mientras quede algo no se muestra 0:00
	secs := int((left + time.Second - 1) / time.Second)
	return Remaining{Minutes: secs / 60, Seconds: secs % 60}, true
}

func (d *DecayStore) StockInfo(key string) StockInfo {
	_, active := d.active[key]
	return StockInfo{CurrentStock: d.CurrentStock(key), IsActive: active}
}
