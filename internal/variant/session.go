package variant

import (
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	DecayPeriod   time.Duration
	BundleDivisor decimal.Decimal
	Now           func() time.Time
}

// Session is the per-visitor engine state for one product: selection,
// decay store and optional bundle override. Not safe for concurrent use.
type Session struct {
	cfg      Config
	selector *Selector
	decay    *DecayStore
	bundle   *Bundle
}

func NewSession(tree *Tree, cfg Config) *Session {
	if cfg.BundleDivisor.Sign() <= 0 {
		cfg.BundleDivisor = DefaultBundleDivisor
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	s := &Session{cfg: cfg, selector: &Selector{}}
	s.Load(tree)
	return s
}

// Load feeds a (possibly re-fetched) product into the session. A different
// product identity discards selection, decay state and bundle; the same
// identity only refreshes the original stock of the colors.
func (s *Session) Load(tree *Tree) {
	if tree == nil {
		tree = &Tree{}
	}
	prev := s.selector.tree
	changed := prev == nil || prev.ProductID != tree.ProductID
	before := s.selector.keys[LevelColor]
	if changed {
		s.bundle = nil
		s.decay = NewDecayStore(tree.Variants, s.cfg.DecayPeriod, WithClock(s.cfg.Now))
		before = ""
	} else {
		s.decay.Sync(tree.Variants)
	}
	s.selector.Load(tree)
	s.activateIfChanged(before)
}

func (s *Session) activateIfChanged(before string) {
	if c := s.selector.keys[LevelColor]; c != "" && c != before {
		s.decay.Activate(c)
	}
}

// SelectAt changes the selection. Choosing a color always (re)starts its
// decay window, even if it was already selected.
func (s *Session) SelectAt(level Level, key string) bool {
	before := s.selector.keys[LevelColor]
	if !s.selector.SelectAt(level, key) {
		return false
	}
	if level == LevelColor {
		s.decay.Activate(key)
		return true
	}
	s.activateIfChanged(before)
	return true
}

func (s *Session) Selection() Selection { return s.selector.Selection() }

func (s *Session) Candidates(level Level) []Node { return s.selector.Candidates(level) }

// DisplayCandidates is Candidates ordered for rendering.
func (s *Session) DisplayCandidates(level Level) []Node {
	return SortForDisplay(s.selector.Candidates(level))
}

func (s *Session) SetBundle(b *Bundle) { s.bundle = b }

func (s *Session) Bundle() *Bundle { return s.bundle }

func (s *Session) Quote() Quote {
	return Resolve(s.selector.tree, s.selector.Path(), s.bundle, s.cfg.BundleDivisor)
}

func (s *Session) StockInfo(key string) StockInfo { return s.decay.StockInfo(key) }

func (s *Session) TimeRemaining(key string) (Remaining, bool) { return s.decay.TimeRemaining(key) }

func (s *Session) ResetVariant(key string) { s.decay.Reset(key) }

func (s *Session) ResetAllVariants() { s.decay.ResetAll() }

func (s *Session) ProductID() string { return s.selector.tree.ProductID }
