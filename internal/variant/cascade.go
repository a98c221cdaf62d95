package variant

// Selection holds one display key per level; empty means nothing selected.
type Selection struct {
	Color     string `json:"color"`
	Storage   string `json:"storage"`
	Network   string `json:"network"`
	Condition string `json:"condition"`
}

func selectionOf(keys [levelCount]string) Selection {
	return Selection{
		Color:     keys[LevelColor],
		Storage:   keys[LevelStorage],
		Network:   keys[LevelNetwork],
		Condition: keys[LevelCondition],
	}
}

func (s Selection) At(l Level) string {
	switch l {
	case LevelColor:
		return s.Color
	case LevelStorage:
		return s.Storage
	case LevelNetwork:
		return s.Network
	case LevelCondition:
		return s.Condition
	}
	return ""
}

// Selector keeps the selected key per level consistent with the tree: a
// change at one level clears every deeper level and the cascade is
// recomputed top-down in a single pass.
type Selector struct {
	tree *Tree
	keys [levelCount]string
}

func NewSelector(tree *Tree) *Selector {
	if tree == nil {
		tree = &Tree{}
	}
	s := &Selector{tree: tree}
	s.Recompute()
	return s
}

// Load swaps the tree. When the product identity changes all selections
// are cleared before auto-selection runs again.
func (s *Selector) Load(tree *Tree) {
	if tree == nil {
		tree = &Tree{}
	}
	if s.tree == nil || s.tree.ProductID != tree.ProductID {
		s.keys = [levelCount]string{}
	}
	s.tree = tree
	s.Recompute()
}

func (s *Selector) Tree() *Tree { return s.tree }

func (s *Selector) Selection() Selection { return selectionOf(s.keys) }

// Candidates returns the selectable options at a level in source order.
// It is empty when the parent level has no selection or no children.
func (s *Selector) Candidates(level Level) []Node {
	if !level.valid() {
		return nil
	}
	siblings := s.tree.Variants
	for l := LevelColor; l < level; l++ {
		parent, ok := find(visible(siblings, l), s.keys[l])
		if !ok {
			return nil
		}
		siblings = parent.Children
	}
	return visible(siblings, level)
}

// SelectAt selects key at level and invalidates deeper levels. It returns
// false, leaving the selection untouched, when key is not a candidate.
func (s *Selector) SelectAt(level Level, key string) bool {
	if !level.valid() {
		return false
	}
	if _, ok := find(s.Candidates(level), key); !ok {
		return false
	}
	s.keys[level] = key
	for l := level + 1; l < Level(levelCount); l++ {
		s.keys[l] = ""
	}
	s.Recompute()
	return true
}

// Recompute walks the levels once. Levels without candidates are cleared,
// empty levels get a default, valid selections are kept as they are.
func (s *Selector) Recompute() {
	for _, l := range Levels {
		cands := s.Candidates(l)
		if len(cands) == 0 {
			for d := l; d < Level(levelCount); d++ {
				s.keys[d] = ""
			}
			return
		}
		if _, ok := find(cands, s.keys[l]); ok {
			continue
		}
		s.keys[l] = defaultKey(cands)
		for d := l + 1; d < Level(levelCount); d++ {
			s.keys[d] = ""
		}
	}
}

// defaultKey prefers the first option with stock, then the first option.
func defaultKey(cands []Node) string {
	for _, n := range cands {
		if n.Stock > 0 {
			return n.Key
		}
	}
	return cands[0].Key
}

// Path returns the matched node for each selected level, shallow to deep.
func (s *Selector) Path() []Node {
	path := make([]Node, 0, levelCount)
	siblings := s.tree.Variants
	for _, l := range Levels {
		n, ok := find(visible(siblings, l), s.keys[l])
		if !ok {
			break
		}
		path = append(path, *n)
		siblings = n.Children
	}
	return path
}
