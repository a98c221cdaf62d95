// Package variant resolves the four nested levels of purchasable variation
// of a product (color > storage > network > condition): which options are
// selectable, which one is selected by default, what price and stock are
// shown, and the simulated stock decay used for urgency messaging.
package variant

import (
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/phenrril/newmobile/internal/domain"
)

type Level int

const (
	LevelColor Level = iota
	LevelStorage
	LevelNetwork
	LevelCondition
)

// Levels en orden de menos a más profundo.
var Levels = [...]Level{LevelColor, LevelStorage, LevelNetwork, LevelCondition}

const levelCount = len(Levels)

func (l Level) String() string {
	switch l {
	case LevelColor:
		return "color"
	case LevelStorage:
		return "storage"
	case LevelNetwork:
		return "network"
	case LevelCondition:
		return "condition"
	}
	return "unknown"
}

func (l Level) valid() bool { return l >= LevelColor && l <= LevelCondition }

// ParseLevel acepta el nombre del nivel sin distinguir mayúsculas.
func ParseLevel(s string) (Level, bool) {
	for _, l := range Levels {
		if strings.EqualFold(strings.TrimSpace(s), l.String()) {
			return l, true
		}
	}
	return 0, false
}

// Node is one selectable option at a given level, in canonical shape.
type Node struct {
	ID    string
	Key   string
	Price decimal.NullDecimal
	Stock int
	// nil means the source record had no "active" field.
	Active   *bool
	Children []Node
}

// HasChildren reports whether the node delegates price and stock to a deeper level.
func (n Node) HasChildren() bool { return len(n.Children) > 0 }

// visibleAt applies the per-level visibility rule. Color options need an
// explicit active=true; deeper options are hidden only by an explicit false.
func (n Node) visibleAt(level Level) bool {
	if level == LevelColor {
		return n.Active != nil && *n.Active
	}
	return n.Active == nil || *n.Active
}

// Normalize converts raw records at the given level into canonical nodes.
// Records without any usable display key are dropped.
func Normalize(records []domain.VariantRecord, level Level) []Node {
	if len(records) == 0 || !level.valid() {
		return nil
	}
	out := make([]Node, 0, len(records))
	for _, r := range records {
		n, ok := normalizeRecord(r, level)
		if !ok {
			log.Debug().Str("level", level.String()).Str("id", r.ID).Msg("variante sin clave descartada")
			continue
		}
		out = append(out, n)
	}
	return out
}

func normalizeRecord(r domain.VariantRecord, level Level) (Node, bool) {
	key := displayKey(r, level)
	if key == "" {
		return Node{}, false
	}
	n := Node{
		ID:     strings.TrimSpace(r.ID),
		Key:    key,
		Price:  r.Price,
		Stock:  stockOf(r),
		Active: r.Active,
	}
	if level < LevelCondition {
		n.Children = Normalize(childRecords(r, level), level+1)
	}
	return n, true
}

func displayKey(r domain.VariantRecord, level Level) string {
	if k := strings.TrimSpace(r.Name); k != "" {
		return k
	}
	var alt string
	switch level {
	case LevelColor:
		alt = r.Color
	case LevelStorage:
		alt = r.Capacity
	case LevelNetwork:
		alt = r.Network
	case LevelCondition:
		alt = r.Condition
	}
	if k := strings.TrimSpace(alt); k != "" {
		return k
	}
	return strings.TrimSpace(r.ID)
}

// stock gana sobre quantity cuando vienen los dos.
func stockOf(r domain.VariantRecord) int {
	v := 0
	switch {
	case r.Stock != nil:
		v = *r.Stock
	case r.Quantity != nil:
		v = *r.Quantity
	}
	if v < 0 {
		return 0
	}
	return v
}

// childRecords devuelve sólo la lista que corresponde al siguiente nivel;
// listas con nombre de otro nivel se ignoran.
func childRecords(r domain.VariantRecord, level Level) []domain.VariantRecord {
	switch level {
	case LevelColor:
		return r.StorageOptions
	case LevelStorage:
		return r.NetworkOptions
	case LevelNetwork:
		if len(r.Conditions) > 0 {
			return r.Conditions
		}
		return r.ConditionOptions
	}
	return nil
}

// Tree is the normalized, immutable view of one product for a rendering session.
type Tree struct {
	ProductID     string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int
	Variants      []Node
}

func NewTree(p *domain.Product) *Tree {
	if p == nil {
		return &Tree{}
	}
	stock := p.Stock
	if stock < 0 {
		stock = 0
	}
	return &Tree{
		ProductID:     p.ID.String(),
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		Stock:         stock,
		Variants:      Normalize(p.Variants, LevelColor),
	}
}

// BasePrice is the root fallback: discount_price when set, price otherwise.
func (t *Tree) BasePrice() decimal.Decimal {
	if t.DiscountPrice.Valid {
		return t.DiscountPrice.Decimal
	}
	return t.Price
}

// find returns the first node whose display key matches.
func find(nodes []Node, key string) (*Node, bool) {
	if key == "" {
		return nil, false
	}
	for i := range nodes {
		if nodes[i].Key == key {
			return &nodes[i], true
		}
	}
	return nil, false
}

func visible(nodes []Node, level Level) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.visibleAt(level) {
			out = append(out, n)
		}
	}
	return out
}
