package variant

import "github.com/shopspring/decimal"

// DefaultBundleDivisor convierte precios de bundle cotizados en otra unidad.
var DefaultBundleDivisor = decimal.NewFromInt(132)

// Bundle is an externally chosen volume/tier price. Foreign prices are
// quoted in another unit and get divided by the configured divisor.
type Bundle struct {
	Price   decimal.Decimal `json:"price"`
	Foreign bool            `json:"foreign"`
}

type Quote struct {
	Price decimal.Decimal `json:"price"`
	Stock int             `json:"stock"`
	// Level of the node that supplied the stock; -1 when it came from the product.
	StockLevel Level `json:"-"`
}

// Resolve computes the display price and stock for a selection path
// (matched nodes, shallow to deep). The deepest matched node wins: a node
// with a selected child never supplies price or stock of its own, and
// prices missing at depth are inherited from the nearest ancestor, ending
// at the product's base price. A bundle overrides every level.
func Resolve(tree *Tree, path []Node, bundle *Bundle, divisor decimal.Decimal) Quote {
	if tree == nil {
		tree = &Tree{}
	}
	q := Quote{Price: tree.BasePrice(), Stock: tree.Stock, StockLevel: -1}
	if n := len(path); n > 0 {
		q.Stock = path[n-1].Stock
		q.StockLevel = Level(n - 1)
		for i := n - 1; i >= 0; i-- {
			if path[i].Price.Valid {
				q.Price = path[i].Price.Decimal
				break
			}
		}
	}
	if bundle != nil {
		q.Price = bundlePrice(*bundle, divisor)
	}
	return q
}

func bundlePrice(b Bundle, divisor decimal.Decimal) decimal.Decimal {
	if !b.Foreign {
		return b.Price
	}
	if divisor.Sign() <= 0 {
		divisor = DefaultBundleDivisor
	}
	return b.Price.Div(divisor).Round(2)
}
