package variant

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phenrril/newmobile/internal/domain"
)

func TestNormalize(t *testing.T) {
	testCases := []struct {
		name  string
		rec   domain.VariantRecord
		level Level
		check func(t *testing.T, nodes []Node)
	}{
		{
			name:  "stock wins over quantity",
			rec:   domain.VariantRecord{Name: "Negro", Stock: intp(3), Quantity: intp(8)},
			level: LevelColor,
			check: func(t *testing.T, nodes []Node) {
				assert.Equal(t, 3, nodes[0].Stock)
			},
		},
		{
			name:  "quantity used when stock is absent",
			rec:   domain.VariantRecord{Name: "Negro", Quantity: intp(8)},
			level: LevelColor,
			check: func(t *testing.T, nodes []Node) {
				assert.Equal(t, 8, nodes[0].Stock)
			},
		},
		{
			name:  "negative stock is clamped",
			rec:   domain.VariantRecord{Name: "Negro", Stock: intp(-4)},
			level: LevelColor,
			check: func(t *testing.T, nodes []Node) {
				assert.Equal(t, 0, nodes[0].Stock)
			},
		},
		{
			name: "conditions wins over conditionOptions",
			rec: domain.VariantRecord{
				Name:             "Liberado",
				Conditions:       []domain.VariantRecord{{Name: "Nuevo"}},
				ConditionOptions: []domain.VariantRecord{{Name: "Usado"}, {Name: "Reacondicionado"}},
			},
			level: LevelNetwork,
			check: func(t *testing.T, nodes []Node) {
				require.Len(t, nodes[0].Children, 1)
				assert.Equal(t, "Nuevo", nodes[0].Children[0].Key)
			},
		},
		{
			name: "conditionOptions accepted as alias",
			rec: domain.VariantRecord{
				Name:             "Liberado",
				ConditionOptions: []domain.VariantRecord{{Name: "Usado"}},
			},
			level: LevelNetwork,
			check: func(t *testing.T, nodes []Node) {
				require.Len(t, nodes[0].Children, 1)
				assert.Equal(t, "Usado", nodes[0].Children[0].Key)
			},
		},
		{
			name: "lists of another level are ignored",
			rec: domain.VariantRecord{
				Name:           "Negro",
				NetworkOptions: []domain.VariantRecord{{Name: "Liberado"}},
			},
			level: LevelColor,
			check: func(t *testing.T, nodes []Node) {
				assert.False(t, nodes[0].HasChildren())
			},
		},
		{
			name:  "display key falls back to level field then id",
			rec:   domain.VariantRecord{ID: "x9", Capacity: " 256GB "},
			level: LevelStorage,
			check: func(t *testing.T, nodes []Node) {
				assert.Equal(t, "256GB", nodes[0].Key)
				assert.Equal(t, "x9", nodes[0].ID)
			},
		},
		{
			name:  "record without key is dropped",
			rec:   domain.VariantRecord{Stock: intp(2)},
			level: LevelCondition,
			check: func(t *testing.T, nodes []Node) {
				assert.Empty(t, nodes)
			},
		},
		{
			name: "condition level has no children",
			rec: domain.VariantRecord{
				Name:       "Nuevo",
				Conditions: []domain.VariantRecord{{Name: "Otro"}},
			},
			level: LevelCondition,
			check: func(t *testing.T, nodes []Node) {
				assert.Nil(t, nodes[0].Children)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.check(t, Normalize([]domain.VariantRecord{tc.rec}, tc.level))
		})
	}
}

func TestNewTree(t *testing.T) {
	p := phoneProduct()
	tree := NewTree(p)

	assert.Equal(t, p.ID.String(), tree.ProductID)
	require.Len(t, tree.Variants, 4)
	assert.Equal(t, "999", tree.BasePrice().String())

	p.DiscountPrice = decimal.NewNullDecimal(decimal.RequireFromString("899.50"))
	assert.Equal(t, "899.5", NewTree(p).BasePrice().String())

	assert.Empty(t, NewTree(nil).Variants)
}

func TestParseLevel(t *testing.T) {
	l, ok := ParseLevel(" Storage ")
	assert.True(t, ok)
	assert.Equal(t, LevelStorage, l)

	_, ok = ParseLevel("size")
	assert.False(t, ok)
}
