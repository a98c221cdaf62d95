package variant

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/phenrril/newmobile/internal/domain"
)

func intp(v int) *int { return &v }
func boolp(v bool) *bool { return &v }

func price(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

type fakeClock struct{ t time.Time }

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// phoneProduct arma un celular con los cuatro niveles.
//
//	Negro (5)        128GB $900 (3)  Liberado $950 (2)  Nuevo $1000 (1), Usado $800 (0)
//	                                 Bloqueado $850 (0)
//	                 256GB $1100 (0)
//	Azul $700 (0)
//	Rojo (9)   sin "active": oculto en color
//	Verde (4)  active=false
func phoneProduct() *domain.Product {
	return &domain.Product{
		ID:    uuid.MustParse("7b0c1d7e-4f43-4a57-9a26-3f0b1c1f2a10"),
		Slug:  "iphone-15",
		Name:  "iPhone 15",
		Price: decimal.RequireFromString("999"),
		Variants: []domain.VariantRecord{
			{
				ID: "c1", Name: "Negro", Stock: intp(5), Active: boolp(true),
				StorageOptions: []domain.VariantRecord{
					{
						ID: "s1", Name: "128GB", Price: price("900"), Stock: intp(3),
						NetworkOptions: []domain.VariantRecord{
							{
								ID: "n1", Name: "Liberado", Price: price("950"), Stock: intp(2),
								Conditions: []domain.VariantRecord{
									{ID: "k1", Name: "Nuevo", Price: price("1000"), Stock: intp(1)},
									{ID: "k2", Name: "Usado", Price: price("800"), Stock: intp(0)},
								},
							},
							{ID: "n2", Name: "Bloqueado", Price: price("850"), Stock: intp(0)},
						},
					},
					{ID: "s2", Name: "256GB", Price: price("1100"), Stock: intp(0)},
				},
			},
			{ID: "c2", Name: "Azul", Price: price("700"), Stock: intp(0), Active: boolp(true)},
			{ID: "c3", Name: "Rojo", Stock: intp(9)},
			{ID: "c4", Name: "Verde", Stock: intp(4), Active: boolp(false)},
		},
	}
}
