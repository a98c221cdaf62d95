package app

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/phenrril/newmobile/internal/adapters/httpserver"
	"github.com/phenrril/newmobile/internal/adapters/importer"
	"github.com/phenrril/newmobile/internal/adapters/repo/postgres"
	"github.com/phenrril/newmobile/internal/domain"
	"github.com/phenrril/newmobile/internal/usecase"
	"github.com/phenrril/newmobile/internal/variant"
)

type App struct {
	DB        *gorm.DB
	Config    Config
	ProductUC *usecase.ProductUC
	Sessions  *usecase.VariantSessions
}

func NewApp(db *gorm.DB, cfg Config) (*App, error) {
	if db == nil {
		return nil, errors.New("db nil")
	}
	prodRepo := postgres.NewProductRepo(db)

	app := &App{DB: db, Config: cfg}
	app.ProductUC = &usecase.ProductUC{Products: prodRepo, Importer: importer.XLSX{}}
	app.Sessions = &usecase.VariantSessions{
		Config: variant.Config{DecayPeriod: cfg.DecayPeriod, BundleDivisor: cfg.BundleDivisor},
		TTL:    cfg.SessionTTL,
	}
	return app, nil
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.ProductUC, a.Sessions, a.Config.AdminToken)
}

func (a *App) MigrateAndSeed() error {
	if err := a.DB.AutoMigrate(&domain.Product{}); err != nil {
		return err
	}
	_ = a.DB.Exec("ALTER TABLE products ADD COLUMN IF NOT EXISTS discount_price DECIMAL(12,2)").Error
	_ = a.DB.Exec("ALTER TABLE products ADD COLUMN IF NOT EXISTS variants JSONB DEFAULT '[]'::jsonb").Error
	_ = a.DB.Exec("UPDATE products SET active = true WHERE active IS NULL").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_products_active ON products(active)").Error

	if err := backfillSlugs(a.DB); err != nil {
		return err
	}
	if a.Config.Seed {
		return seedProducts(a.DB)
	}
	return nil
}

// backfillSlugs completa los productos sin slug con la misma regla que Create.
func backfillSlugs(db *gorm.DB) error {
	var existing []string
	if err := db.Model(&domain.Product{}).Where("slug <> ''").Pluck("slug", &existing).Error; err != nil {
		return err
	}
	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s] = true
	}

	var missing []domain.Product
	if err := db.Select("id", "name").Where("slug IS NULL OR slug = ''").Find(&missing).Error; err != nil {
		return err
	}
	for _, p := range missing {
		slug := usecase.UniqueSlug(slugBase(p), taken)
		taken[slug] = true
		if err := db.Model(&domain.Product{}).Where("id = ?", p.ID).Update("slug", slug).Error; err != nil {
			return err
		}
	}
	if len(missing) > 0 {
		log.Info().Int("products", len(missing)).Msg("slugs completados")
	}
	return nil
}

func slugBase(p domain.Product) string {
	if base := usecase.Slugify(p.Name); base != "" {
		return base
	}
	return p.ID.String()[:8]
}

func seedProducts(db *gorm.DB) error {
	var count int64
	if err := db.Model(&domain.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, p := range demoProducts() {
		if err := db.Create(&p).Error; err != nil {
			return err
		}
	}
	log.Info().Int("products", len(demoProducts())).Msg("seed de productos")
	return nil
}

func demoProducts() []domain.Product {
	yes := true
	n := func(v int) *int { return &v }
	ars := func(s string) decimal.NullDecimal { return decimal.NewNullDecimal(decimal.RequireFromString(s)) }
	return []domain.Product{
		{
			ID: uuid.New(), Slug: "iphone-15", Name: "iPhone 15", Brand: "Apple", Model: "15", Category: "celulares",
			Price: decimal.RequireFromString("1299999"), Active: true,
			Variants: []domain.VariantRecord{
				{Name: "Negro", Active: &yes, Stock: n(6), StorageOptions: []domain.VariantRecord{
					{Name: "128GB", Price: ars("1299999"), Stock: n(4), NetworkOptions: []domain.VariantRecord{
						{Name: "Liberado", Stock: n(3), Conditions: []domain.VariantRecord{
							{Name: "Nuevo", Price: ars("1349999"), Stock: n(2)},
							{Name: "Reacondicionado", Price: ars("1099999"), Stock: n(1)},
						}},
						{Name: "Bloqueado", Price: ars("1199999"), Stock: n(0)},
					}},
					{Name: "256GB", Price: ars("1499999"), Quantity: n(2)},
				}},
				{Name: "Azul", Active: &yes, Stock: n(0), Price: ars("1279999")},
				{Name: "Rosa", Active: &yes, Stock: n(3), StorageOptions: []domain.VariantRecord{
					{Name: "128GB", Price: ars("1289999"), Stock: n(3)},
				}},
			},
		},
		{
			ID: uuid.New(), Slug: "moto-g84", Name: "Moto G84", Brand: "Motorola", Model: "G84", Category: "celulares",
			Price: decimal.RequireFromString("459999"), DiscountPrice: ars("429999"), Active: true, Stock: 8,
		},
	}
}
