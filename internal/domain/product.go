package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("no encontrado")

type Product struct {
	ID            uuid.UUID           `gorm:"type:uuid;primaryKey" json:"id"`
	Slug          string              `gorm:"uniqueIndex;size:140" json:"slug"`
	Name          string              `gorm:"size:180" json:"name"`
	Brand         string              `gorm:"size:100" json:"brand,omitempty"`
	Model         string              `gorm:"size:140" json:"model,omitempty"`
	Category      string              `gorm:"size:100" json:"category,omitempty"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2)" json:"price"`
	DiscountPrice decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"discount_price"`
	Stock         int                 `gorm:"type:int;default:0" json:"stock"`
	Active        bool                `gorm:"default:true;index" json:"active"`
	// Árbol de variantes tal como llega del backend (color > storage > network > condition).
	Variants  []VariantRecord `gorm:"type:jsonb;serializer:json" json:"variants"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// VariantRecord es la forma cruda de un nivel de variante. Los alias
// (stock/quantity, conditions/conditionOptions) se resuelven en variant.Normalize.
type VariantRecord struct {
	ID        string              `json:"id,omitempty"`
	Name      string              `json:"name,omitempty"`
	Color     string              `json:"color,omitempty"`
	Capacity  string              `json:"capacity,omitempty"`
	Network   string              `json:"network,omitempty"`
	Condition string              `json:"condition,omitempty"`
	Price     decimal.NullDecimal `json:"price"`
	Stock     *int                `json:"stock,omitempty"`
	Quantity  *int                `json:"quantity,omitempty"`
	Active    *bool               `json:"active,omitempty"`

	StorageOptions   []VariantRecord `json:"storageOptions,omitempty"`
	NetworkOptions   []VariantRecord `json:"networkOptions,omitempty"`
	Conditions       []VariantRecord `json:"conditions,omitempty"`
	ConditionOptions []VariantRecord `json:"conditionOptions,omitempty"`
}

type ProductFilter struct {
	Category string
	Query    string
	Page     int
	PageSize int
}

type ProductRepo interface {
	Save(ctx context.Context, p *Product) error
	FindBySlug(ctx context.Context, slug string) (*Product, error)
	List(ctx context.Context, f ProductFilter) ([]Product, int64, error)
	UpdateVariants(ctx context.Context, productID uuid.UUID, variants []VariantRecord) error
}
