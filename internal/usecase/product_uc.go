package usecase

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/phenrril/newmobile/internal/domain"
)

// VariantImporter convierte una planilla en el árbol de variantes.
type VariantImporter interface {
	Parse(r io.Reader) ([]domain.VariantRecord, ImportStats, error)
}

type ImportStats struct {
	Rows    int `json:"rows"`
	Nodes   int `json:"nodes"`
	Skipped int `json:"skipped"`
}

type ProductUC struct {
	Products domain.ProductRepo
	Importer VariantImporter
}

func (uc *ProductUC) List(ctx context.Context, f domain.ProductFilter) ([]domain.Product, int64, error) {
	if f.PageSize == 0 {
		f.PageSize = 20
	}
	return uc.Products.List(ctx, f)
}

func (uc *ProductUC) GetBySlug(ctx context.Context, slug string) (*domain.Product, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, errors.New("slug vacío")
	}
	return uc.Products.FindBySlug(ctx, slug)
}

func (uc *ProductUC) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Slug == "" {
		p.Slug = Slugify(p.Name)
	}
	return uc.Products.Save(ctx, p)
}

// Slugify arma el slug de un nombre: minúsculas y espacios como guiones.
func Slugify(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), "-"))
}

// UniqueSlug devuelve base, o base-N con el primer N libre en taken.
func UniqueSlug(base string, taken map[string]bool) string {
	slug := base
	for i := 2; taken[slug]; i++ {
		slug = fmt.Sprintf("%s-%d", base, i)
	}
	return slug
}

// --- Variantes ---

// ImportVariants reemplaza el árbol de variantes del producto con el de la planilla.
func (uc *ProductUC) ImportVariants(ctx context.Context, slug string, r io.Reader) (ImportStats, error) {
	if uc.Importer == nil {
		return ImportStats{}, errors.New("importador no configurado")
	}
	p, err := uc.GetBySlug(ctx, slug)
	if err != nil {
		return ImportStats{}, err
	}
	records, stats, err := uc.Importer.Parse(r)
	if err != nil {
		return stats, err
	}
	if len(records) == 0 {
		return stats, errors.New("planilla sin variantes")
	}
	if err := uc.Products.UpdateVariants(ctx, p.ID, records); err != nil {
		return stats, err
	}
	log.Info().Str("slug", p.Slug).Int("rows", stats.Rows).Int("nodes", stats.Nodes).Int("skipped", stats.Skipped).Msg("variantes importadas")
	return stats, nil
}
