package app

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"minimarket/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed demo_catalog.yaml
var demoCatalog []byte

// CatalogFile is the YAML layout read by `posctl seed` and the demo store.
type CatalogFile struct {
	Products []CatalogItem `yaml:"products"`
}

type CatalogItem struct {
	Code           string `yaml:"code"`
	Name           string `yaml:"name"`
	Description    string `yaml:"description"`
	Category       string `yaml:"category"`
	Brand          string `yaml:"brand"`
	CostPrice      string `yaml:"cost_price"`
	SalePrice      string `yaml:"sale_price"`
	CurrentStock   int    `yaml:"current_stock"`
	MinStock       int    `yaml:"min_stock"`
	MaxStock       int    `yaml:"max_stock"`
	ExpirationDate string `yaml:"expiration_date"`
	ImageURL       string `yaml:"image_url"`
}

// ParseCatalog decodes a catalog file into products with fresh ids, all
// stamped with now.
func ParseCatalog(r io.Reader, now time.Time) ([]model.Product, error) {
	var f CatalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	out := make([]model.Product, 0, len(f.Products))
	for i, it := range f.Products {
		p, err := it.product(now)
		if err != nil {
			return nil, fmt.Errorf("catalog item %d (%s): %w", i+1, it.Code, err)
		}
		out = append(out, p)
	}
	return out, nil
}

func (it CatalogItem) product(now time.Time) (model.Product, error) {
	if strings.TrimSpace(it.Code) == "" || strings.TrimSpace(it.Name) == "" {
		return model.Product{}, errors.New("code and name are required")
	}
	cost, err := decimal.NewFromString(it.CostPrice)
	if err != nil {
		return model.Product{}, fmt.Errorf("cost_price: %w", err)
	}
	sale, err := decimal.NewFromString(it.SalePrice)
	if err != nil {
		return model.Product{}, fmt.Errorf("sale_price: %w", err)
	}
	p := model.Product{
		ID:               uuid.NewString(),
		Code:             strings.TrimSpace(it.Code),
		Name:             strings.TrimSpace(it.Name),
		Description:      it.Description,
		Category:         it.Category,
		Brand:            it.Brand,
		CostPrice:        cost,
		SalePrice:        sale,
		ProfitPercentage: model.ProfitPercentage(cost, sale),
		CurrentStock:     it.CurrentStock,
		MinStock:         it.MinStock,
		MaxStock:         it.MaxStock,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if it.ExpirationDate != "" {
		if _, err := time.Parse(model.DateLayout, it.ExpirationDate); err != nil {
			return model.Product{}, fmt.Errorf("expiration_date: %w", err)
		}
		d := it.ExpirationDate
		p.ExpirationDate = &d
	}
	if it.ImageURL != "" {
		u := it.ImageURL
		p.ImageURL = &u
	}
	return p, nil
}

// DemoCatalog is the catalog the in-memory store starts with.
func DemoCatalog(now time.Time) []model.Product {
	products, err := ParseCatalog(bytes.NewReader(demoCatalog), now)
	if err != nil {
		panic(err)
	}
	return products
}
