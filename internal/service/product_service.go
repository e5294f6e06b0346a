package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"minimarket/internal/apierror"
	"minimarket/internal/catalog"
	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/report"
	"minimarket/internal/state"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

type ProductService interface {
	List(ctx context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error)
	Get(ctx context.Context, id string) (*model.Product, error)
	Create(ctx context.Context, actor Actor, req dto.ProductRequest) (*model.Product, error)
	Update(ctx context.Context, actor Actor, id string, req dto.ProductRequest) (*model.Product, error)
	Delete(ctx context.Context, actor Actor, id string) error
	// Refresh replaces the cached catalog with the Product Store's listing.
	Refresh(ctx context.Context) (int, error)
	Kardex(ctx context.Context, productID string) (*dto.KardexResponse, error)
}

type productService struct {
	store catalog.ProductStore
	state *state.Container
	audit AuditService
	now   clock
}

func NewProductService(store catalog.ProductStore, c *state.Container, audit AuditService) ProductService {
	return &productService{store: store, state: c, audit: audit, now: time.Now}
}

// storeError classifies a Product Store failure.
func storeError(msg string, err error) error {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return apierror.NotFound("Producto no encontrado")
	case errors.Is(err, catalog.ErrDuplicateCode):
		return apierror.ValidationField("code", "Ya existe un producto con ese código")
	}
	log.Error().Err(err).Msg(msg)
	return apierror.RemoteStore(msg, err)
}

func validateProduct(req dto.ProductRequest) error {
	switch {
	case strings.TrimSpace(req.Code) == "":
		return apierror.ValidationField("code", "El código es obligatorio")
	case strings.TrimSpace(req.Name) == "":
		return apierror.ValidationField("name", "El nombre es obligatorio")
	case req.CostPrice.IsNegative():
		return apierror.ValidationField("costPrice", "El precio de costo no puede ser negativo")
	case !req.SalePrice.GreaterThan(req.CostPrice):
		return apierror.ValidationField("salePrice", "El precio de venta debe ser mayor al precio de costo")
	case req.CurrentStock < 0 || req.MinStock < 0 || req.MaxStock < 0:
		return apierror.ValidationField("currentStock", "El stock no puede ser negativo")
	}
	if req.ExpirationDate != nil && *req.ExpirationDate != "" {
		if _, err := time.Parse(model.DateLayout, *req.ExpirationDate); err != nil {
			return apierror.ValidationField("expirationDate", "Fecha de vencimiento inválida (AAAA-MM-DD)")
		}
	}
	return nil
}

func applyRequest(p model.Product, req dto.ProductRequest) model.Product {
	p.Code = strings.TrimSpace(req.Code)
	p.Name = strings.TrimSpace(req.Name)
	p.Description = req.Description
	p.Category = req.Category
	p.Brand = req.Brand
	p.CostPrice = req.CostPrice
	p.SalePrice = req.SalePrice
	p.ProfitPercentage = model.ProfitPercentage(req.CostPrice, req.SalePrice)
	p.CurrentStock = req.CurrentStock
	p.MinStock = req.MinStock
	p.MaxStock = req.MaxStock
	p.ExpirationDate = req.ExpirationDate
	if p.ExpirationDate != nil && *p.ExpirationDate == "" {
		p.ExpirationDate = nil
	}
	p.ImageURL = req.ImageURL
	return p
}

// cacheAction updates a cached product or adds it when the cache missed it.
func cacheAction(s state.State, p model.Product) state.Action {
	if _, ok := s.Product(p.ID); ok {
		return state.UpdateProduct{Product: p}
	}
	return state.AddProduct{Product: p}
}

// stockMovement records a manual stock change in the kardex.
func stockMovement(p model.Product, delta int, actor Actor, at time.Time) state.Action {
	typ, reason, qty := model.KardexEntryType, "Ingreso de stock", delta
	if delta < 0 {
		typ, reason, qty = model.KardexAdjustmentType, "Ajuste de inventario", -delta
	}
	return state.AddKardexEntry{Entry: model.KardexEntry{
		ID:        uuid.NewString(),
		ProductID: p.ID,
		Type:      typ,
		Quantity:  qty,
		UnitCost:  p.CostPrice,
		TotalCost: p.CostPrice.Mul(decimal.NewFromInt(int64(qty))),
		Reason:    reason,
		CreatedAt: at,
		CreatedBy: actor.UserID,
	}}
}

func (s *productService) List(_ context.Context, filter dto.ProductFilter) (*dto.ProductListResponse, error) {
	all := s.state.Snapshot().Products
	data := catalog.Filter{Search: filter.Search, Category: filter.Category}.Apply(all)
	if filter.LowStock {
		low := data[:0:0]
		for _, p := range data {
			if report.LowStock(p) {
				low = append(low, p)
			}
		}
		data = low
	}
	if filter.Sort == "name" {
		catalog.SortByName(data)
	}
	return &dto.ProductListResponse{
		Data:       data,
		Total:      len(data),
		Categories: catalog.Categories(all),
	}, nil
}

func (s *productService) Get(_ context.Context, id string) (*model.Product, error) {
	p, ok := s.state.Snapshot().Product(id)
	if !ok {
		return nil, apierror.NotFound("Producto no encontrado")
	}
	return &p, nil
}

func (s *productService) Create(ctx context.Context, actor Actor, req dto.ProductRequest) (*model.Product, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	p, err := s.store.Insert(ctx, applyRequest(model.Product{}, req))
	if err != nil {
		return nil, storeError("No se pudo guardar el producto", err)
	}

	actions := []state.Action{state.AddProduct{Product: p}}
	if p.CurrentStock > 0 {
		actions = append(actions, stockMovement(p, p.CurrentStock, actor, s.now()))
	}
	if _, err := s.state.Dispatch(ctx, state.Batch{Actions: actions}); err != nil {
		return nil, fmt.Errorf("cache product: %w", err)
	}

	s.audit.Record(ctx, actor, Change{
		Action: model.AuditCreate, Entity: model.EntityProduct, EntityID: p.ID,
		Details: "Producto creado: " + p.Name, New: p,
	})
	log.Info().Str("product_id", p.ID).Str("code", p.Code).Msg("product created")
	return &p, nil
}

func (s *productService) Update(ctx context.Context, actor Actor, id string, req dto.ProductRequest) (*model.Product, error) {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return nil, err
	}
	if err := validateProduct(req); err != nil {
		return nil, err
	}

	old, ok := s.state.Snapshot().Product(id)
	if !ok {
		fetched, err := s.store.Get(ctx, id)
		if err != nil {
			return nil, storeError("No se pudo leer el producto", err)
		}
		old = fetched
	}

	p, err := s.store.Update(ctx, applyRequest(old, req))
	if err != nil {
		return nil, storeError("No se pudo actualizar el producto", err)
	}

	_, err = s.state.Update(ctx, func(cur state.State) (state.Action, error) {
		actions := []state.Action{cacheAction(cur, p)}
		if delta := p.CurrentStock - old.CurrentStock; delta != 0 {
			actions = append(actions, stockMovement(p, delta, actor, s.now()))
		}
		return state.Batch{Actions: actions}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("cache product: %w", err)
	}

	s.audit.Record(ctx, actor, Change{
		Action: model.AuditUpdate, Entity: model.EntityProduct, EntityID: p.ID,
		Details: "Producto actualizado: " + p.Name, Old: old, New: p,
	})
	return &p, nil
}

func (s *productService) Delete(ctx context.Context, actor Actor, id string) error {
	if err := requireRole(actor, model.RoleAdmin); err != nil {
		return err
	}
	old, _ := s.state.Snapshot().Product(id)
	if err := s.store.Delete(ctx, id); err != nil {
		return storeError("No se pudo eliminar el producto", err)
	}
	if _, err := s.state.Dispatch(ctx, state.DeleteProduct{ID: id}); err != nil {
		return fmt.Errorf("uncache product: %w", err)
	}
	s.audit.Record(ctx, actor, Change{
		Action: model.AuditDelete, Entity: model.EntityProduct, EntityID: id,
		Details: "Producto eliminado: " + old.Name, Old: old,
	})
	return nil
}

func (s *productService) Refresh(ctx context.Context) (int, error) {
	products, err := s.store.List(ctx)
	if err != nil {
		return 0, storeError("No se pudo cargar el catálogo", err)
	}
	if _, err := s.state.Dispatch(ctx, state.LoadData{Products: products}); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *productService) Kardex(_ context.Context, productID string) (*dto.KardexResponse, error) {
	entries := []model.KardexEntry{}
	for _, e := range s.state.Snapshot().KardexEntries {
		if productID == "" || e.ProductID == productID {
			entries = append(entries, e)
		}
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].CreatedAt.After(entries[j].CreatedAt) })
	return &dto.KardexResponse{ProductID: productID, Entries: entries}, nil
}
