package service

import (
	"context"
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

// Sale preconditions, checked in this order.
var (
	ErrNoActiveSession        = apierror.Precondition("no_active_session", "Debe abrir una sesión de caja para realizar ventas")
	ErrEmptyCart              = apierror.Precondition("empty_cart", "El carrito está vacío")
	ErrMissingOperationNumber = apierror.Precondition("missing_operation_number", "Debe ingresar el número de operación para pagos electrónicos")
)

// ErrUnknownPaymentMethod is returned for methods outside model.PaymentMethods.
var ErrUnknownPaymentMethod = apierror.ValidationField("paymentMethod", "Método de pago no válido")

type SaleService interface {
	Process(ctx context.Context, actor Actor, req dto.ProcessSaleRequest) (*model.Sale, error)
	List(ctx context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error)
	// Get accepts a sale id or a sale number.
	Get(ctx context.Context, ref string) (*model.Sale, error)
}

type saleService struct {
	store    catalog.ProductStore
	state    *state.Container
	audit    AuditService
	receipts ReceiptQueue
	now      clock
}

// NewSaleService wires the processor. receipts may be nil, in which case
// customer e-mails are ignored.
func NewSaleService(store catalog.ProductStore, c *state.Container, audit AuditService, receipts ReceiptQueue) SaleService {
	return &saleService{store: store, state: c, audit: audit, receipts: receipts, now: time.Now}
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}

// mergeLines folds repeated products into one line so a sale yields one
// stock change and one kardex exit per product. The first line's name and
// price are kept.
func mergeLines(items []dto.SaleLine) ([]dto.SaleLine, error) {
	out := make([]dto.SaleLine, 0, len(items))
	pos := make(map[string]int, len(items))
	for _, line := range items {
		if line.Quantity <= 0 {
			return nil, apierror.ValidationField("quantity", "La cantidad debe ser mayor a cero")
		}
		if i, ok := pos[line.ProductID]; ok {
			out[i].Quantity += line.Quantity
			continue
		}
		pos[line.ProductID] = len(out)
		out = append(out, line)
	}
	return out, nil
}

// ── Process ──────────────────────────────────────────────────────────────────
// Runs under the container's write lock:
//   1. preconditions against the current state
//   2. one batched stock update on the Product Store
//   3. one Batch action: sale, kardex exits, refreshed products
// A Product Store failure leaves local state untouched.

func (s *saleService) Process(ctx context.Context, actor Actor, req dto.ProcessSaleRequest) (*model.Sale, error) {
	var sale model.Sale

	_, err := s.state.Update(ctx, func(cur state.State) (state.Action, error) {
		if cur.CurrentCashSession == nil && actor.Role != model.RoleAdmin {
			return nil, ErrNoActiveSession
		}
		if len(req.Items) == 0 {
			return nil, ErrEmptyCart
		}
		method := model.PaymentMethod(req.PaymentMethod)
		if method == "" {
			method = model.PaymentCash
		}
		if !method.Valid() {
			return nil, ErrUnknownPaymentMethod
		}
		opNumber := optional(req.OperationNumber)
		if method != model.PaymentCash && opNumber == nil {
			return nil, ErrMissingOperationNumber
		}

		now := s.now()
		sale = model.Sale{
			ID:               uuid.NewString(),
			SaleNumber:       fmt.Sprintf("V-%d", now.UnixMilli()),
			Items:            make([]model.SaleItem, 0, len(req.Items)),
			Tax:              decimal.Zero,
			PaymentMethod:    method,
			OperationNumber:  opNumber,
			CustomerName:     optional(req.CustomerName),
			CustomerDocument: optional(req.CustomerDocument),
			CustomerEmail:    optional(req.CustomerEmail),
			Status:           model.SaleCompleted,
			CreatedAt:        now,
			CreatedBy:        actor.UserID,
		}

		lines, err := mergeLines(req.Items)
		if err != nil {
			return nil, err
		}
		subtotal := decimal.Zero
		var changes []catalog.StockChange
		var kardex []state.Action
		for _, line := range lines {
			product, known := cur.Product(line.ProductID)

			name := line.ProductName
			if name == "" && known {
				name = product.Name
			}
			price := decimal.Zero
			switch {
			case line.UnitPrice != nil:
				price = *line.UnitPrice
			case known:
				price = product.SalePrice
			}
			qty := decimal.NewFromInt(int64(line.Quantity))
			item := model.SaleItem{
				ID:          uuid.NewString(),
				ProductID:   line.ProductID,
				ProductName: name,
				UnitPrice:   price,
				Quantity:    line.Quantity,
				Total:       price.Mul(qty),
			}
			sale.Items = append(sale.Items, item)
			subtotal = subtotal.Add(item.Total)

			if !known {
				continue
			}
			changes = append(changes, catalog.StockChange{ProductID: product.ID, Quantity: line.Quantity})
			ref := sale.SaleNumber
			kardex = append(kardex, state.AddKardexEntry{Entry: model.KardexEntry{
				ID:        uuid.NewString(),
				ProductID: product.ID,
				Type:      model.KardexExit,
				Quantity:  line.Quantity,
				UnitCost:  product.CostPrice,
				TotalCost: product.CostPrice.Mul(qty),
				Reason:    "Venta",
				Reference: &ref,
				CreatedAt: now,
				CreatedBy: actor.UserID,
			}})
		}
		sale.Subtotal = subtotal
		sale.Total = subtotal.Add(sale.Tax)

		var updated []model.Product
		if len(changes) > 0 {
			var err error
			updated, err = s.store.DecrementStock(ctx, changes)
			if err != nil {
				log.Error().Err(err).Str("sale_number", sale.SaleNumber).Msg("stock update failed, sale aborted")
				return nil, apierror.RemoteStore("No se pudo actualizar el stock, la venta no fue registrada", err)
			}
		}

		actions := make([]state.Action, 0, 1+len(kardex)+len(updated))
		actions = append(actions, state.AddSale{Sale: sale})
		actions = append(actions, kardex...)
		for _, p := range updated {
			actions = append(actions, cacheAction(cur, p))
		}
		return state.Batch{Actions: actions}, nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("sale_number", sale.SaleNumber).
		Str("total", sale.Total.StringFixed(2)).
		Str("method", string(sale.PaymentMethod)).
		Int("items", len(sale.Items)).
		Msg("sale completed")
	s.audit.Record(ctx, actor, Change{
		Action: model.AuditSale, Entity: model.EntitySale, EntityID: sale.ID,
		Details: fmt.Sprintf("Venta %s por S/ %s", sale.SaleNumber, sale.Total.StringFixed(2)),
		New:     sale,
	})

	if sale.CustomerEmail != nil && s.receipts != nil {
		if err := s.receipts.EnqueueReceipt(ctx, sale.ID, *sale.CustomerEmail); err != nil {
			log.Warn().Err(err).Str("sale_number", sale.SaleNumber).Msg("receipt delivery not queued")
		}
	}
	return &sale, nil
}

// ── Queries ──────────────────────────────────────────────────────────────────

func (s *saleService) List(_ context.Context, filter dto.SaleFilter) (*dto.SaleListResponse, error) {
	var method model.PaymentMethod
	if filter.PaymentMethod != "" && filter.PaymentMethod != "all" {
		method = model.PaymentMethod(filter.PaymentMethod)
		if !method.Valid() {
			return nil, ErrUnknownPaymentMethod
		}
	}
	since := report.DateRange(filter.Date).Since(s.now())
	q := catalog.Fold(strings.TrimSpace(filter.Search))

	matched := []model.Sale{}
	total := decimal.Zero
	for _, sale := range s.state.Snapshot().Sales {
		if !since.IsZero() && sale.CreatedAt.Before(since) {
			continue
		}
		if method != "" && sale.PaymentMethod != method {
			continue
		}
		if q != "" && !saleMatches(sale, q) {
			continue
		}
		matched = append(matched, sale)
		total = total.Add(sale.Total)
	}
	sort.SliceStable(matched, func(i, j int) bool { return matched[i].CreatedAt.After(matched[j].CreatedAt) })

	page, limit := paginate(filter.Page, filter.Limit, 500)
	from, to := pageBounds(len(matched), page, limit)
	return &dto.SaleListResponse{
		Data:        matched[from:to],
		Total:       len(matched),
		TotalAmount: total,
		Page:        page,
		Limit:       limit,
	}, nil
}

func saleMatches(sale model.Sale, q string) bool {
	fields := []string{sale.SaleNumber}
	if sale.CustomerName != nil {
		fields = append(fields, *sale.CustomerName)
	}
	if sale.CustomerDocument != nil {
		fields = append(fields, *sale.CustomerDocument)
	}
	for _, f := range fields {
		if strings.Contains(catalog.Fold(f), q) {
			return true
		}
	}
	return false
}

func (s *saleService) Get(_ context.Context, ref string) (*model.Sale, error) {
	sale, ok := s.state.Snapshot().Sale(ref)
	if !ok {
		return nil, apierror.NotFound("Venta no encontrada")
	}
	return &sale, nil
}
