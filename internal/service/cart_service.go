package service

import (
	"context"
	"sync"

	"minimarket/internal/apierror"
	"minimarket/internal/cart"
	"minimarket/internal/dto"
	"minimarket/internal/model"
	"minimarket/internal/state"
)

// CartService keeps one cart per user in memory. Carts are not persisted
// and are lost on restart.
type CartService interface {
	Get(ctx context.Context, actor Actor) *dto.CartResponse
	AddItem(ctx context.Context, actor Actor, productID string) (*dto.CartResponse, error)
	UpdateQuantity(ctx context.Context, actor Actor, lineID string, qty int) (*dto.CartResponse, error)
	RemoveItem(ctx context.Context, actor Actor, lineID string) (*dto.CartResponse, error)
	Clear(ctx context.Context, actor Actor) *dto.CartResponse
	SetCheckoutInfo(ctx context.Context, actor Actor, req dto.CheckoutInfoRequest) *dto.CartResponse
	// Checkout processes the cart as a sale and clears it on success.
	Checkout(ctx context.Context, actor Actor) (*model.Sale, error)
}

type cartService struct {
	mu    sync.Mutex
	carts map[string]*cart.Cart
	state *state.Container
	sales SaleService
}

func NewCartService(c *state.Container, sales SaleService) CartService {
	return &cartService{carts: make(map[string]*cart.Cart), state: c, sales: sales}
}

// cartOf must be called with mu held.
func (s *cartService) cartOf(userID string) *cart.Cart {
	c, ok := s.carts[userID]
	if !ok {
		c = cart.New()
		s.carts[userID] = c
	}
	return c
}

func toResponse(c *cart.Cart) *dto.CartResponse {
	c = c.Clone()
	return &dto.CartResponse{Lines: c.Lines, Checkout: c.Checkout, Total: c.Total(), Items: c.Items()}
}

func (s *cartService) Get(_ context.Context, actor Actor) *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return toResponse(s.cartOf(actor.UserID))
}

func (s *cartService) AddItem(_ context.Context, actor Actor, productID string) (*dto.CartResponse, error) {
	p, ok := s.state.Snapshot().Product(productID)
	if !ok {
		return nil, apierror.NotFound("Producto no encontrado")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartOf(actor.UserID)
	if _, err := c.AddItem(p); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *cartService) UpdateQuantity(_ context.Context, actor Actor, lineID string, qty int) (*dto.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartOf(actor.UserID)
	line, ok := c.Line(lineID)
	if !ok {
		return nil, cart.ErrLineNotFound
	}
	live := cart.UnknownStock
	if p, ok := s.state.Snapshot().Product(line.ProductID); ok {
		live = p.CurrentStock
	}
	if err := c.UpdateQuantity(lineID, qty, live); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *cartService) RemoveItem(_ context.Context, actor Actor, lineID string) (*dto.CartResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartOf(actor.UserID)
	if err := c.RemoveItem(lineID); err != nil {
		return nil, err
	}
	return toResponse(c), nil
}

func (s *cartService) Clear(_ context.Context, actor Actor) *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartOf(actor.UserID)
	c.Clear()
	return toResponse(c)
}

func (s *cartService) SetCheckoutInfo(_ context.Context, actor Actor, req dto.CheckoutInfoRequest) *dto.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartOf(actor.UserID)
	method := model.PaymentMethod(req.PaymentMethod)
	if method == "" {
		method = model.PaymentCash
	}
	c.Checkout = cart.Checkout{
		PaymentMethod:    method,
		OperationNumber:  req.OperationNumber,
		CustomerName:     req.CustomerName,
		CustomerDocument: req.CustomerDocument,
		CustomerEmail:    req.CustomerEmail,
	}
	return toResponse(c)
}

// Checkout holds the cart lock for the whole sale so the same cart cannot be
// submitted twice.
func (s *cartService) Checkout(ctx context.Context, actor Actor) (*model.Sale, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cartOf(actor.UserID)

	req := dto.ProcessSaleRequest{
		Items:            make([]dto.SaleLine, 0, len(c.Lines)),
		PaymentMethod:    string(c.Checkout.PaymentMethod),
		OperationNumber:  c.Checkout.OperationNumber,
		CustomerName:     c.Checkout.CustomerName,
		CustomerDocument: c.Checkout.CustomerDocument,
		CustomerEmail:    c.Checkout.CustomerEmail,
	}
	for _, l := range c.Lines {
		price := l.UnitPrice
		req.Items = append(req.Items, dto.SaleLine{
			ProductID:   l.ProductID,
			ProductName: l.ProductName,
			UnitPrice:   &price,
			Quantity:    l.Quantity,
		})
	}

	sale, err := s.sales.Process(ctx, actor, req)
	if err != nil {
		return nil, err
	}
	c.Clear()
	return sale, nil
}
