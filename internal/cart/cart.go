// Package cart is the pre-checkout staging area. Totals are always derived
// from the lines; nothing is cached.
package cart

import (
	"minimarket/internal/apierror"
	"minimarket/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Refusals are user notices, not failures: the cart is left unchanged.
var (
	ErrOutOfStock        = &apierror.Error{Kind: apierror.KindValidation, Code: "out_of_stock", Msg: "Producto sin stock disponible"}
	ErrInsufficientStock = &apierror.Error{Kind: apierror.KindValidation, Code: "insufficient_stock", Msg: "No hay suficiente stock disponible"}
	ErrLineNotFound      = &apierror.Error{Kind: apierror.KindNotFound, Code: "line_not_found", Msg: "El producto no está en el carrito"}
)

// Line is one product in the cart with the name and price seen when it was added.
type Line struct {
	ID          string          `json:"id"`
	ProductID   string          `json:"productId"`
	ProductName string          `json:"productName"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	Quantity    int             `json:"quantity"`
}

func (l Line) Total() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Checkout holds the customer and payment fields that travel with the cart.
type Checkout struct {
	PaymentMethod    model.PaymentMethod `json:"paymentMethod"`
	OperationNumber  string              `json:"operationNumber,omitempty"`
	CustomerName     string              `json:"customerName,omitempty"`
	CustomerDocument string              `json:"customerDocument,omitempty"`
	CustomerEmail    string              `json:"customerEmail,omitempty"`
}

type Cart struct {
	Lines    []Line   `json:"lines"`
	Checkout Checkout `json:"checkout"`
}

func New() *Cart {
	return &Cart{Lines: []Line{}, Checkout: Checkout{PaymentMethod: model.PaymentCash}}
}

// Total is Σ unitPrice × quantity over the current lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

// Items counts units across lines.
func (c *Cart) Items() int {
	n := 0
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }

func (c *Cart) find(lineID string) int {
	for i, l := range c.Lines {
		if l.ID == lineID {
			return i
		}
	}
	return -1
}

func (c *Cart) findProduct(productID string) int {
	for i, l := range c.Lines {
		if l.ProductID == productID {
			return i
		}
	}
	return -1
}

// AddItem adds one unit of p. A product already in the cart gets its
// quantity incremented instead of a second line.
func (c *Cart) AddItem(p model.Product) (Line, error) {
	if p.CurrentStock <= 0 {
		return Line{}, ErrOutOfStock
	}
	if i := c.findProduct(p.ID); i >= 0 {
		if err := c.UpdateQuantity(c.Lines[i].ID, c.Lines[i].Quantity+1, p.CurrentStock); err != nil {
			return Line{}, err
		}
		return c.Lines[i], nil
	}
	l := Line{
		ID:          uuid.NewString(),
		ProductID:   p.ID,
		ProductName: p.Name,
		UnitPrice:   p.SalePrice,
		Quantity:    1,
	}
	c.Lines = append(c.Lines, l)
	return l, nil
}

// UnknownStock lifts the stock cap for a line whose product is no longer in
// the catalog.
const UnknownStock = -1

// UpdateQuantity sets a line's quantity. qty <= 0 removes the line; a qty
// above liveStock is refused unless liveStock is UnknownStock.
func (c *Cart) UpdateQuantity(lineID string, qty, liveStock int) error {
	i := c.find(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	if qty <= 0 {
		c.removeAt(i)
		return nil
	}
	if liveStock != UnknownStock && qty > liveStock {
		return ErrInsufficientStock
	}
	c.Lines[i].Quantity = qty
	return nil
}

func (c *Cart) RemoveItem(lineID string) error {
	i := c.find(lineID)
	if i < 0 {
		return ErrLineNotFound
	}
	c.removeAt(i)
	return nil
}

func (c *Cart) removeAt(i int) {
	c.Lines = append(c.Lines[:i:i], c.Lines[i+1:]...)
}

// Line returns the line with lineID.
func (c *Cart) Line(lineID string) (Line, bool) {
	if i := c.find(lineID); i >= 0 {
		return c.Lines[i], true
	}
	return Line{}, false
}

// Clear empties the cart and resets the checkout fields in one step.
func (c *Cart) Clear() {
	c.Lines = []Line{}
	c.Checkout = Checkout{PaymentMethod: model.PaymentCash}
}

// Clone returns a deep copy, safe to hand outside the owner's lock.
func (c *Cart) Clone() *Cart {
	out := &Cart{Lines: make([]Line, len(c.Lines)), Checkout: c.Checkout}
	copy(out.Lines, c.Lines)
	return out
}
