package catalog

import (
	"context"
	"errors"

	"minimarket/internal/model"
)

// ErrNotFound is returned by stores when the product id does not exist.
var ErrNotFound = errors.New("product not found")

// ErrDuplicateCode is returned when a product code is already taken.
var ErrDuplicateCode = errors.New("product code already exists")

// StockChange decrements one product's stock by Quantity.
type StockChange struct {
	ProductID string
	Quantity  int
}

// ProductStore is the narrow contract with the remote product catalog.
// Implementations return raw errors; callers classify them.
type ProductStore interface {
	List(ctx context.Context) ([]model.Product, error)
	Get(ctx context.Context, id string) (model.Product, error)
	Insert(ctx context.Context, p model.Product) (model.Product, error)
	Update(ctx context.Context, p model.Product) (model.Product, error)
	Delete(ctx context.Context, id string) error
	// DecrementStock applies every change or none and returns the updated
	// products in the same order as changes.
	DecrementStock(ctx context.Context, changes []StockChange) ([]model.Product, error)
}

// ChangeFeed delivers realtime notifications until ctx is cancelled, then
// closes the channel.
type ChangeFeed interface {
	Subscribe(ctx context.Context) (<-chan ChangeEvent, error)
}
