package repository

import (
	"context"
	"errors"
	"time"

	"minimarket/internal/catalog"
	"minimarket/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductStore is the Postgres-backed catalog.ProductStore. Every method is
// one round trip or one transaction; nothing is retried.
type ProductStore struct {
	db  *gorm.DB
	now func() time.Time
}

var _ catalog.ProductStore = (*ProductStore)(nil)

func NewProductStore(db *gorm.DB) *ProductStore {
	return &ProductStore{db: db, now: time.Now}
}

// DB exposes the underlying *gorm.DB for health checks.
func (r *ProductStore) DB() *gorm.DB { return r.db }

func (r *ProductStore) List(ctx context.Context) ([]model.Product, error) {
	var rows []catalog.Row
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return catalog.FromRows(rows), nil
}

func (r *ProductStore) Get(ctx context.Context, id string) (model.Product, error) {
	var row catalog.Row
	err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Product{}, catalog.ErrNotFound
	}
	if err != nil {
		return model.Product{}, err
	}
	return catalog.FromRow(row), nil
}

func (r *ProductStore) Insert(ctx context.Context, p model.Product) (model.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	now := r.now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	row := catalog.ToRow(p)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := codeTaken(tx, row.Code, ""); err != nil {
			return err
		}
		return tx.Create(&row).Error
	})
	if err != nil {
		return model.Product{}, translate(err)
	}
	return catalog.FromRow(row), nil
}

func (r *ProductStore) Update(ctx context.Context, p model.Product) (model.Product, error) {
	row := catalog.ToRow(p)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing catalog.Row
		if err := tx.First(&existing, "id = ?", row.ID).Error; err != nil {
			return err
		}
		if err := codeTaken(tx, row.Code, row.ID); err != nil {
			return err
		}
		row.CreatedAt = existing.CreatedAt
		row.UpdatedAt = r.now()
		return tx.Save(&row).Error
	})
	if err != nil {
		return model.Product{}, translate(err)
	}
	return catalog.FromRow(row), nil
}

func (r *ProductStore) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&catalog.Row{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

// DecrementStock updates every product in one transaction. Stock is allowed
// to go negative; the caller validated quantities against its own snapshot.
func (r *ProductStore) DecrementStock(ctx context.Context, changes []catalog.StockChange) ([]model.Product, error) {
	out := make([]model.Product, 0, len(changes))
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := r.now()
		for _, ch := range changes {
			res := tx.Model(&catalog.Row{}).Where("id = ?", ch.ProductID).Updates(map[string]interface{}{
				"current_stock": gorm.Expr("current_stock - ?", ch.Quantity),
				"updated_at":    now,
			})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return catalog.ErrNotFound
			}
		}
		for _, ch := range changes {
			var row catalog.Row
			if err := tx.First(&row, "id = ?", ch.ProductID).Error; err != nil {
				return err
			}
			out = append(out, catalog.FromRow(row))
		}
		return nil
	})
	if err != nil {
		return nil, translate(err)
	}
	return out, nil
}

func codeTaken(tx *gorm.DB, code, exceptID string) error {
	q := tx.Model(&catalog.Row{}).Where("code = ?", code)
	if exceptID != "" {
		q = q.Where("id <> ?", exceptID)
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return catalog.ErrDuplicateCode
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return catalog.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return catalog.ErrDuplicateCode
	}
	return err
}
