package catalog

import (
	"context"

	"github.com/kontrollapro/backend/internal/domain/shared"
)

// ProductRepository defines persistence operations for products.
// The checkout only reads from it; writes belong to the back-office CRUD
// surface which is outside this service.
type ProductRepository interface {
	shared.Repository[Product]
	FindByCode(ctx context.Context, code string) (*Product, error)
	FindByBarcode(ctx context.Context, barcode string) (*Product, error)
	SearchActive(ctx context.Context, query string, limit int) ([]Product, error)
}
