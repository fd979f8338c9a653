package checkout

import (
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CanAdd decides whether adding or incrementing the requested canonical
// quantity of a product is allowed. A product with zero available stock is
// never purchasable, regardless of the requested quantity.
//
// The requested quantity is intentionally not checked against available
// stock: the register allows selling past the resolved stock figure (it is
// often stale during a rush) and only the hard zero-stock block applies.
func CanAdd(product *catalog.Product, requested decimal.Decimal) bool {
	if product == nil {
		return false
	}
	if !requested.IsPositive() {
		return false
	}
	return !product.IsOutOfStock()
}
