package checkout

import (
	"strings"

	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/shared"
)

// FindByCode resolves a scanned code against an already-filtered product
// collection. Matching is a case-insensitive exact comparison against the
// product barcode. Free-text name search belongs to the catalog
// collaborator, not to this lookup.
func FindByCode(products []catalog.Product, code string) (*catalog.Product, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.ErrProductNotFound
	}
	for i := range products {
		if products[i].MatchesBarcode(code) {
			return &products[i], nil
		}
	}
	return nil, shared.ErrProductNotFound
}
