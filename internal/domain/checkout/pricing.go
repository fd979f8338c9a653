package checkout

import (
	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Totals is the priced result of a set of cart lines
type Totals struct {
	Subtotal       valueobject.Money `json:"subtotal"`
	DiscountAmount valueobject.Money `json:"discount_amount"`
	Total          valueobject.Money `json:"total"`
}

// CalculateTotals prices a set of lines: subtotal is the sum of line
// totals, the discount percent applies to the subtotal, and the total is
// subtotal minus discount. Amounts round to centavos.
func CalculateTotals(lines []CartLine, discountPercent decimal.Decimal) Totals {
	subtotal := valueobject.ZeroBRL()
	for _, line := range lines {
		subtotal = subtotal.MustAdd(line.LineTotal)
	}

	discount := subtotal.CalculatePercentage(discountPercent).Round(2)
	total, err := subtotal.Subtract(discount)
	if err != nil {
		// Same-currency subtraction cannot fail; keep the subtotal rather
		// than produce a zero total
		total = subtotal
	}

	return Totals{
		Subtotal:       subtotal.Round(2),
		DiscountAmount: discount,
		Total:          total.Round(2),
	}
}

// CartSnapshot is an immutable view of a cart handed to payment and
// receipt generation after checkout
type CartSnapshot struct {
	CartID          uuid.UUID         `json:"cart_id"`
	CustomerID      *uuid.UUID        `json:"customer_id,omitempty"`
	Lines           []CartLine        `json:"lines"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	Subtotal        valueobject.Money `json:"subtotal"`
	DiscountAmount  valueobject.Money `json:"discount_amount"`
	Total           valueobject.Money `json:"total"`
}

// TotalQuantityByMode sums canonical quantities per price mode, used by
// receipt summaries
func (s *CartSnapshot) TotalQuantityByMode() map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	for _, line := range s.Lines {
		mode := line.PriceMode.String()
		sums[mode] = sums[mode].Add(line.Quantity)
	}
	return sums
}
