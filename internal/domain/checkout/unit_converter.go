package checkout

import (
	"math"

	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Denomination is the unit an operator chooses to type a quantity in
// before conversion to the canonical quantity. For weight products small
// means grams and large means kilograms; for volume products small means
// milliliters and large means liters. Unit products ignore it.
type Denomination string

const (
	DenominationSmall Denomination = "small"
	DenominationLarge Denomination = "large"
)

// canonicalScale is the fixed-point precision of canonical quantities.
// Quantities are kept at 3 decimal places so converting an amount entered
// in the small denomination (gram/milliliter granularity) round-trips
// exactly instead of accumulating float drift.
const canonicalScale = 3

var subunitFactor = decimal.NewFromInt(1000)

// IsValid checks if the denomination is a valid Denomination
func (d Denomination) IsValid() bool {
	return d == DenominationSmall || d == DenominationLarge
}

// Label returns the display unit code for the denomination under a mode
func (d Denomination) Label(mode catalog.PriceMode) string {
	switch mode {
	case catalog.PriceModeWeight:
		if d == DenominationSmall {
			return "g"
		}
		return "kg"
	case catalog.PriceModeVolume:
		if d == DenominationSmall {
			return "ml"
		}
		return "L"
	default:
		return "un"
	}
}

// ResolveCanonicalQuantity converts an operator-entered amount in the given
// denomination to the canonical quantity used for pricing and stock
// comparison: whole items for unit mode, kilograms for weight, liters for
// volume. Fails with INVALID_QUANTITY when the amount is not positive.
func ResolveCanonicalQuantity(mode catalog.PriceMode, amount decimal.Decimal, denomination Denomination) (decimal.Decimal, error) {
	if !amount.IsPositive() {
		return decimal.Zero, shared.ErrInvalidQuantity
	}

	switch mode {
	case catalog.PriceModeUnit:
		rounded := amount.Round(0)
		if !rounded.IsPositive() {
			return decimal.Zero, shared.ErrInvalidQuantity
		}
		return rounded, nil
	case catalog.PriceModeWeight, catalog.PriceModeVolume:
		if !denomination.IsValid() {
			return decimal.Zero, shared.NewDomainError("INVALID_DENOMINATION", "Denomination must be small or large")
		}
		canonical := amount
		if denomination == DenominationSmall {
			canonical = amount.Div(subunitFactor)
		}
		canonical = canonical.Round(canonicalScale)
		if !canonical.IsPositive() {
			return decimal.Zero, shared.ErrInvalidQuantity
		}
		return canonical, nil
	}

	return decimal.Zero, shared.NewDomainError("INVALID_PRICE_MODE", "Unknown price mode "+mode.String())
}

// ResolveCanonicalQuantityFromFloat converts a raw numeric amount, guarding
// against NaN and infinities coming from unchecked input
func ResolveCanonicalQuantityFromFloat(mode catalog.PriceMode, amount float64, denomination Denomination) (decimal.Decimal, error) {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return decimal.Zero, shared.ErrInvalidQuantity
	}
	return ResolveCanonicalQuantity(mode, decimal.NewFromFloat(amount), denomination)
}

// ToDisplayAmount is the inverse of ResolveCanonicalQuantity: it converts a
// canonical quantity back to the amount shown in the given denomination.
// Round-trip holds at canonical precision: resolving the returned amount in
// the same denomination yields the original canonical quantity.
func ToDisplayAmount(mode catalog.PriceMode, canonical decimal.Decimal, denomination Denomination) decimal.Decimal {
	if mode.RequiresQuantityEntry() && denomination == DenominationSmall {
		return canonical.Mul(subunitFactor).Round(canonicalScale)
	}
	return canonical
}
