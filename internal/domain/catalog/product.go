package catalog

import (
	"strings"
	"time"

	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product/SKU in the catalog.
// The checkout treats products as read-only snapshots: prices and stock are
// captured at the moment a line is added and are not re-fetched mid-session.
type Product struct {
	shared.BaseAggregateRoot
	Code              string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name              string          `gorm:"type:varchar(200);not null"`
	Barcode           string          `gorm:"type:varchar(50);index"`
	PriceMode         PriceMode       `gorm:"type:varchar(10);not null;default:'unit'"`
	UnitPrice         decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	AvailableQuantity decimal.Decimal `gorm:"type:decimal(18,3);not null;default:0"`
	Active            bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(code, name string, mode PriceMode, unitPrice valueobject.Money, availableQuantity decimal.Decimal) (*Product, error) {
	if err := validateProductCode(code); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if !mode.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRICE_MODE", "Price mode must be unit, weight or volume")
	}
	if unitPrice.Amount().IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if availableQuantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_STOCK", "Available quantity cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              strings.ToUpper(code),
		Name:              name,
		PriceMode:         mode,
		UnitPrice:         unitPrice.Amount(),
		AvailableQuantity: availableQuantity,
		Active:            true,
	}, nil
}

// SetBarcode sets the product barcode used by scan lookup
func (p *Product) SetBarcode(barcode string) error {
	if barcode != "" && len(barcode) > 50 {
		return shared.NewDomainError("INVALID_BARCODE", "Barcode cannot exceed 50 characters")
	}

	p.Barcode = barcode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetAvailableQuantity updates the resolved stock figure
func (p *Product) SetAvailableQuantity(quantity decimal.Decimal) error {
	if quantity.IsNegative() {
		return shared.NewDomainError("INVALID_STOCK", "Available quantity cannot be negative")
	}

	p.AvailableQuantity = quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdatePrice updates the price per canonical quantity
func (p *Product) UpdatePrice(price valueobject.Money) error {
	if price.Amount().IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}

	p.UnitPrice = price.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate removes the product from sale
func (p *Product) Deactivate() {
	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// IsOutOfStock returns true when no stock is available.
// An out-of-stock product can never be added to a cart, even partially.
func (p *Product) IsOutOfStock() bool {
	return !p.AvailableQuantity.IsPositive()
}

// MatchesBarcode returns true if the scanned code matches the product
// barcode (case-insensitive exact match)
func (p *Product) MatchesBarcode(code string) bool {
	return p.Barcode != "" && strings.EqualFold(p.Barcode, code)
}

// UnitPriceMoney returns the unit price as Money value object
func (p *Product) UnitPriceMoney() valueobject.Money {
	return valueobject.NewMoneyBRL(p.UnitPrice)
}

// validateProductCode validates the product code (SKU)
func validateProductCode(code string) error {
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot be empty")
	}
	if len(code) > 50 {
		return shared.NewDomainError("INVALID_CODE", "Product code cannot exceed 50 characters")
	}
	for _, r := range code {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("INVALID_CODE", "Product code can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}
