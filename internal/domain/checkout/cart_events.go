package checkout

import (
	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartLineAddedEvent is raised when a line is created or its quantity grows
type CartLineAddedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	ProductCode string          `json:"product_code"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewCartLineAddedEvent creates a new CartLineAddedEvent
func NewCartLineAddedEvent(cartID, productID uuid.UUID, productCode string, quantity decimal.Decimal) *CartLineAddedEvent {
	return &CartLineAddedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("cart.line_added", "Cart", cartID),
		ProductID:       productID,
		ProductCode:     productCode,
		Quantity:        quantity,
	}
}

// CartLineRemovedEvent is raised when a line leaves the cart
type CartLineRemovedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
}

// NewCartLineRemovedEvent creates a new CartLineRemovedEvent
func NewCartLineRemovedEvent(cartID, productID uuid.UUID, productCode string) *CartLineRemovedEvent {
	return &CartLineRemovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("cart.line_removed", "Cart", cartID),
		ProductID:       productID,
		ProductCode:     productCode,
	}
}

// CartCheckedOutEvent is raised when the cart is finalized for payment.
// It carries the sold lines so downstream handlers can deduct stock
// without reloading the cart.
type CartCheckedOutEvent struct {
	shared.BaseDomainEvent
	Lines []CartLine        `json:"lines"`
	Total valueobject.Money `json:"total"`
}

// NewCartCheckedOutEvent creates a new CartCheckedOutEvent
func NewCartCheckedOutEvent(cartID uuid.UUID, lines []CartLine, total valueobject.Money) *CartCheckedOutEvent {
	return &CartCheckedOutEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("cart.checked_out", "Cart", cartID),
		Lines:           lines,
		Total:           total,
	}
}
