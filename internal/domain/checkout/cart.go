package checkout

import (
	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartStatus represents the lifecycle of a checkout cart
type CartStatus string

const (
	CartStatusActive     CartStatus = "active"
	CartStatusCheckedOut CartStatus = "checked_out"
	CartStatusAbandoned  CartStatus = "abandoned"
)

// IsValid checks if the status is a valid CartStatus
func (s CartStatus) IsValid() bool {
	switch s {
	case CartStatusActive, CartStatusCheckedOut, CartStatusAbandoned:
		return true
	}
	return false
}

// String returns the string representation of CartStatus
func (s CartStatus) String() string {
	return string(s)
}

var (
	// ErrQuantityEntryRequired signals that the product's price mode needs
	// the quantity entry flow before a line can be written
	ErrQuantityEntryRequired = shared.NewDomainError("QUANTITY_ENTRY_REQUIRED", "Product is sold by weight or volume and needs a quantity entry")

	// ErrItemNotFound signals that no cart line exists for the product
	ErrItemNotFound = shared.NewDomainError("ITEM_NOT_FOUND", "Product is not in the cart")

	// ErrCartNotActive signals a mutation on a checked-out or abandoned cart
	ErrCartNotActive = shared.NewDomainError("CART_NOT_ACTIVE", "Cart is no longer active")

	// ErrEmptyCart signals a checkout attempt with no lines
	ErrEmptyCart = shared.NewDomainError("EMPTY_CART", "Cart has no items to check out")
)

// CartLine is one product in the cart. Quantity is canonical: whole units
// for unit-mode products, kilograms or liters for weighted ones. A product
// appears in at most one line.
type CartLine struct {
	ProductID   uuid.UUID          `json:"product_id"`
	ProductCode string             `json:"product_code"`
	ProductName string             `json:"product_name"`
	PriceMode   catalog.PriceMode  `json:"price_mode"`
	Quantity    decimal.Decimal    `json:"quantity"`
	UnitPrice   valueobject.Money  `json:"unit_price"`
	LineTotal   valueobject.Money  `json:"line_total"`
}

// QuantityLabel renders the line quantity with its base unit, e.g.
// "0.350 kg" or "3 un"
func (l CartLine) QuantityLabel() string {
	if l.PriceMode == catalog.PriceModeUnit {
		return l.Quantity.StringFixed(0) + " " + l.PriceMode.BaseUnit()
	}
	return l.Quantity.StringFixed(canonicalScale) + " " + l.PriceMode.BaseUnit()
}

// Cart is the checkout aggregate. All mutations keep the totals current:
// every line total is quantity times unit price, the subtotal is the sum of
// line totals, and the order discount applies to the subtotal.
type Cart struct {
	shared.BaseAggregateRoot
	Status          CartStatus        `json:"status"`
	Lines           []CartLine        `json:"lines"`
	CustomerID      *uuid.UUID        `json:"customer_id,omitempty"`
	DiscountPercent decimal.Decimal   `json:"discount_percent"`
	Subtotal        valueobject.Money `json:"subtotal"`
	DiscountAmount  valueobject.Money `json:"discount_amount"`
	Total           valueobject.Money `json:"total"`
}

// NewCart creates an empty active cart
func NewCart() *Cart {
	cart := &Cart{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            CartStatusActive,
		Lines:             []CartLine{},
		DiscountPercent:   decimal.Zero,
		Subtotal:          valueobject.ZeroBRL(),
		DiscountAmount:    valueobject.ZeroBRL(),
		Total:             valueobject.ZeroBRL(),
	}
	return cart
}

// AddItem adds one unit of a unit-mode product, merging into the existing
// line when the product is already in the cart. Weight and volume products
// return ErrQuantityEntryRequired; their quantity goes through the entry
// flow and lands via ApplyWeightedQuantity.
func (c *Cart) AddItem(product *catalog.Product) error {
	if product == nil {
		return shared.ErrInvalidInput
	}
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	if product.PriceMode.RequiresQuantityEntry() {
		return ErrQuantityEntryRequired
	}

	one := decimal.NewFromInt(1)
	if !CanAdd(product, one) {
		return shared.ErrOutOfStock
	}

	if line := c.findLine(product.ID); line != nil {
		line.Quantity = line.Quantity.Add(one)
		c.writeLineTotal(line)
	} else {
		c.appendLine(product, one)
	}

	c.recalculateTotals()
	c.AddDomainEvent(NewCartLineAddedEvent(c.ID, product.ID, product.Code, one))
	return nil
}

// ApplyWeightedQuantity writes a canonical quantity produced by the entry
// flow. On the add path the quantity merges into any existing line for the
// product; on the edit path it replaces the line's quantity.
func (c *Cart) ApplyWeightedQuantity(product *catalog.Product, quantity decimal.Decimal, isEdit bool) error {
	if product == nil {
		return shared.ErrInvalidInput
	}
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	if !product.PriceMode.RequiresQuantityEntry() {
		return shared.NewDomainError("INVALID_STATE", "Product is sold by unit, not by weight or volume")
	}
	if !quantity.IsPositive() {
		return shared.ErrInvalidQuantity
	}

	if isEdit {
		line := c.findLine(product.ID)
		if line == nil {
			return ErrItemNotFound
		}
		line.Quantity = quantity
		c.writeLineTotal(line)
	} else {
		if !CanAdd(product, quantity) {
			return shared.ErrOutOfStock
		}
		if line := c.findLine(product.ID); line != nil {
			line.Quantity = line.Quantity.Add(quantity)
			c.writeLineTotal(line)
		} else {
			c.appendLine(product, quantity)
		}
	}

	c.recalculateTotals()
	c.AddDomainEvent(NewCartLineAddedEvent(c.ID, product.ID, product.Code, quantity))
	return nil
}

// SetQuantity sets a unit-mode line's quantity directly. A quantity of
// zero or less removes the line. Weighted lines are revised through the
// quantity entry flow instead.
func (c *Cart) SetQuantity(productID uuid.UUID, quantity decimal.Decimal) error {
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	line := c.findLine(productID)
	if line == nil {
		return ErrItemNotFound
	}
	if !quantity.IsPositive() {
		return c.RemoveItem(productID)
	}
	if line.PriceMode.RequiresQuantityEntry() {
		return ErrQuantityEntryRequired
	}

	line.Quantity = quantity.Round(0)
	c.writeLineTotal(line)
	c.recalculateTotals()
	return nil
}

// RemoveItem removes the product's line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	for i, line := range c.Lines {
		if line.ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			c.recalculateTotals()
			c.AddDomainEvent(NewCartLineRemovedEvent(c.ID, productID, line.ProductCode))
			return nil
		}
	}
	return ErrItemNotFound
}

// SetCustomer attaches or detaches the customer the sale belongs to
func (c *Cart) SetCustomer(customerID *uuid.UUID) error {
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	c.CustomerID = customerID
	return nil
}

// SetDiscountPercent applies an order-level discount between 0 and 100
func (c *Cart) SetDiscountPercent(percent decimal.Decimal) error {
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_DISCOUNT", "Discount percent must be between 0 and 100")
	}
	c.DiscountPercent = percent
	c.recalculateTotals()
	return nil
}

// Clear removes every line and resets the discount
func (c *Cart) Clear() error {
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	c.Lines = []CartLine{}
	c.DiscountPercent = decimal.Zero
	c.recalculateTotals()
	return nil
}

// Checkout finalizes the cart and returns the snapshot to hand to payment
func (c *Cart) Checkout() (*CartSnapshot, error) {
	if c.Status != CartStatusActive {
		return nil, ErrCartNotActive
	}
	if c.IsEmpty() {
		return nil, ErrEmptyCart
	}

	c.Status = CartStatusCheckedOut
	snapshot := c.Snapshot()
	c.AddDomainEvent(NewCartCheckedOutEvent(c.ID, snapshot.Lines, c.Total))
	return snapshot, nil
}

// Abandon marks the cart as abandoned; a session store sweep calls this
// when a cart outlives its TTL
func (c *Cart) Abandon() error {
	if c.Status != CartStatusActive {
		return ErrCartNotActive
	}
	c.Status = CartStatusAbandoned
	return nil
}

// Snapshot returns an immutable copy of the cart's lines and totals
func (c *Cart) Snapshot() *CartSnapshot {
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return &CartSnapshot{
		CartID:          c.ID,
		CustomerID:      c.CustomerID,
		Lines:           lines,
		DiscountPercent: c.DiscountPercent,
		Subtotal:        c.Subtotal,
		DiscountAmount:  c.DiscountAmount,
		Total:           c.Total,
	}
}

// FindLine returns the line for the product, or nil
func (c *Cart) FindLine(productID uuid.UUID) *CartLine {
	return c.findLine(productID)
}

// IsEmpty returns true when the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// LineCount returns the number of lines in the cart
func (c *Cart) LineCount() int {
	return len(c.Lines)
}

func (c *Cart) findLine(productID uuid.UUID) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			return &c.Lines[i]
		}
	}
	return nil
}

func (c *Cart) appendLine(product *catalog.Product, quantity decimal.Decimal) {
	line := CartLine{
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		PriceMode:   product.PriceMode,
		Quantity:    quantity,
		UnitPrice:   product.UnitPriceMoney(),
	}
	c.writeLineTotal(&line)
	c.Lines = append(c.Lines, line)
}

func (c *Cart) writeLineTotal(line *CartLine) {
	line.LineTotal = line.UnitPrice.Multiply(line.Quantity).Round(2)
}

func (c *Cart) recalculateTotals() {
	totals := CalculateTotals(c.Lines, c.DiscountPercent)
	c.Subtotal = totals.Subtotal
	c.DiscountAmount = totals.DiscountAmount
	c.Total = totals.Total
}
