package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/checkout"
	"github.com/shopspring/decimal"
)

// ScanRequest represents a scanned or typed product code
type ScanRequest struct {
	Code string `json:"code" binding:"required,min=1,max=50"`
}

// EnterAmountRequest carries the operator-typed quantity amount
type EnterAmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// SetDenominationRequest switches the denomination of the open entry
type SetDenominationRequest struct {
	Denomination string `json:"denomination" binding:"required,oneof=small large"`
}

// SetQuantityRequest sets a unit line's quantity directly
type SetQuantityRequest struct {
	Quantity decimal.Decimal `json:"quantity"`
}

// SetDiscountRequest applies an order-level discount
type SetDiscountRequest struct {
	Percent decimal.Decimal `json:"percent"`
}

// SetCustomerRequest attaches or detaches a customer
type SetCustomerRequest struct {
	CustomerID *uuid.UUID `json:"customer_id"`
}

// ScanOutcome describes what a scan did
type ScanOutcome string

const (
	// ScanOutcomeAdded means the product landed in the cart
	ScanOutcomeAdded ScanOutcome = "added"
	// ScanOutcomeQuantityRequired means a quantity entry opened for the product
	ScanOutcomeQuantityRequired ScanOutcome = "quantity_required"
)

// CartLineResponse represents one cart line in API responses
type CartLineResponse struct {
	ProductID     uuid.UUID       `json:"product_id"`
	ProductCode   string          `json:"product_code"`
	ProductName   string          `json:"product_name"`
	PriceMode     string          `json:"price_mode"`
	Quantity      decimal.Decimal `json:"quantity"`
	QuantityLabel string          `json:"quantity_label"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// CartResponse represents the cart in API responses
type CartResponse struct {
	Status          string             `json:"status"`
	Lines           []CartLineResponse `json:"lines"`
	CustomerID      *uuid.UUID         `json:"customer_id,omitempty"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	Total           decimal.Decimal    `json:"total"`
	Currency        string             `json:"currency"`
}

// EntryResponse represents the open quantity entry in API responses
type EntryResponse struct {
	State             string          `json:"state"`
	ProductID         uuid.UUID       `json:"product_id"`
	ProductName       string          `json:"product_name"`
	PriceMode         string          `json:"price_mode"`
	Denomination      string          `json:"denomination"`
	DenominationLabel string          `json:"denomination_label"`
	Amount            decimal.Decimal `json:"amount"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	CanConfirm        bool            `json:"can_confirm"`
}

// SessionResponse represents a checkout session in API responses
type SessionResponse struct {
	ID        uuid.UUID      `json:"id"`
	Phase     string         `json:"phase"`
	Cart      CartResponse   `json:"cart"`
	Entry     *EntryResponse `json:"entry,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ScanResponse represents the result of scanning a code
type ScanResponse struct {
	Outcome ScanOutcome     `json:"outcome"`
	Session SessionResponse `json:"session"`
}

// CheckoutResponse represents a finalized sale
type CheckoutResponse struct {
	CartID          uuid.UUID                  `json:"cart_id"`
	CustomerID      *uuid.UUID                 `json:"customer_id,omitempty"`
	Lines           []CartLineResponse         `json:"lines"`
	DiscountPercent decimal.Decimal            `json:"discount_percent"`
	Subtotal        decimal.Decimal            `json:"subtotal"`
	DiscountAmount  decimal.Decimal            `json:"discount_amount"`
	Total           decimal.Decimal            `json:"total"`
	Currency        string                     `json:"currency"`
	QuantityByMode  map[string]decimal.Decimal `json:"quantity_by_mode"`
	CheckedOutAt    time.Time                  `json:"checked_out_at"`
}

// ToCartLineResponse converts a cart line to its response DTO
func ToCartLineResponse(line checkout.CartLine) CartLineResponse {
	return CartLineResponse{
		ProductID:     line.ProductID,
		ProductCode:   line.ProductCode,
		ProductName:   line.ProductName,
		PriceMode:     line.PriceMode.String(),
		Quantity:      line.Quantity,
		QuantityLabel: line.QuantityLabel(),
		UnitPrice:     line.UnitPrice.Amount(),
		LineTotal:     line.LineTotal.Amount(),
	}
}

// ToCartResponse converts a cart to its response DTO
func ToCartResponse(cart *checkout.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, ToCartLineResponse(line))
	}
	return CartResponse{
		Status:          cart.Status.String(),
		Lines:           lines,
		CustomerID:      cart.CustomerID,
		DiscountPercent: cart.DiscountPercent,
		Subtotal:        cart.Subtotal.Amount(),
		DiscountAmount:  cart.DiscountAmount.Amount(),
		Total:           cart.Total.Amount(),
		Currency:        string(cart.Total.Currency()),
	}
}

// ToEntryResponse converts an open entry flow to its response DTO.
// Returns nil when no entry is in progress.
func ToEntryResponse(entry *checkout.QuantityEntryFlow) *EntryResponse {
	if entry == nil || !entry.IsOpen() {
		return nil
	}
	return &EntryResponse{
		State:             entry.State.String(),
		ProductID:         entry.Product.ID,
		ProductName:       entry.Product.Name,
		PriceMode:         entry.Product.PriceMode.String(),
		Denomination:      string(entry.Denomination),
		DenominationLabel: entry.Denomination.Label(entry.Product.PriceMode),
		Amount:            entry.Amount,
		UnitPrice:         entry.Product.UnitPrice,
		CanConfirm:        entry.CanConfirm(),
	}
}

// ToSessionResponse converts a session to its response DTO
func ToSessionResponse(session *Session) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		Phase:     string(session.Phase()),
		Cart:      ToCartResponse(session.Cart),
		Entry:     ToEntryResponse(session.Entry),
		CreatedAt: session.CreatedAt,
		UpdatedAt: session.UpdatedAt,
	}
}

// ToCheckoutResponse converts a checkout snapshot to its response DTO
func ToCheckoutResponse(snapshot *checkout.CartSnapshot) CheckoutResponse {
	lines := make([]CartLineResponse, 0, len(snapshot.Lines))
	for _, line := range snapshot.Lines {
		lines = append(lines, ToCartLineResponse(line))
	}
	return CheckoutResponse{
		CartID:          snapshot.CartID,
		CustomerID:      snapshot.CustomerID,
		Lines:           lines,
		DiscountPercent: snapshot.DiscountPercent,
		Subtotal:        snapshot.Subtotal.Amount(),
		DiscountAmount:  snapshot.DiscountAmount.Amount(),
		Total:           snapshot.Total.Amount(),
		Currency:        string(snapshot.Total.Currency()),
		QuantityByMode:  snapshot.TotalQuantityByMode(),
		CheckedOutAt:    time.Now(),
	}
}
