package checkout

import (
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// EntryState represents the state of the weight/volume quantity entry flow
type EntryState string

const (
	EntryStateClosed      EntryState = "closed"
	EntryStateOpenForAdd  EntryState = "open_for_add"
	EntryStateOpenForEdit EntryState = "open_for_edit"
)

// IsValid checks if the state is a valid EntryState
func (s EntryState) IsValid() bool {
	switch s {
	case EntryStateClosed, EntryStateOpenForAdd, EntryStateOpenForEdit:
		return true
	}
	return false
}

// String returns the string representation of EntryState
func (s EntryState) String() string {
	return string(s)
}

// IsOpen returns true if an entry is in progress
func (s EntryState) IsOpen() bool {
	return s == EntryStateOpenForAdd || s == EntryStateOpenForEdit
}

// CanTransitionTo checks if the state can transition to the target state
func (s EntryState) CanTransitionTo(target EntryState) bool {
	switch s {
	case EntryStateClosed:
		return target == EntryStateOpenForAdd || target == EntryStateOpenForEdit
	case EntryStateOpenForAdd, EntryStateOpenForEdit:
		// Confirm and cancel both land back on closed
		return target == EntryStateClosed
	}
	return false
}

// QuantityEntryFlow captures a weight/volume quantity through a modal
// entry: the operator picks a denomination, types an amount, and either
// confirms or cancels. Unit-mode products never enter this flow. At most
// one flow is open per checkout session; opening a second entry while one
// is open is an invalid transition.
//
// The flow holds a snapshot of the product taken when it was opened, so a
// confirmed entry prices against the values the operator saw.
type QuantityEntryFlow struct {
	State        EntryState      `json:"state"`
	Product      catalog.Product `json:"product"`
	Denomination Denomination    `json:"denomination"`
	Amount       decimal.Decimal `json:"amount"`
}

// NewQuantityEntryFlow creates a flow in the closed state
func NewQuantityEntryFlow() *QuantityEntryFlow {
	return &QuantityEntryFlow{
		State:        EntryStateClosed,
		Denomination: DenominationSmall,
	}
}

// OpenForAdd opens the flow to capture the quantity of a new cart line
func (f *QuantityEntryFlow) OpenForAdd(product *catalog.Product) error {
	if err := f.open(product); err != nil {
		return err
	}
	f.State = EntryStateOpenForAdd
	return nil
}

// OpenForEdit opens the flow to revise an existing line's quantity. The
// amount field is pre-populated by converting the line's canonical quantity
// back to the small denomination.
func (f *QuantityEntryFlow) OpenForEdit(product *catalog.Product, existingQuantity decimal.Decimal) error {
	if err := f.open(product); err != nil {
		return err
	}
	f.State = EntryStateOpenForEdit
	f.Amount = ToDisplayAmount(product.PriceMode, existingQuantity, DenominationSmall)
	return nil
}

func (f *QuantityEntryFlow) open(product *catalog.Product) error {
	if product == nil {
		return shared.ErrInvalidInput
	}
	if !f.State.CanTransitionTo(EntryStateOpenForAdd) {
		return shared.NewDomainError("ENTRY_ALREADY_OPEN", "A quantity entry is already in progress")
	}
	if !product.PriceMode.RequiresQuantityEntry() {
		return shared.NewDomainError("INVALID_STATE", "Quantity entry only applies to weight and volume products")
	}
	f.Product = *product
	f.Denomination = DenominationSmall
	f.Amount = decimal.Zero
	return nil
}

// SetDenomination changes the denomination the amount is typed in
func (f *QuantityEntryFlow) SetDenomination(denomination Denomination) error {
	if !f.State.IsOpen() {
		return shared.ErrInvalidState
	}
	if !denomination.IsValid() {
		return shared.NewDomainError("INVALID_DENOMINATION", "Denomination must be small or large")
	}
	f.Denomination = denomination
	return nil
}

// EnterAmount records the operator-typed amount. Validation happens at
// confirmation time; an invalid amount keeps confirmation blocked rather
// than failing the entry.
func (f *QuantityEntryFlow) EnterAmount(amount decimal.Decimal) error {
	if !f.State.IsOpen() {
		return shared.ErrInvalidState
	}
	f.Amount = amount
	return nil
}

// CanConfirm returns true when the entered amount resolves to a valid
// canonical quantity
func (f *QuantityEntryFlow) CanConfirm() bool {
	if !f.State.IsOpen() {
		return false
	}
	_, err := ResolveCanonicalQuantity(f.Product.PriceMode, f.Amount, f.Denomination)
	return err == nil
}

// Confirm resolves the entered amount to a canonical quantity and closes
// the flow. It reports whether the entry was editing an existing line.
// An invalid amount returns an error and leaves the flow open; the entry
// never transitions through an invalid confirmation.
func (f *QuantityEntryFlow) Confirm() (decimal.Decimal, bool, error) {
	if !f.State.IsOpen() {
		return decimal.Zero, false, shared.NewDomainError("INVALID_STATE", "No quantity entry is in progress")
	}
	canonical, err := ResolveCanonicalQuantity(f.Product.PriceMode, f.Amount, f.Denomination)
	if err != nil {
		return decimal.Zero, false, err
	}
	isEdit := f.State == EntryStateOpenForEdit
	f.reset()
	return canonical, isEdit, nil
}

// Cancel discards the in-progress entry without touching the cart
func (f *QuantityEntryFlow) Cancel() error {
	if !f.State.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "No quantity entry is in progress")
	}
	f.reset()
	return nil
}

// IsOpen returns true if an entry is in progress
func (f *QuantityEntryFlow) IsOpen() bool {
	return f.State.IsOpen()
}

func (f *QuantityEntryFlow) reset() {
	f.State = EntryStateClosed
	f.Product = catalog.Product{}
	f.Denomination = DenominationSmall
	f.Amount = decimal.Zero
}
