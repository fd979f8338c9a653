package checkout

import (
	"context"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/checkout"
	"github.com/kontrollapro/backend/internal/domain/shared"
)

// scanCandidateLimit caps how many catalog rows a single scan pulls in
// for barcode resolution
const scanCandidateLimit = 25

// CheckoutService orchestrates a register's checkout session: scanning,
// the weight/volume quantity entry flow, cart mutations and finalization.
type CheckoutService struct {
	productRepo    catalog.ProductRepository
	sessions       SessionStore
	eventPublisher shared.EventPublisher
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(productRepo catalog.ProductRepository, sessions SessionStore) *CheckoutService {
	return &CheckoutService{
		productRepo: productRepo,
		sessions:    sessions,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *CheckoutService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// StartSession opens a new checkout session with an empty cart
func (s *CheckoutService) StartSession(ctx context.Context) (*SessionResponse, error) {
	session := NewSession()
	if err := s.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// GetSession resumes a previously stored session
func (s *CheckoutService) GetSession(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

// Scan resolves a product code against the catalog and routes it by price
// mode: unit products land in the cart immediately, weight and volume
// products open the quantity entry flow. Scanning while an entry is open
// is rejected; the register confirms or cancels first.
func (s *CheckoutService) Scan(ctx context.Context, sessionID uuid.UUID, req ScanRequest) (*ScanResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Entry.IsOpen() {
		return nil, shared.NewDomainError("ENTRY_ALREADY_OPEN", "A quantity entry is already in progress")
	}

	product, err := s.resolveProduct(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	outcome := ScanOutcomeAdded
	if product.PriceMode.RequiresQuantityEntry() {
		// Block before opening the entry so the operator is not asked to
		// weigh something that cannot be sold
		if product.IsOutOfStock() {
			return nil, shared.ErrOutOfStock
		}
		if err := session.Entry.OpenForAdd(product); err != nil {
			return nil, err
		}
		outcome = ScanOutcomeQuantityRequired
	} else {
		if err := session.Cart.AddItem(product); err != nil {
			return nil, err
		}
	}

	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	return &ScanResponse{Outcome: outcome, Session: ToSessionResponse(session)}, nil
}

// EditLineQuantity opens the entry flow to revise a weighted line
func (s *CheckoutService) EditLineQuantity(ctx context.Context, sessionID, productID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	line := session.Cart.FindLine(productID)
	if line == nil {
		return nil, checkout.ErrItemNotFound
	}
	if !line.PriceMode.RequiresQuantityEntry() {
		return nil, shared.NewDomainError("INVALID_STATE", "Unit lines are edited with a direct quantity, not the entry flow")
	}

	product, err := s.productRepo.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if err := session.Entry.OpenForEdit(product, line.Quantity); err != nil {
		return nil, err
	}

	return s.respond(ctx, session)
}

// SetDenomination switches the open entry's denomination
func (s *CheckoutService) SetDenomination(ctx context.Context, sessionID uuid.UUID, req SetDenominationRequest) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Entry.SetDenomination(checkout.Denomination(req.Denomination)); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// EnterAmount records the operator-typed amount on the open entry
func (s *CheckoutService) EnterAmount(ctx context.Context, sessionID uuid.UUID, req EnterAmountRequest) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Entry.EnterAmount(req.Amount); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// ConfirmQuantity resolves the open entry to a canonical quantity and
// writes it to the cart. An invalid amount leaves the entry open.
func (s *CheckoutService) ConfirmQuantity(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// The flow resets on confirmation; keep the product snapshot for the
	// cart write
	product := session.Entry.Product
	canonical, isEdit, err := session.Entry.Confirm()
	if err != nil {
		return nil, err
	}
	if err := session.Cart.ApplyWeightedQuantity(&product, canonical, isEdit); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// CancelQuantity discards the open entry without touching the cart
func (s *CheckoutService) CancelQuantity(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Entry.Cancel(); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// SetLineQuantity sets a unit line's quantity; zero or less removes it
func (s *CheckoutService) SetLineQuantity(ctx context.Context, sessionID, productID uuid.UUID, req SetQuantityRequest) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Cart.SetQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// RemoveLine removes a product's line from the cart
func (s *CheckoutService) RemoveLine(ctx context.Context, sessionID, productID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Cart.RemoveItem(productID); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// SetCustomer attaches or detaches the customer the sale belongs to
func (s *CheckoutService) SetCustomer(ctx context.Context, sessionID uuid.UUID, req SetCustomerRequest) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Cart.SetCustomer(req.CustomerID); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// SetDiscount applies an order-level percentage discount
func (s *CheckoutService) SetDiscount(ctx context.Context, sessionID uuid.UUID, req SetDiscountRequest) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Cart.SetDiscountPercent(req.Percent); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// ClearCart removes every line and resets the discount
func (s *CheckoutService) ClearCart(ctx context.Context, sessionID uuid.UUID) (*SessionResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Entry.IsOpen() {
		if err := session.Entry.Cancel(); err != nil {
			return nil, err
		}
	}
	if err := session.Cart.Clear(); err != nil {
		return nil, err
	}
	return s.respond(ctx, session)
}

// Checkout finalizes the session's cart, publishes its events and removes
// the session from the store
func (s *CheckoutService) Checkout(ctx context.Context, sessionID uuid.UUID) (*CheckoutResponse, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.Entry.IsOpen() {
		return nil, shared.NewDomainError("ENTRY_ALREADY_OPEN", "Confirm or cancel the quantity entry before checkout")
	}

	snapshot, err := session.Cart.Checkout()
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, session.Cart)
	if err := s.sessions.Delete(ctx, session.ID); err != nil {
		return nil, err
	}

	response := ToCheckoutResponse(snapshot)
	return &response, nil
}

// AbandonSession discards the session and its cart
func (s *CheckoutService) AbandonSession(ctx context.Context, sessionID uuid.UUID) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return err
	}
	if session.Cart.Status == checkout.CartStatusActive {
		if err := session.Cart.Abandon(); err != nil {
			return err
		}
	}
	return s.sessions.Delete(ctx, session.ID)
}

// resolveProduct looks up a scanned code: exact barcode match over the
// active catalog slice the search returns, falling back to the product
// code (SKU)
func (s *CheckoutService) resolveProduct(ctx context.Context, code string) (*catalog.Product, error) {
	candidates, err := s.productRepo.SearchActive(ctx, code, scanCandidateLimit)
	if err == nil {
		if product, err := checkout.FindByCode(candidates, code); err == nil {
			return product, nil
		}
	}

	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil || !product.Active {
		return nil, shared.ErrProductNotFound
	}
	return product, nil
}

func (s *CheckoutService) respond(ctx context.Context, session *Session) (*SessionResponse, error) {
	if err := s.saveSession(ctx, session); err != nil {
		return nil, err
	}
	response := ToSessionResponse(session)
	return &response, nil
}

func (s *CheckoutService) saveSession(ctx context.Context, session *Session) error {
	session.Touch()
	if err := s.sessions.Save(ctx, session); err != nil {
		return err
	}
	s.publishEvents(ctx, session.Cart)
	return nil
}

// publishEvents drains the cart's pending events to the publisher.
// Publish failures do not fail the operation; the bus logs them.
func (s *CheckoutService) publishEvents(ctx context.Context, cart *checkout.Cart) {
	if s.eventPublisher == nil {
		return
	}
	events := cart.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	cart.ClearDomainEvents()
}
