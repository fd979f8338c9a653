package checkout

import (
	"time"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/checkout"
)

// SessionPhase is the register-facing phase of a checkout session
type SessionPhase string

const (
	// PhaseScanning accepts scans and direct cart mutations
	PhaseScanning SessionPhase = "scanning"
	// PhaseAwaitingQuantity has a weight/volume entry open; the register
	// must confirm or cancel it before scanning resumes
	PhaseAwaitingQuantity SessionPhase = "awaiting_quantity"
)

// Session is one register's in-progress sale: the cart plus the quantity
// entry flow. Sessions serialize to JSON so an interrupted sale can be
// resumed from the session store.
type Session struct {
	ID        uuid.UUID                   `json:"id"`
	Cart      *checkout.Cart              `json:"cart"`
	Entry     *checkout.QuantityEntryFlow `json:"entry"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

// NewSession creates a session with an empty cart and a closed entry flow
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:        uuid.New(),
		Cart:      checkout.NewCart(),
		Entry:     checkout.NewQuantityEntryFlow(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Phase derives the session phase from the entry flow state
func (s *Session) Phase() SessionPhase {
	if s.Entry != nil && s.Entry.IsOpen() {
		return PhaseAwaitingQuantity
	}
	return PhaseScanning
}

// Touch bumps the updated timestamp before persisting
func (s *Session) Touch() {
	s.UpdatedAt = time.Now()
}
