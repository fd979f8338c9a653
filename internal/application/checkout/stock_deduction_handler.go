package checkout

import (
	"context"

	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/checkout"
	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/kontrollapro/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// StockDeductionHandler deducts sold quantities from the catalog when a
// cart checks out. Stock is clamped at zero: the register can sell past a
// stale stock figure, so the sold quantity may exceed what the catalog
// believes is available.
type StockDeductionHandler struct {
	productRepo catalog.ProductRepository
	logger      *zap.Logger
}

// NewStockDeductionHandler creates a new StockDeductionHandler
func NewStockDeductionHandler(productRepo catalog.ProductRepository, logger *zap.Logger) *StockDeductionHandler {
	return &StockDeductionHandler{
		productRepo: productRepo,
		logger:      logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StockDeductionHandler) EventTypes() []string {
	return []string{"cart.checked_out"}
}

// Handle deducts each sold line from the product's available quantity
func (h *StockDeductionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	checkedOut, ok := event.(*checkout.CartCheckedOutEvent)
	if !ok {
		return nil
	}

	log := h.logger
	if requestID := logger.GetRequestID(ctx); requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}

	for _, line := range checkedOut.Lines {
		if err := h.deductLine(ctx, line); err != nil {
			log.Error("stock deduction failed",
				zap.String("cart_id", checkedOut.AggregateID().String()),
				zap.String("product_id", line.ProductID.String()),
				zap.Error(err),
			)
		}
	}
	return nil
}

func (h *StockDeductionHandler) deductLine(ctx context.Context, line checkout.CartLine) error {
	product, err := h.productRepo.FindByID(ctx, line.ProductID)
	if err != nil {
		return err
	}

	remaining := product.AvailableQuantity.Sub(line.Quantity)
	if remaining.IsNegative() {
		h.logger.Warn("sold past available stock",
			zap.String("product_code", product.Code),
			zap.String("available", product.AvailableQuantity.String()),
			zap.String("sold", line.Quantity.String()),
		)
		remaining = decimal.Zero
	}
	if err := product.SetAvailableQuantity(remaining); err != nil {
		return err
	}
	return h.productRepo.Save(ctx, product)
}
