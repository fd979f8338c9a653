package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/kontrollapro/backend/internal/application/checkout"
)

// CheckoutHandler handles checkout session API endpoints
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// RegisterRoutes registers checkout routes on the given group
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sessions := rg.Group("/checkout/sessions")
	{
		sessions.POST("", h.StartSession)
		sessions.GET("/:id", h.GetSession)
		sessions.DELETE("/:id", h.AbandonSession)

		sessions.POST("/:id/scan", h.Scan)
		sessions.POST("/:id/checkout", h.Checkout)
		sessions.POST("/:id/clear", h.ClearCart)
		sessions.PUT("/:id/discount", h.SetDiscount)
		sessions.PUT("/:id/customer", h.SetCustomer)

		sessions.PUT("/:id/lines/:productId/quantity", h.SetLineQuantity)
		sessions.POST("/:id/lines/:productId/edit", h.EditLineQuantity)
		sessions.DELETE("/:id/lines/:productId", h.RemoveLine)

		sessions.PUT("/:id/entry/denomination", h.SetDenomination)
		sessions.PUT("/:id/entry/amount", h.EnterAmount)
		sessions.POST("/:id/entry/confirm", h.ConfirmQuantity)
		sessions.POST("/:id/entry/cancel", h.CancelQuantity)
	}
}

// StartSession opens a new checkout session with an empty cart
func (h *CheckoutHandler) StartSession(c *gin.Context) {
	session, err := h.checkoutService.StartSession(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, session)
}

// GetSession returns the current state of a session
func (h *CheckoutHandler) GetSession(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.checkoutService.GetSession(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// AbandonSession discards a session without finalizing the sale
func (h *CheckoutHandler) AbandonSession(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	if err := h.checkoutService.AbandonSession(c.Request.Context(), sessionID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Scan resolves a barcode or product code. Unit products land in the cart
// directly; weighted products open a quantity entry
func (h *CheckoutHandler) Scan(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req checkoutapp.ScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.checkoutService.Scan(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// EditLineQuantity reopens the quantity entry for an existing weighted line
func (h *CheckoutHandler) EditLineQuantity(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}
	productID, err := parseUUIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	session, err := h.checkoutService.EditLineQuantity(c.Request.Context(), sessionID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// SetDenomination switches the open entry between small and large units
func (h *CheckoutHandler) SetDenomination(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req checkoutapp.SetDenominationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.SetDenomination(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// EnterAmount records the typed amount on the open entry
func (h *CheckoutHandler) EnterAmount(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req checkoutapp.EnterAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.EnterAmount(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// ConfirmQuantity applies the open entry's amount to the cart
func (h *CheckoutHandler) ConfirmQuantity(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.checkoutService.ConfirmQuantity(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// CancelQuantity discards the open entry without touching the cart
func (h *CheckoutHandler) CancelQuantity(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.checkoutService.CancelQuantity(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// SetLineQuantity overrides a unit line's quantity. Zero removes the line
func (h *CheckoutHandler) SetLineQuantity(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}
	productID, err := parseUUIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req checkoutapp.SetQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.SetLineQuantity(c.Request.Context(), sessionID, productID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// RemoveLine removes a line from the cart
func (h *CheckoutHandler) RemoveLine(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}
	productID, err := parseUUIDParam(c, "productId")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	session, err := h.checkoutService.RemoveLine(c.Request.Context(), sessionID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// SetCustomer attaches or detaches a customer from the sale
func (h *CheckoutHandler) SetCustomer(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req checkoutapp.SetCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.SetCustomer(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// SetDiscount applies an order-level discount percentage
func (h *CheckoutHandler) SetDiscount(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	var req checkoutapp.SetDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.SetDiscount(c.Request.Context(), sessionID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// ClearCart empties the cart and cancels any open entry
func (h *CheckoutHandler) ClearCart(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	session, err := h.checkoutService.ClearCart(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, session)
}

// Checkout finalizes the sale and closes the session
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	sessionID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid session ID")
		return
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), sessionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
