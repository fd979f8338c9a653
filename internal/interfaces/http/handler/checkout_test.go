package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/kontrollapro/backend/internal/application/checkout"
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/kontrollapro/backend/internal/infrastructure/cache"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeProductRepo is an in-memory catalog.ProductRepository for handler tests
type fakeProductRepo struct {
	products map[uuid.UUID]*catalog.Product
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *fakeProductRepo) add(p *catalog.Product) {
	r.products[p.ID] = p
}

func (r *fakeProductRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.products[id]; ok {
		copied := *p
		return &copied, nil
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, p := range r.products {
		if p.Code == code {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindByBarcode(ctx context.Context, barcode string) (*catalog.Product, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return nil, shared.ErrNotFound
	}
	for _, p := range r.products {
		if strings.EqualFold(p.Barcode, barcode) {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeProductRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	result := make([]catalog.Product, 0, len(r.products))
	for _, p := range r.products {
		result = append(result, *p)
	}
	return result, nil
}

func (r *fakeProductRepo) Save(ctx context.Context, product *catalog.Product) error {
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

func (r *fakeProductRepo) SearchActive(ctx context.Context, query string, limit int) ([]catalog.Product, error) {
	query = strings.ToLower(strings.TrimSpace(query))
	result := make([]catalog.Product, 0)
	for _, p := range r.products {
		if !p.Active {
			continue
		}
		if strings.Contains(strings.ToLower(p.Name), query) || strings.Contains(strings.ToLower(p.Code), query) {
			result = append(result, *p)
		}
	}
	return result, nil
}

var _ catalog.ProductRepository = (*fakeProductRepo)(nil)

// checkoutTestEnv wires a real checkout service behind a gin engine
type checkoutTestEnv struct {
	engine *gin.Engine
	repo   *fakeProductRepo
}

func newCheckoutTestEnv(t *testing.T) *checkoutTestEnv {
	t.Helper()

	repo := newFakeProductRepo()
	store := cache.NewInMemorySessionStore(time.Hour)
	t.Cleanup(func() { _ = store.Close() })

	service := checkoutapp.NewCheckoutService(repo, store)
	handler := NewCheckoutHandler(service)

	engine := gin.New()
	api := engine.Group("/api/v1")
	handler.RegisterRoutes(api)

	return &checkoutTestEnv{engine: engine, repo: repo}
}

func (e *checkoutTestEnv) addProduct(t *testing.T, code, name string, mode catalog.PriceMode, price, stock float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name, mode,
		valueobject.NewMoneyBRLFromFloat(price), decimal.NewFromFloat(stock))
	require.NoError(t, err)
	e.repo.add(product)
	return product
}

func (e *checkoutTestEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.engine.ServeHTTP(w, req)

	var envelope map[string]any
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	}
	return w, envelope
}

func (e *checkoutTestEnv) startSession(t *testing.T) string {
	t.Helper()
	w, envelope := e.do(t, http.MethodPost, "/api/v1/checkout/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := envelope["data"].(map[string]any)
	return data["id"].(string)
}

func sessionData(t *testing.T, envelope map[string]any) map[string]any {
	t.Helper()
	data, ok := envelope["data"].(map[string]any)
	require.True(t, ok)
	return data
}

func cartLines(t *testing.T, session map[string]any) []any {
	t.Helper()
	cart, ok := session["cart"].(map[string]any)
	require.True(t, ok)
	return cart["lines"].([]any)
}

func TestCheckoutHandler_StartAndGetSession(t *testing.T) {
	env := newCheckoutTestEnv(t)
	sessionID := env.startSession(t)

	w, envelope := env.do(t, http.MethodGet, "/api/v1/checkout/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	session := sessionData(t, envelope)
	assert.Equal(t, sessionID, session["id"])
	assert.Equal(t, "scanning", session["phase"])
	assert.Empty(t, cartLines(t, session))
}

func TestCheckoutHandler_GetSession_BadID(t *testing.T) {
	env := newCheckoutTestEnv(t)

	w, envelope := env.do(t, http.MethodGet, "/api/v1/checkout/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, envelope["success"])
}

func TestCheckoutHandler_GetSession_Unknown(t *testing.T) {
	env := newCheckoutTestEnv(t)

	w, envelope := env.do(t, http.MethodGet, "/api/v1/checkout/sessions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	errInfo := envelope["error"].(map[string]any)
	assert.Equal(t, "SESSION_NOT_FOUND", errInfo["code"])
}

func TestCheckoutHandler_ScanUnitProduct(t *testing.T) {
	env := newCheckoutTestEnv(t)
	env.addProduct(t, "widget", "Widget", catalog.PriceModeUnit, 10, 5)
	sessionID := env.startSession(t)

	w, envelope := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "widget"})
	require.Equal(t, http.StatusOK, w.Code)

	data := sessionData(t, envelope)
	assert.Equal(t, "added", data["outcome"])

	session := data["session"].(map[string]any)
	lines := cartLines(t, session)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "WIDGET", line["product_code"])
	assert.Equal(t, "1", line["quantity"])
	assert.Equal(t, "10", line["line_total"])
}

func TestCheckoutHandler_ScanUnknownCode(t *testing.T) {
	env := newCheckoutTestEnv(t)
	sessionID := env.startSession(t)

	w, envelope := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "ghost"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	errInfo := envelope["error"].(map[string]any)
	assert.Equal(t, "PRODUCT_NOT_FOUND", errInfo["code"])
}

func TestCheckoutHandler_ScanOutOfStock(t *testing.T) {
	env := newCheckoutTestEnv(t)
	env.addProduct(t, "sold-out", "Sold Out", catalog.PriceModeUnit, 10, 0)
	sessionID := env.startSession(t)

	w, envelope := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "sold-out"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errInfo := envelope["error"].(map[string]any)
	assert.Equal(t, "OUT_OF_STOCK", errInfo["code"])

	// cart stays untouched
	w, envelope = env.do(t, http.MethodGet, "/api/v1/checkout/sessions/"+sessionID, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartLines(t, sessionData(t, envelope)))
}

func TestCheckoutHandler_WeighedProductFlow(t *testing.T) {
	env := newCheckoutTestEnv(t)
	env.addProduct(t, "cheese", "Cheese", catalog.PriceModeWeight, 40, 10)
	sessionID := env.startSession(t)

	// scan opens a quantity entry instead of touching the cart
	w, envelope := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "cheese"})
	require.Equal(t, http.StatusOK, w.Code)

	data := sessionData(t, envelope)
	assert.Equal(t, "quantity_required", data["outcome"])
	session := data["session"].(map[string]any)
	assert.Equal(t, "awaiting_quantity", session["phase"])
	assert.Empty(t, cartLines(t, session))

	entry := session["entry"].(map[string]any)
	assert.Equal(t, "small", entry["denomination"])
	assert.Equal(t, "g", entry["denomination_label"])

	// 500 grams
	w, _ = env.do(t, http.MethodPut,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/entry/amount", sessionID),
		checkoutapp.EnterAmountRequest{Amount: decimal.NewFromInt(500)})
	require.Equal(t, http.StatusOK, w.Code)

	w, envelope = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/entry/confirm", sessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)

	session = sessionData(t, envelope)
	assert.Equal(t, "scanning", session["phase"])
	lines := cartLines(t, session)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "0.5", line["quantity"])
	assert.Equal(t, "20", line["line_total"])
}

func TestCheckoutHandler_SetDenominationAndCancel(t *testing.T) {
	env := newCheckoutTestEnv(t)
	env.addProduct(t, "milk", "Milk", catalog.PriceModeVolume, 6, 50)
	sessionID := env.startSession(t)

	_, _ = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "milk"})

	w, envelope := env.do(t, http.MethodPut,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/entry/denomination", sessionID),
		checkoutapp.SetDenominationRequest{Denomination: "large"})
	require.Equal(t, http.StatusOK, w.Code)
	entry := sessionData(t, envelope)["entry"].(map[string]any)
	assert.Equal(t, "L", entry["denomination_label"])

	w, envelope = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/entry/cancel", sessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	session := sessionData(t, envelope)
	assert.Equal(t, "scanning", session["phase"])
	assert.Empty(t, cartLines(t, session))
}

func TestCheckoutHandler_SetQuantityAndRemove(t *testing.T) {
	env := newCheckoutTestEnv(t)
	product := env.addProduct(t, "widget", "Widget", catalog.PriceModeUnit, 10, 5)
	sessionID := env.startSession(t)

	_, _ = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "widget"})

	w, envelope := env.do(t, http.MethodPut,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/lines/%s/quantity", sessionID, product.ID),
		checkoutapp.SetQuantityRequest{Quantity: decimal.NewFromInt(3)})
	require.Equal(t, http.StatusOK, w.Code)
	line := cartLines(t, sessionData(t, envelope))[0].(map[string]any)
	assert.Equal(t, "3", line["quantity"])
	assert.Equal(t, "30", line["line_total"])

	// zero quantity removes the line
	w, envelope = env.do(t, http.MethodPut,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/lines/%s/quantity", sessionID, product.ID),
		checkoutapp.SetQuantityRequest{Quantity: decimal.Zero})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, cartLines(t, sessionData(t, envelope)))
}

func TestCheckoutHandler_DiscountAndCheckout(t *testing.T) {
	env := newCheckoutTestEnv(t)
	env.addProduct(t, "widget", "Widget", catalog.PriceModeUnit, 24, 5)
	sessionID := env.startSession(t)

	_, _ = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "widget"})
	_, _ = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/scan", sessionID),
		checkoutapp.ScanRequest{Code: "widget"})

	w, envelope := env.do(t, http.MethodPut,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/discount", sessionID),
		checkoutapp.SetDiscountRequest{Percent: decimal.NewFromInt(10)})
	require.Equal(t, http.StatusOK, w.Code)
	cart := sessionData(t, envelope)["cart"].(map[string]any)
	assert.Equal(t, "48", cart["subtotal"])
	assert.Equal(t, "4.8", cart["discount_amount"])
	assert.Equal(t, "43.2", cart["total"])

	w, envelope = env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/checkout", sessionID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	receipt := sessionData(t, envelope)
	assert.Equal(t, "43.2", receipt["total"])
	assert.Equal(t, "BRL", receipt["currency"])
	byMode := receipt["quantity_by_mode"].(map[string]any)
	assert.Equal(t, "2", byMode["unit"])

	// session is gone after checkout
	w, _ = env.do(t, http.MethodGet, "/api/v1/checkout/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCheckoutHandler_CheckoutEmptyCart(t *testing.T) {
	env := newCheckoutTestEnv(t)
	sessionID := env.startSession(t)

	w, envelope := env.do(t, http.MethodPost,
		fmt.Sprintf("/api/v1/checkout/sessions/%s/checkout", sessionID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	errInfo := envelope["error"].(map[string]any)
	assert.Equal(t, "EMPTY_CART", errInfo["code"])
}

func TestCheckoutHandler_AbandonSession(t *testing.T) {
	env := newCheckoutTestEnv(t)
	sessionID := env.startSession(t)

	w, _ := env.do(t, http.MethodDelete, "/api/v1/checkout/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = env.do(t, http.MethodGet, "/api/v1/checkout/sessions/"+sessionID, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
