package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/kontrollapro/backend/internal/application/catalog"
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type productTestEnv struct {
	engine *gin.Engine
	repo   *fakeProductRepo
}

func newProductTestEnv(t *testing.T) *productTestEnv {
	t.Helper()

	repo := newFakeProductRepo()
	service := catalogapp.NewProductService(repo)
	handler := NewProductHandler(service)

	engine := gin.New()
	api := engine.Group("/api/v1")
	handler.RegisterRoutes(api)

	return &productTestEnv{engine: engine, repo: repo}
}

func (e *productTestEnv) do(t *testing.T, method, path string, body any) (*httptest.ResponseRecorder, map[string]any) {
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

func TestProductHandler_Create(t *testing.T) {
	env := newProductTestEnv(t)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/products", catalogapp.CreateProductRequest{
		Code:              "cheese",
		Name:              "Cheese",
		Barcode:           "7891000244203",
		PriceMode:         "weight",
		UnitPrice:         decimal.NewFromInt(40),
		AvailableQuantity: decimal.NewFromInt(10),
	})
	require.Equal(t, http.StatusCreated, w.Code)

	data := envelope["data"].(map[string]any)
	assert.Equal(t, "CHEESE", data["code"])
	assert.Equal(t, "weight", data["price_mode"])
	assert.Equal(t, "kg", data["base_unit"])
	assert.Equal(t, false, data["out_of_stock"])
}

func TestProductHandler_Create_DuplicateCode(t *testing.T) {
	env := newProductTestEnv(t)

	req := catalogapp.CreateProductRequest{
		Code:      "widget",
		Name:      "Widget",
		PriceMode: "unit",
		UnitPrice: decimal.NewFromInt(10),
	}
	w, _ := env.do(t, http.MethodPost, "/api/v1/products", req)
	require.Equal(t, http.StatusCreated, w.Code)

	w, envelope := env.do(t, http.MethodPost, "/api/v1/products", req)
	assert.Equal(t, http.StatusConflict, w.Code)
	errInfo := envelope["error"].(map[string]any)
	assert.Equal(t, "ALREADY_EXISTS", errInfo["code"])
}

func TestProductHandler_Create_UnknownPriceMode(t *testing.T) {
	env := newProductTestEnv(t)

	w, _ := env.do(t, http.MethodPost, "/api/v1/products", catalogapp.CreateProductRequest{
		Code:      "widget",
		Name:      "Widget",
		PriceMode: "dozen",
		UnitPrice: decimal.NewFromInt(10),
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProductHandler_GetByID(t *testing.T) {
	env := newProductTestEnv(t)
	product, err := catalog.NewProduct("widget", "Widget", catalog.PriceModeUnit,
		valueobject.NewMoneyBRLFromFloat(10), decimal.NewFromInt(5))
	require.NoError(t, err)
	env.repo.add(product)

	w, envelope := env.do(t, http.MethodGet, "/api/v1/products/"+product.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "WIDGET", data["code"])

	w, _ = env.do(t, http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProductHandler_Update(t *testing.T) {
	env := newProductTestEnv(t)
	product, err := catalog.NewProduct("widget", "Widget", catalog.PriceModeUnit,
		valueobject.NewMoneyBRLFromFloat(10), decimal.NewFromInt(5))
	require.NoError(t, err)
	env.repo.add(product)

	newPrice := decimal.NewFromFloat(12.50)
	w, envelope := env.do(t, http.MethodPut, "/api/v1/products/"+product.ID.String(),
		catalogapp.UpdateProductRequest{UnitPrice: &newPrice})
	require.Equal(t, http.StatusOK, w.Code)
	data := envelope["data"].(map[string]any)
	assert.Equal(t, "12.5", data["unit_price"])
}

func TestProductHandler_Deactivate(t *testing.T) {
	env := newProductTestEnv(t)
	product, err := catalog.NewProduct("widget", "Widget", catalog.PriceModeUnit,
		valueobject.NewMoneyBRLFromFloat(10), decimal.NewFromInt(5))
	require.NoError(t, err)
	env.repo.add(product)

	w, _ := env.do(t, http.MethodDelete, "/api/v1/products/"+product.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	stored, err := env.repo.FindByID(t.Context(), product.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)
}

func TestProductHandler_Search(t *testing.T) {
	env := newProductTestEnv(t)
	product, err := catalog.NewProduct("cheese", "Queijo Minas", catalog.PriceModeWeight,
		valueobject.NewMoneyBRLFromFloat(49.90), decimal.NewFromInt(8))
	require.NoError(t, err)
	env.repo.add(product)

	w, envelope := env.do(t, http.MethodGet, "/api/v1/products/search?q=queijo", nil)
	require.Equal(t, http.StatusOK, w.Code)
	results := envelope["data"].([]any)
	require.Len(t, results, 1)
	assert.Equal(t, "CHEESE", results[0].(map[string]any)["code"])
}
