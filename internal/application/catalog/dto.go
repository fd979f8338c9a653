package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	Code              string          `json:"code" binding:"required,min=1,max=50"`
	Name              string          `json:"name" binding:"required,min=1,max=200"`
	Barcode           string          `json:"barcode" binding:"max=50"`
	PriceMode         string          `json:"price_mode" binding:"required"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
}

// UpdateProductRequest represents a request to update a product
type UpdateProductRequest struct {
	Barcode           *string          `json:"barcode" binding:"omitempty,max=50"`
	UnitPrice         *decimal.Decimal `json:"unit_price"`
	AvailableQuantity *decimal.Decimal `json:"available_quantity"`
}

// ProductListFilter represents product list filtering options
type ProductListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID                uuid.UUID       `json:"id"`
	Code              string          `json:"code"`
	Name              string          `json:"name"`
	Barcode           string          `json:"barcode"`
	PriceMode         string          `json:"price_mode"`
	BaseUnit          string          `json:"base_unit"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	AvailableQuantity decimal.Decimal `json:"available_quantity"`
	OutOfStock        bool            `json:"out_of_stock"`
	Active            bool            `json:"active"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product to its response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:                product.ID,
		Code:              product.Code,
		Name:              product.Name,
		Barcode:           product.Barcode,
		PriceMode:         product.PriceMode.String(),
		BaseUnit:          product.PriceMode.BaseUnit(),
		UnitPrice:         product.UnitPrice,
		AvailableQuantity: product.AvailableQuantity,
		OutOfStock:        product.IsOutOfStock(),
		Active:            product.Active,
		CreatedAt:         product.CreatedAt,
		UpdatedAt:         product.UpdatedAt,
	}
}
