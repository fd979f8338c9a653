package dto

import "net/http"

// Transport-level error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeNotFound is used when a route or resource is not found
	ErrCodeNotFound = "NOT_FOUND"
)

// ErrorCodeHTTPStatus maps domain and transport error codes to HTTP status
// codes. Codes not listed here resolve to 500
var ErrorCodeHTTPStatus = map[string]int{
	// Transport errors
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,
	ErrCodeInternal:   http.StatusInternalServerError,

	// Lookup failures -> 404 Not Found
	ErrCodeNotFound:     http.StatusNotFound,
	"PRODUCT_NOT_FOUND": http.StatusNotFound,
	"SESSION_NOT_FOUND": http.StatusNotFound,
	"ITEM_NOT_FOUND":    http.StatusNotFound,

	// Bad input -> 400 Bad Request
	"INVALID_INPUT":        http.StatusBadRequest,
	"INVALID_QUANTITY":     http.StatusBadRequest,
	"INVALID_DENOMINATION": http.StatusBadRequest,
	"INVALID_PRICE_MODE":   http.StatusBadRequest,
	"INVALID_DISCOUNT":     http.StatusBadRequest,
	"INVALID_CODE":         http.StatusBadRequest,
	"INVALID_NAME":         http.StatusBadRequest,
	"INVALID_BARCODE":      http.StatusBadRequest,
	"INVALID_PRICE":        http.StatusBadRequest,
	"INVALID_STOCK":        http.StatusBadRequest,

	// Conflicts -> 409 Conflict
	"ALREADY_EXISTS":     http.StatusConflict,
	"ENTRY_ALREADY_OPEN": http.StatusConflict,

	// Business rule violations -> 422 Unprocessable Entity
	"OUT_OF_STOCK":            http.StatusUnprocessableEntity,
	"QUANTITY_ENTRY_REQUIRED": http.StatusUnprocessableEntity,
	"INVALID_STATE":           http.StatusUnprocessableEntity,
	"CART_NOT_ACTIVE":         http.StatusUnprocessableEntity,
	"EMPTY_CART":              http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
