package catalog

import (
	"testing"

	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================
// PriceMode Tests
// ============================================

func TestPriceMode_IsValid(t *testing.T) {
	tests := []struct {
		mode    PriceMode
		isValid bool
	}{
		{PriceModeUnit, true},
		{PriceModeWeight, true},
		{PriceModeVolume, true},
		{PriceMode("bulk"), false},
		{PriceMode(""), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			assert.Equal(t, tt.isValid, tt.mode.IsValid())
		})
	}
}

func TestParsePriceMode(t *testing.T) {
	t.Run("canonical names", func(t *testing.T) {
		for _, mode := range []PriceMode{PriceModeUnit, PriceModeWeight, PriceModeVolume} {
			parsed, ok := ParsePriceMode(string(mode))
			require.True(t, ok)
			assert.Equal(t, mode, parsed)
		}
	})

	t.Run("legacy catalog codes", func(t *testing.T) {
		tests := map[string]PriceMode{
			"unidade": PriceModeUnit,
			"kg":      PriceModeWeight,
			"litros":  PriceModeVolume,
		}
		for code, want := range tests {
			parsed, ok := ParsePriceMode(code)
			require.True(t, ok, code)
			assert.Equal(t, want, parsed)
		}
	})

	t.Run("unknown code", func(t *testing.T) {
		_, ok := ParsePriceMode("gallons")
		assert.False(t, ok)
	})
}

func TestPriceMode_RequiresQuantityEntry(t *testing.T) {
	assert.False(t, PriceModeUnit.RequiresQuantityEntry())
	assert.True(t, PriceModeWeight.RequiresQuantityEntry())
	assert.True(t, PriceModeVolume.RequiresQuantityEntry())
}

func TestPriceMode_BaseUnit(t *testing.T) {
	assert.Equal(t, "un", PriceModeUnit.BaseUnit())
	assert.Equal(t, "kg", PriceModeWeight.BaseUnit())
	assert.Equal(t, "L", PriceModeVolume.BaseUnit())
}

// ============================================
// Product Tests
// ============================================

func TestNewProduct(t *testing.T) {
	t.Run("valid product", func(t *testing.T) {
		product, err := NewProduct("arroz-5kg", "Arroz Tipo 1 5kg", PriceModeUnit,
			valueobject.NewMoneyBRLFromFloat(24.90), decimal.NewFromInt(12))
		require.NoError(t, err)
		assert.Equal(t, "ARROZ-5KG", product.Code)
		assert.True(t, product.Active)
		assert.False(t, product.IsOutOfStock())
	})

	t.Run("empty code", func(t *testing.T) {
		_, err := NewProduct("", "Arroz", PriceModeUnit,
			valueobject.NewMoneyBRLFromFloat(24.90), decimal.NewFromInt(12))
		assert.Error(t, err)
	})

	t.Run("code with invalid characters", func(t *testing.T) {
		_, err := NewProduct("arroz 5kg!", "Arroz", PriceModeUnit,
			valueobject.NewMoneyBRLFromFloat(24.90), decimal.NewFromInt(12))
		assert.Error(t, err)
	})

	t.Run("invalid price mode", func(t *testing.T) {
		_, err := NewProduct("arroz-5kg", "Arroz", PriceMode("bulk"),
			valueobject.NewMoneyBRLFromFloat(24.90), decimal.NewFromInt(12))
		assert.Error(t, err)
	})

	t.Run("negative price", func(t *testing.T) {
		_, err := NewProduct("arroz-5kg", "Arroz", PriceModeUnit,
			valueobject.NewMoneyBRLFromFloat(-1), decimal.NewFromInt(12))
		assert.Error(t, err)
	})

	t.Run("negative stock", func(t *testing.T) {
		_, err := NewProduct("arroz-5kg", "Arroz", PriceModeUnit,
			valueobject.NewMoneyBRLFromFloat(24.90), decimal.NewFromInt(-3))
		assert.Error(t, err)
	})
}

func TestProduct_IsOutOfStock(t *testing.T) {
	product, err := NewProduct("cafe-500g", "Cafe Torrado 500g", PriceModeUnit,
		valueobject.NewMoneyBRLFromFloat(18.50), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, product.IsOutOfStock())

	require.NoError(t, product.SetAvailableQuantity(decimal.NewFromFloat(0.001)))
	assert.False(t, product.IsOutOfStock())
}

func TestProduct_MatchesBarcode(t *testing.T) {
	product, err := NewProduct("cafe-500g", "Cafe Torrado 500g", PriceModeUnit,
		valueobject.NewMoneyBRLFromFloat(18.50), decimal.NewFromInt(10))
	require.NoError(t, err)

	t.Run("no barcode never matches", func(t *testing.T) {
		assert.False(t, product.MatchesBarcode(""))
		assert.False(t, product.MatchesBarcode("7891000315507"))
	})

	t.Run("case insensitive match", func(t *testing.T) {
		require.NoError(t, product.SetBarcode("CAFE-500G"))
		assert.True(t, product.MatchesBarcode("cafe-500g"))
		assert.False(t, product.MatchesBarcode("cafe-250g"))
	})
}

func TestProduct_UpdatePrice(t *testing.T) {
	product, err := NewProduct("cafe-500g", "Cafe Torrado 500g", PriceModeUnit,
		valueobject.NewMoneyBRLFromFloat(18.50), decimal.NewFromInt(10))
	require.NoError(t, err)
	version := product.GetVersion()

	require.NoError(t, product.UpdatePrice(valueobject.NewMoneyBRLFromFloat(19.90)))
	assert.True(t, product.UnitPrice.Equal(decimal.NewFromFloat(19.90)))
	assert.Equal(t, version+1, product.GetVersion())

	assert.Error(t, product.UpdatePrice(valueobject.NewMoneyBRLFromFloat(-5)))
}
