package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/kontrollapro/backend/internal/domain/catalog"
	"github.com/kontrollapro/backend/internal/domain/shared"
	"github.com/kontrollapro/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRepository creates a GormProductRepository backed by an in-memory
// SQLite database
func newTestRepository(t *testing.T) *GormProductRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&catalog.Product{}))
	return NewGormProductRepository(db)
}

func seedProduct(t *testing.T, repo *GormProductRepository, code, name, barcode string, mode catalog.PriceMode, price, stock float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(code, name, mode,
		valueobject.NewMoneyBRLFromFloat(price), decimal.NewFromFloat(stock))
	require.NoError(t, err)
	if barcode != "" {
		require.NoError(t, product.SetBarcode(barcode))
	}
	require.NoError(t, repo.Save(context.Background(), product))
	return product
}

func TestGormProductRepository_FindByID(t *testing.T) {
	repo := newTestRepository(t)
	product := seedProduct(t, repo, "cafe-500g", "Cafe Torrado 500g", "7891000100103", catalog.PriceModeUnit, 18.50, 10)

	t.Run("finds existing product", func(t *testing.T) {
		found, err := repo.FindByID(context.Background(), product.ID)
		require.NoError(t, err)
		assert.Equal(t, "CAFE-500G", found.Code)
		assert.Equal(t, catalog.PriceModeUnit, found.PriceMode)
		assert.True(t, found.UnitPrice.Equal(decimal.NewFromFloat(18.50)))
	})

	t.Run("unknown id", func(t *testing.T) {
		_, err := repo.FindByID(context.Background(), uuid.New())
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindByCode(t *testing.T) {
	repo := newTestRepository(t)
	seedProduct(t, repo, "cafe-500g", "Cafe Torrado 500g", "", catalog.PriceModeUnit, 18.50, 10)

	t.Run("code lookup is case insensitive", func(t *testing.T) {
		found, err := repo.FindByCode(context.Background(), "cafe-500g")
		require.NoError(t, err)
		assert.Equal(t, "CAFE-500G", found.Code)
	})

	t.Run("unknown code", func(t *testing.T) {
		_, err := repo.FindByCode(context.Background(), "NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_FindByBarcode(t *testing.T) {
	repo := newTestRepository(t)
	seedProduct(t, repo, "queijo-minas", "Queijo Minas", "7891000244203", catalog.PriceModeWeight, 49.90, 8)

	t.Run("finds by barcode", func(t *testing.T) {
		found, err := repo.FindByBarcode(context.Background(), "7891000244203")
		require.NoError(t, err)
		assert.Equal(t, "Queijo Minas", found.Name)
		assert.Equal(t, catalog.PriceModeWeight, found.PriceMode)
	})

	t.Run("empty barcode", func(t *testing.T) {
		_, err := repo.FindByBarcode(context.Background(), "  ")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormProductRepository_SaveUpdatesExisting(t *testing.T) {
	repo := newTestRepository(t)
	product := seedProduct(t, repo, "cafe-500g", "Cafe Torrado 500g", "", catalog.PriceModeUnit, 18.50, 10)

	require.NoError(t, product.UpdatePrice(valueobject.NewMoneyBRLFromFloat(19.90)))
	require.NoError(t, repo.Save(context.Background(), product))

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.True(t, found.UnitPrice.Equal(decimal.NewFromFloat(19.90)))
	assert.Equal(t, 2, found.GetVersion())
}

func TestGormProductRepository_Delete(t *testing.T) {
	repo := newTestRepository(t)
	product := seedProduct(t, repo, "cafe-500g", "Cafe Torrado 500g", "", catalog.PriceModeUnit, 18.50, 10)

	require.NoError(t, repo.Delete(context.Background(), product.ID))
	_, err := repo.FindByID(context.Background(), product.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(context.Background(), product.ID), shared.ErrNotFound)
}

func TestGormProductRepository_FindAllAndCount(t *testing.T) {
	repo := newTestRepository(t)
	seedProduct(t, repo, "cafe-500g", "Cafe Torrado 500g", "", catalog.PriceModeUnit, 18.50, 10)
	seedProduct(t, repo, "queijo-minas", "Queijo Minas", "", catalog.PriceModeWeight, 49.90, 8)
	seedProduct(t, repo, "leite-1l", "Leite Integral 1L", "", catalog.PriceModeUnit, 5.49, 30)

	t.Run("search filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "queijo"

		products, err := repo.FindAll(context.Background(), filter)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "Queijo Minas", products[0].Name)

		count, err := repo.Count(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("price mode filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Filters["price_mode"] = "unit"

		count, err := repo.Count(context.Background(), filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), count)
	})

	t.Run("pagination", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.PageSize = 2
		filter.OrderBy = "name"
		filter.OrderDir = "asc"

		page1, err := repo.FindAll(context.Background(), filter)
		require.NoError(t, err)
		assert.Len(t, page1, 2)

		filter.Page = 2
		page2, err := repo.FindAll(context.Background(), filter)
		require.NoError(t, err)
		assert.Len(t, page2, 1)
	})
}

func TestGormProductRepository_SearchActive(t *testing.T) {
	repo := newTestRepository(t)
	seedProduct(t, repo, "cafe-500g", "Cafe Torrado 500g", "7891000100103", catalog.PriceModeUnit, 18.50, 10)
	inactive := seedProduct(t, repo, "cafe-250g", "Cafe Torrado 250g", "", catalog.PriceModeUnit, 10.50, 10)
	inactive.Deactivate()
	require.NoError(t, repo.Save(context.Background(), inactive))

	t.Run("matches name and skips inactive", func(t *testing.T) {
		products, err := repo.SearchActive(context.Background(), "cafe", 10)
		require.NoError(t, err)
		require.Len(t, products, 1)
		assert.Equal(t, "CAFE-500G", products[0].Code)
	})

	t.Run("matches barcode fragment", func(t *testing.T) {
		products, err := repo.SearchActive(context.Background(), "7891000", 10)
		require.NoError(t, err)
		assert.Len(t, products, 1)
	})

	t.Run("blank query returns nothing", func(t *testing.T) {
		products, err := repo.SearchActive(context.Background(), "   ", 10)
		require.NoError(t, err)
		assert.Empty(t, products)
	})
}
