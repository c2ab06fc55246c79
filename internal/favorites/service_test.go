package favorites

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopmall/backend/internal/products"
	"github.com/shopmall/backend/pkg/db/models"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
)

func setupFavoritesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:favorites_" + uuid.NewString() + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	for _, ddl := range []string{
		`CREATE TABLE products (
  id TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  price NUMERIC NOT NULL,
  vendor_id TEXT NOT NULL,
  stock INTEGER NOT NULL DEFAULT 0,
  category TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE favorites (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  created_at DATETIME,
  UNIQUE (user_id, product_id)
);`,
	} {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}

func newFavoritesService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:     NewRepository(conn),
		Products: products.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc
}

func seedFavoriteProduct(t *testing.T, conn *gorm.DB, name string) models.Product {
	t.Helper()
	product := models.Product{
		ID:       uuid.New(),
		Name:     name,
		Price:    decimal.RequireFromString("9.90"),
		VendorID: uuid.New(),
		Stock:    3,
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func TestAddListAndCheckFavorite(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, conn)
	ctx := context.Background()
	userID := uuid.New()

	product := seedFavoriteProduct(t, conn, "手办")

	favorite, err := svc.Add(ctx, userID, AddRequest{ProductID: product.ID})
	require.NoError(t, err)
	assert.Equal(t, "手办", favorite.ProductName)
	assert.InDelta(t, 9.90, favorite.Price, 0.001)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, product.ID, list[0].ProductID)

	check, err := svc.Check(ctx, userID, product.ID)
	require.NoError(t, err)
	assert.True(t, check.Favorited)

	check, err = svc.Check(ctx, userID, uuid.New())
	require.NoError(t, err)
	assert.False(t, check.Favorited)
}

func TestAddFavoriteRejectsMissingAndDuplicate(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, conn)
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.Add(ctx, userID, AddRequest{ProductID: uuid.New()})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "产品不存在", typed.Message())

	product := seedFavoriteProduct(t, conn, "摆件")
	_, err = svc.Add(ctx, userID, AddRequest{ProductID: product.ID})
	require.NoError(t, err)

	_, err = svc.Add(ctx, userID, AddRequest{ProductID: product.ID})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Equal(t, "已收藏该产品", typed.Message())
}

func TestRemoveFavorite(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, conn)
	ctx := context.Background()
	userID := uuid.New()

	product := seedFavoriteProduct(t, conn, "模型")
	_, err := svc.Add(ctx, userID, AddRequest{ProductID: product.ID})
	require.NoError(t, err)

	require.NoError(t, svc.Remove(ctx, userID, product.ID))

	err = svc.Remove(ctx, userID, product.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
	assert.Equal(t, "收藏不存在", typed.Message())
}

func TestListSkipsDeletedProducts(t *testing.T) {
	conn := setupFavoritesTestDB(t)
	svc := newFavoritesService(t, conn)
	ctx := context.Background()
	userID := uuid.New()

	kept := seedFavoriteProduct(t, conn, "存货")
	doomed := seedFavoriteProduct(t, conn, "绝版")
	_, err := svc.Add(ctx, userID, AddRequest{ProductID: kept.ID})
	require.NoError(t, err)
	_, err = svc.Add(ctx, userID, AddRequest{ProductID: doomed.ID})
	require.NoError(t, err)

	require.NoError(t, conn.Delete(&models.Product{}, "id = ?", doomed.ID).Error)

	list, err := svc.List(ctx, userID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, kept.ID, list[0].ProductID)
}
