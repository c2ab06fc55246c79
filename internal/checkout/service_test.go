package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopmall/backend/internal/cart"
	"github.com/shopmall/backend/internal/orders"
	"github.com/shopmall/backend/pkg/db"
	"github.com/shopmall/backend/pkg/db/models"
	"github.com/shopmall/backend/pkg/enums"
	pkgerrors "github.com/shopmall/backend/pkg/errors"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:checkout_" + uuid.NewString() + "?mode=memory&cache=shared"
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
		`CREATE TABLE cart_items (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE orders (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  total NUMERIC NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE order_items (
  id TEXT PRIMARY KEY,
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price NUMERIC NOT NULL
);`,
	} {
		require.NoError(t, conn.Exec(ddl).Error)
	}
	return conn
}

func newCheckoutService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		DB:         db.NewFromConn(conn),
		Repo:       NewRepository(conn),
		CartRepo:   cart.NewRepository(conn),
		OrdersRepo: orders.NewRepository(conn),
	})
	require.NoError(t, err)
	return svc
}

func seedProduct(t *testing.T, conn *gorm.DB, price string, stock int) models.Product {
	t.Helper()
	product := models.Product{
		ID:       uuid.New(),
		Name:     "测试产品",
		Price:    decimal.RequireFromString(price),
		VendorID: uuid.New(),
		Stock:    stock,
	}
	require.NoError(t, conn.Create(&product).Error)
	return product
}

func seedCartItem(t *testing.T, conn *gorm.DB, userID, productID uuid.UUID, qty int) {
	t.Helper()
	require.NoError(t, conn.Create(&models.CartItem{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Quantity:  qty,
	}).Error)
}

func TestCheckoutCreatesOrderAndClearsCart(t *testing.T) {
	conn := newTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	first := seedProduct(t, conn, "19.90", 10)
	second := seedProduct(t, conn, "5.50", 3)
	seedCartItem(t, conn, userID, first.ID, 2)
	seedCartItem(t, conn, userID, second.ID, 3)

	order, err := svc.Checkout(context.Background(), userID)
	require.NoError(t, err)
	require.Equal(t, userID, order.UserID)
	require.Equal(t, enums.OrderStatusPending, order.Status)
	require.Len(t, order.Items, 2)
	// 19.90*2 + 5.50*3
	require.InDelta(t, 56.30, order.Total, 0.001)

	var cartCount int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	require.Zero(t, cartCount)

	var firstAfter, secondAfter models.Product
	require.NoError(t, conn.First(&firstAfter, "id = ?", first.ID).Error)
	require.Equal(t, 8, firstAfter.Stock)
	require.NoError(t, conn.First(&secondAfter, "id = ?", second.ID).Error)
	require.Equal(t, 0, secondAfter.Stock)
}

func TestCheckoutEmptyCart(t *testing.T) {
	conn := newTestDB(t)
	svc := newCheckoutService(t, conn)

	_, err := svc.Checkout(context.Background(), uuid.New())
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeValidation, typed.Code())
	require.Equal(t, "购物车为空，无法结账", typed.Message())
}

func TestCheckoutInsufficientStockLeavesNoWrites(t *testing.T) {
	conn := newTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	ok := seedProduct(t, conn, "10.00", 5)
	short := seedProduct(t, conn, "8.00", 1)
	seedCartItem(t, conn, userID, ok.ID, 2)
	seedCartItem(t, conn, userID, short.ID, 4)

	_, err := svc.Checkout(context.Background(), userID)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	require.Equal(t, "部分产品库存不足或不可用", typed.Message())

	details, isMap := typed.Details().(map[string]any)
	require.True(t, isMap)
	entries, isList := details["unavailable_products"].([]UnavailableProduct)
	require.True(t, isList)
	require.Len(t, entries, 1)
	require.Equal(t, short.ID, entries[0].ProductID)
	require.Equal(t, 4, entries[0].RequestedQuantity)
	require.Equal(t, 1, entries[0].AvailableStock)

	var orderCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)

	var cartCount int64
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	require.Equal(t, int64(2), cartCount)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", ok.ID).Error)
	require.Equal(t, 5, reloaded.Stock)
}

func TestCheckoutStockRaceRollsBackEverything(t *testing.T) {
	conn := newTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	product := seedProduct(t, conn, "9.90", 1)
	seedCartItem(t, conn, userID, product.ID, 1)

	// Simulate a concurrent buyer taking the last unit between the
	// availability check and the guarded decrement.
	require.NoError(t, conn.Exec(`
CREATE TRIGGER steal_last_unit AFTER INSERT ON order_items
BEGIN
  UPDATE products SET stock = 0 WHERE id = NEW.product_id;
END;`).Error)

	_, err := svc.Checkout(context.Background(), userID)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())
	require.Equal(t, "部分产品库存不足或不可用", typed.Message())

	details := typed.Details().(map[string]any)
	entries := details["unavailable_products"].([]UnavailableProduct)
	require.Len(t, entries, 1)
	require.Equal(t, product.ID, entries[0].ProductID)
	require.Equal(t, 1, entries[0].RequestedQuantity)

	var orderCount, itemCount, cartCount int64
	require.NoError(t, conn.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)
	require.NoError(t, conn.Model(&models.OrderItem{}).Count(&itemCount).Error)
	require.Zero(t, itemCount)
	require.NoError(t, conn.Model(&models.CartItem{}).Where("user_id = ?", userID).Count(&cartCount).Error)
	require.Equal(t, int64(1), cartCount)

	// The rollback restores the stolen unit along with everything else.
	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	require.Equal(t, 1, reloaded.Stock)
}

func TestCheckoutMissingProductReportedUnavailable(t *testing.T) {
	conn := newTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	ghost := uuid.New()
	seedCartItem(t, conn, userID, ghost, 1)

	_, err := svc.Checkout(context.Background(), userID)
	require.Error(t, err)

	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	require.Equal(t, pkgerrors.CodeInsufficientStock, typed.Code())

	details := typed.Details().(map[string]any)
	entries := details["unavailable_products"].([]UnavailableProduct)
	require.Len(t, entries, 1)
	require.Equal(t, ghost, entries[0].ProductID)
	require.Zero(t, entries[0].AvailableStock)
}

func TestCheckoutCapturesPriceAtPurchase(t *testing.T) {
	conn := newTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	product := seedProduct(t, conn, "12.00", 5)
	seedCartItem(t, conn, userID, product.ID, 1)

	order, err := svc.Checkout(context.Background(), userID)
	require.NoError(t, err)

	// Later price changes must not affect the recorded line.
	require.NoError(t, conn.Model(&models.Product{}).
		Where("id = ?", product.ID).
		Update("price", decimal.RequireFromString("99.00")).Error)

	var item models.OrderItem
	require.NoError(t, conn.First(&item, "order_id = ?", order.ID).Error)
	require.True(t, item.Price.Equal(decimal.RequireFromString("12.00")))
}

func TestDecrementStockGuard(t *testing.T) {
	conn := newTestDB(t)
	repo := NewRepository(conn)
	product := seedProduct(t, conn, "4.00", 3)

	ok, err := repo.DecrementStock(context.Background(), product.ID, 3)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = repo.DecrementStock(context.Background(), product.ID, 1)
	require.NoError(t, err)
	require.False(t, ok)

	var reloaded models.Product
	require.NoError(t, conn.First(&reloaded, "id = ?", product.ID).Error)
	require.Zero(t, reloaded.Stock)
}
