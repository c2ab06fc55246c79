package routes

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authsvc "github.com/shopmall/backend/internal/auth"
	cartsvc "github.com/shopmall/backend/internal/cart"
	favsvc "github.com/shopmall/backend/internal/favorites"
	ordersvc "github.com/shopmall/backend/internal/orders"
	productsvc "github.com/shopmall/backend/internal/products"
	profilesvc "github.com/shopmall/backend/internal/profiles"
	usersvc "github.com/shopmall/backend/internal/users"
	pkgauth "github.com/shopmall/backend/pkg/auth"
	"github.com/shopmall/backend/pkg/config"
	"github.com/shopmall/backend/pkg/enums"
	"github.com/shopmall/backend/pkg/logger"
	"github.com/shopmall/backend/pkg/pagination"
)

type stubSessions struct{}

func (stubSessions) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubPinger struct{}

func (stubPinger) Ping(ctx context.Context) error { return nil }

type stubAuth struct{}

func (stubAuth) Register(ctx context.Context, req authsvc.RegisterRequest) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: uuid.New(), Email: req.Email, Role: enums.RoleCustomer}, nil
}
func (stubAuth) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{Token: "stub", User: &usersvc.UserDTO{ID: uuid.New(), Email: req.Email}}, nil
}
func (stubAuth) Me(ctx context.Context, userID uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: userID, Email: "me@example.com", Role: enums.RoleCustomer}, nil
}
func (stubAuth) ChangePassword(ctx context.Context, userID uuid.UUID, req authsvc.ChangePasswordRequest) error {
	return nil
}
func (stubAuth) Logout(ctx context.Context, accessID string) error { return nil }

type stubUsers struct{}

func (stubUsers) List(ctx context.Context, params pagination.Params) (*usersvc.ListResponse, error) {
	return &usersvc.ListResponse{Users: []usersvc.UserDTO{}, Page: 1, Pages: 0}, nil
}
func (stubUsers) Get(ctx context.Context, id uuid.UUID) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: id}, nil
}
func (stubUsers) Create(ctx context.Context, req usersvc.CreateRequest) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: uuid.New(), Email: req.Email}, nil
}
func (stubUsers) Update(ctx context.Context, id uuid.UUID, req usersvc.UpdateRequest) (*usersvc.UserDTO, error) {
	return &usersvc.UserDTO{ID: id}, nil
}
func (stubUsers) Delete(ctx context.Context, actorID, id uuid.UUID) error { return nil }

type stubProducts struct{}

func (stubProducts) List(ctx context.Context, params pagination.Params, filter productsvc.ListFilter) (*productsvc.ListResponse, error) {
	return &productsvc.ListResponse{Products: []productsvc.ProductDTO{}, Page: 1, Pages: 0}, nil
}
func (stubProducts) Get(ctx context.Context, id uuid.UUID) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id, Name: "stub"}, nil
}
func (stubProducts) ListVendor(ctx context.Context, vendorID uuid.UUID) ([]productsvc.ProductDTO, error) {
	return []productsvc.ProductDTO{}, nil
}
func (stubProducts) Create(ctx context.Context, vendorID uuid.UUID, req productsvc.CreateRequest) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: uuid.New(), Name: req.Name, VendorID: vendorID}, nil
}
func (stubProducts) Update(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, id uuid.UUID, req productsvc.UpdateRequest) (*productsvc.ProductDTO, error) {
	return &productsvc.ProductDTO{ID: id}, nil
}
func (stubProducts) Delete(ctx context.Context, actorID uuid.UUID, actorRole enums.Role, id uuid.UUID) error {
	return nil
}

type stubCart struct{}

func (stubCart) Get(ctx context.Context, userID uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{Items: []cartsvc.ItemDTO{}}, nil
}
func (stubCart) Add(ctx context.Context, userID uuid.UUID, req cartsvc.AddRequest) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{Items: []cartsvc.ItemDTO{}}, nil
}
func (stubCart) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req cartsvc.UpdateRequest) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{Items: []cartsvc.ItemDTO{}}, nil
}
func (stubCart) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*cartsvc.CartDTO, error) {
	return &cartsvc.CartDTO{Items: []cartsvc.ItemDTO{}}, nil
}

type stubCheckout struct {
	order ordersvc.OrderDTO
}

func (s stubCheckout) Checkout(ctx context.Context, userID uuid.UUID) (*ordersvc.OrderDTO, error) {
	order := s.order
	order.UserID = userID
	return &order, nil
}

type stubOrders struct{}

func (stubOrders) ListMine(ctx context.Context, userID uuid.UUID, role enums.Role, params pagination.Params) (*ordersvc.ListResponse, error) {
	return &ordersvc.ListResponse{Orders: []ordersvc.OrderDTO{}, Page: 1, Pages: 0}, nil
}
func (stubOrders) Get(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID) (*ordersvc.OrderDTO, error) {
	return &ordersvc.OrderDTO{ID: orderID, Status: enums.OrderStatusPending}, nil
}
func (stubOrders) ListVendorOrders(ctx context.Context, vendorID uuid.UUID) ([]ordersvc.VendorOrderDTO, error) {
	return []ordersvc.VendorOrderDTO{}, nil
}
func (stubOrders) ListAll(ctx context.Context, params pagination.Params) (*ordersvc.ListResponse, error) {
	return &ordersvc.ListResponse{Orders: []ordersvc.OrderDTO{}, Page: 1, Pages: 0}, nil
}
func (stubOrders) UpdateStatus(ctx context.Context, actorID uuid.UUID, role enums.Role, orderID uuid.UUID, status string) (enums.OrderStatus, error) {
	return enums.OrderStatus(status), nil
}

type stubFavorites struct{}

func (stubFavorites) List(ctx context.Context, userID uuid.UUID) ([]favsvc.FavoriteDTO, error) {
	return []favsvc.FavoriteDTO{}, nil
}
func (stubFavorites) Add(ctx context.Context, userID uuid.UUID, req favsvc.AddRequest) (*favsvc.FavoriteDTO, error) {
	return &favsvc.FavoriteDTO{ID: uuid.New(), ProductID: req.ProductID}, nil
}
func (stubFavorites) Remove(ctx context.Context, userID, productID uuid.UUID) error { return nil }
func (stubFavorites) Check(ctx context.Context, userID, productID uuid.UUID) (*favsvc.CheckResponse, error) {
	return &favsvc.CheckResponse{Favorited: false}, nil
}

type stubProfiles struct{}

func (stubProfiles) GetUserProfile(ctx context.Context, userID uuid.UUID) (*profilesvc.UserProfileDTO, error) {
	return &profilesvc.UserProfileDTO{ID: uuid.New(), UserID: userID}, nil
}
func (stubProfiles) UpdateUserProfile(ctx context.Context, userID uuid.UUID, req profilesvc.UpdateUserProfileRequest) (*profilesvc.UserProfileDTO, error) {
	return &profilesvc.UserProfileDTO{ID: uuid.New(), UserID: userID}, nil
}
func (stubProfiles) GetVendorProfile(ctx context.Context, vendorID uuid.UUID) (*profilesvc.VendorProfileDTO, error) {
	return &profilesvc.VendorProfileDTO{ID: uuid.New(), VendorID: vendorID}, nil
}
func (stubProfiles) UpdateVendorProfile(ctx context.Context, vendorID uuid.UUID, req profilesvc.UpdateVendorProfileRequest) (*profilesvc.VendorProfileDTO, error) {
	return &profilesvc.VendorProfileDTO{ID: uuid.New(), VendorID: vendorID}, nil
}
func (stubProfiles) GetAdminSettings(ctx context.Context, actorID, adminID uuid.UUID) (*profilesvc.AdminSettingsDTO, error) {
	return &profilesvc.AdminSettingsDTO{ID: uuid.New(), AdminID: adminID}, nil
}
func (stubProfiles) UpdateAdminSettings(ctx context.Context, actorID, adminID uuid.UUID, req profilesvc.UpdateAdminSettingsRequest) (*profilesvc.AdminSettingsDTO, error) {
	return &profilesvc.AdminSettingsDTO{ID: uuid.New(), AdminID: adminID}, nil
}

func newTestRouter(t *testing.T) (http.Handler, *config.Config) {
	t.Helper()

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:            "router-test-secret",
			Issuer:            "shopmall",
			ExpirationMinutes: 30,
		},
	}
	logg := logger.New(logger.Options{ServiceName: "router-test", Output: io.Discard})

	checkoutOrder := ordersvc.OrderDTO{
		ID:     uuid.New(),
		Total:  56.30,
		Status: enums.OrderStatusPending,
		Items:  []ordersvc.OrderItemDTO{},
	}

	handler := NewRouter(Deps{
		Config:   cfg,
		Logger:   logg,
		DB:       stubPinger{},
		Sessions: stubSessions{},
		Auth:     stubAuth{},
		Users:    stubUsers{},
		Products: stubProducts{},
		Cart:     stubCart{},
		Checkout: stubCheckout{order: checkoutOrder},
		Orders:   stubOrders{},
		Favs:     stubFavorites{},
		Profiles: stubProfiles{},
	})
	return handler, cfg
}

func mintToken(t *testing.T, cfg *config.Config, role enums.Role) string {
	t.Helper()
	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    uuid.NewString(),
	})
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, handler http.Handler, method, target, token, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &decoded))
	}
	return rec, decoded
}

func TestHealthLive(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec, body := doRequest(t, handler, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "live", body["status"])
}

func TestPublicCatalogNeedsNoToken(t *testing.T) {
	handler, _ := newTestRouter(t)

	rec, _ := doRequest(t, handler, http.MethodGet, "/api/products", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, _ = doRequest(t, handler, http.MethodGet, "/api/products/"+uuid.NewString(), "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProtectedRoutesRejectMissingToken(t *testing.T) {
	handler, _ := newTestRouter(t)

	for _, target := range []string{"/api/orders", "/api/cart", "/api/profile"} {
		rec, _ := doRequest(t, handler, http.MethodGet, target, "", "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code, target)
	}
}

func TestCartBlocksAdmins(t *testing.T) {
	handler, cfg := newTestRouter(t)

	rec, body := doRequest(t, handler, http.MethodGet, "/api/cart", mintToken(t, cfg, enums.RoleAdmin), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "管理员不能使用购物车功能", body["message"])

	rec, _ = doRequest(t, handler, http.MethodGet, "/api/cart", mintToken(t, cfg, enums.RoleCustomer), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckoutResponseShape(t *testing.T) {
	handler, cfg := newTestRouter(t)

	rec, body := doRequest(t, handler, http.MethodPost, "/api/cart/checkout", mintToken(t, cfg, enums.RoleCustomer), "")
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "订单创建成功", body["message"])

	order, ok := body["order"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "pending", order["status"])
	assert.InDelta(t, 56.30, order["total"], 0.001)
}

func TestFavoritesAreCustomerOnly(t *testing.T) {
	handler, cfg := newTestRouter(t)

	for _, role := range []enums.Role{enums.RoleVendor, enums.RoleAdmin} {
		rec, body := doRequest(t, handler, http.MethodGet, "/api/favorites", mintToken(t, cfg, role), "")
		assert.Equal(t, http.StatusForbidden, rec.Code)
		assert.Equal(t, "只有普通用户可以使用收藏功能", body["message"])
	}

	rec, _ := doRequest(t, handler, http.MethodGet, "/api/favorites", mintToken(t, cfg, enums.RoleCustomer), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestVendorProfileGate(t *testing.T) {
	handler, cfg := newTestRouter(t)

	rec, body := doRequest(t, handler, http.MethodGet, "/api/vendor/profile", mintToken(t, cfg, enums.RoleCustomer), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "无权访问店铺资料", body["message"])

	rec, _ = doRequest(t, handler, http.MethodGet, "/api/vendor/profile", mintToken(t, cfg, enums.RoleVendor), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminAreaRequiresAdmin(t *testing.T) {
	handler, cfg := newTestRouter(t)

	rec, body := doRequest(t, handler, http.MethodGet, "/api/admin/users", mintToken(t, cfg, enums.RoleVendor), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "无权访问管理功能", body["message"])

	rec, _ = doRequest(t, handler, http.MethodGet, "/api/admin/users", mintToken(t, cfg, enums.RoleAdmin), "")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestOrderScopedRoutes(t *testing.T) {
	handler, cfg := newTestRouter(t)

	rec, body := doRequest(t, handler, http.MethodGet, "/api/orders/vendor", mintToken(t, cfg, enums.RoleCustomer), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "无权查看店铺订单", body["message"])

	rec, body = doRequest(t, handler, http.MethodGet, "/api/orders/all", mintToken(t, cfg, enums.RoleVendor), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "无权查看全部订单", body["message"])

	rec, body = doRequest(t, handler, http.MethodPut,
		"/api/orders/"+uuid.NewString()+"/status",
		mintToken(t, cfg, enums.RoleVendor),
		`{"status":"shipped"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "订单状态已更新", body["message"])
	assert.Equal(t, "shipped", body["status"])

	rec, body = doRequest(t, handler, http.MethodPut,
		"/api/orders/"+uuid.NewString()+"/status",
		mintToken(t, cfg, enums.RoleCustomer),
		`{"status":"shipped"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "无权更新订单状态", body["message"])
}
