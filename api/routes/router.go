package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopmall/backend/api/controllers"
	"github.com/shopmall/backend/api/middleware"
	authsvc "github.com/shopmall/backend/internal/auth"
	cartsvc "github.com/shopmall/backend/internal/cart"
	checkoutsvc "github.com/shopmall/backend/internal/checkout"
	favsvc "github.com/shopmall/backend/internal/favorites"
	ordersvc "github.com/shopmall/backend/internal/orders"
	productsvc "github.com/shopmall/backend/internal/products"
	profilesvc "github.com/shopmall/backend/internal/profiles"
	usersvc "github.com/shopmall/backend/internal/users"
	"github.com/shopmall/backend/pkg/auth/session"
	"github.com/shopmall/backend/pkg/config"
	"github.com/shopmall/backend/pkg/db"
	"github.com/shopmall/backend/pkg/enums"
	"github.com/shopmall/backend/pkg/logger"
	"github.com/shopmall/backend/pkg/metrics"
	"github.com/shopmall/backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	Sessions    session.AccessSessionChecker
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Auth     authsvc.Service
	Users    usersvc.Service
	Products productsvc.Service
	Cart     cartsvc.Service
	Checkout checkoutsvc.Service
	Orders   ordersvc.Service
	Favs     favsvc.Service
	Profiles profilesvc.Service
}

// NewRouter assembles the full HTTP surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive())
		r.Get("/ready", controllers.HealthReady(deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	authGate := middleware.Auth(cfg.JWT, deps.Sessions, logg)

	r.Route("/api/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(registerPolicy, deps.Redis, logg)).Post("/register", controllers.Register(deps.Auth, logg))
		r.With(middleware.AuthRateLimit(loginPolicy, deps.Redis, logg)).Post("/login", controllers.Login(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(authGate)
			r.Get("/me", controllers.Me(deps.Auth, logg))
			r.Put("/password", controllers.ChangePassword(deps.Auth, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, logg))
		})
	})

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", controllers.ListProducts(deps.Products, logg))

		r.Group(func(r chi.Router) {
			r.Use(authGate, middleware.RequireRole(logg, "无权管理产品", enums.RoleVendor, enums.RoleAdmin))
			r.Get("/vendor", controllers.ListVendorProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
	})

	r.Route("/api/cart", func(r chi.Router) {
		r.Use(authGate, middleware.BlockRole(logg, "管理员不能使用购物车功能", enums.RoleAdmin))
		r.Get("/", controllers.GetCart(deps.Cart, logg))
		r.Post("/add", controllers.AddToCart(deps.Cart, logg))
		r.Post("/checkout", controllers.Checkout(deps.Checkout, logg))
		r.Put("/{id}", controllers.UpdateCartItem(deps.Cart, logg))
		r.Delete("/{id}", controllers.RemoveCartItem(deps.Cart, logg))
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(authGate)
		r.Get("/", controllers.ListMyOrders(deps.Orders, logg))
		r.With(middleware.RequireRole(logg, "无权查看店铺订单", enums.RoleVendor)).
			Get("/vendor", controllers.ListVendorOrders(deps.Orders, logg))
		r.With(middleware.RequireRole(logg, "无权查看全部订单", enums.RoleAdmin)).
			Get("/all", controllers.ListAllOrders(deps.Orders, logg))
		r.Get("/{id}", controllers.GetOrder(deps.Orders, logg))
		r.With(middleware.RequireRole(logg, "无权更新订单状态", enums.RoleVendor, enums.RoleAdmin)).
			Put("/{id}/status", controllers.UpdateOrderStatus(deps.Orders, logg))
	})

	r.Route("/api/favorites", func(r chi.Router) {
		r.Use(authGate, middleware.RequireRole(logg, "只有普通用户可以使用收藏功能", enums.RoleCustomer))
		r.Get("/", controllers.ListFavorites(deps.Favs, logg))
		r.Post("/", controllers.AddFavorite(deps.Favs, logg))
		r.Delete("/{product_id}", controllers.RemoveFavorite(deps.Favs, logg))
		r.Get("/check/{product_id}", controllers.CheckFavorite(deps.Favs, logg))
	})

	r.Route("/api/profile", func(r chi.Router) {
		r.Use(authGate)
		r.Get("/", controllers.GetUserProfile(deps.Profiles, logg))
		r.Put("/", controllers.UpdateUserProfile(deps.Profiles, logg))
	})

	r.Route("/api/vendor/profile", func(r chi.Router) {
		r.Use(authGate, middleware.RequireRole(logg, "无权访问店铺资料", enums.RoleVendor))
		r.Get("/", controllers.GetVendorProfile(deps.Profiles, logg))
		r.Put("/", controllers.UpdateVendorProfile(deps.Profiles, logg))
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(authGate, middleware.RequireRole(logg, "无权访问管理功能", enums.RoleAdmin))

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminListUsers(deps.Users, logg))
			r.Post("/", controllers.AdminCreateUser(deps.Users, logg))
			r.Get("/{id}", controllers.AdminGetUser(deps.Users, logg))
			r.Put("/{id}", controllers.AdminUpdateUser(deps.Users, logg))
			r.Delete("/{id}", controllers.AdminDeleteUser(deps.Users, logg))
		})

		r.Route("/settings/{user_id}", func(r chi.Router) {
			r.Get("/", controllers.GetAdminSettings(deps.Profiles, logg))
			r.Put("/", controllers.UpdateAdminSettings(deps.Profiles, logg))
		})
	})

	return r
}
