// Package routes declares every named HTTP route.
package routes

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/shopfront/app/controllers"
	"github.com/shashiranjanraj/shopfront/app/gql"
	"github.com/shashiranjanraj/shopfront/app/services"
	"github.com/shashiranjanraj/shopfront/pkg/auth"
	"github.com/shashiranjanraj/shopfront/pkg/cache"
	"github.com/shashiranjanraj/shopfront/pkg/ctx"
	"github.com/shashiranjanraj/shopfront/pkg/graphql"
	"github.com/shashiranjanraj/shopfront/pkg/middleware"
	"github.com/shashiranjanraj/shopfront/pkg/router"
	"github.com/shashiranjanraj/shopfront/pkg/storage"
)

// Services is everything the routes need, built once per process.
type Services struct {
	Tokens    *auth.Issuer
	Auth      *services.AuthService
	Addresses *services.AddressService
	Catalog   *services.CatalogService
	Orders    *services.OrderService
	Payments  *services.PaymentService
}

// NewServices wires the services onto one database handle. store and disk
// may be nil.
func NewServices(db *gorm.DB, tokens *auth.Issuer, store cache.Store, disk storage.Disk) *Services {
	return &Services{
		Tokens:    tokens,
		Auth:      services.NewAuthService(db, tokens),
		Addresses: services.NewAddressService(db),
		Catalog:   services.NewCatalogService(db, store, disk),
		Orders:    services.NewOrderService(db),
		Payments:  services.NewPaymentService(db),
	}
}

func RegisterAPI(r *router.Router, s *Services) error {
	authController := controllers.NewAuthController(s.Auth)
	addressController := controllers.NewAddressController(s.Addresses)
	catalogController := controllers.NewCatalogController(s.Catalog)
	orderController := controllers.NewOrderController(s.Orders)
	paymentController := controllers.NewPaymentController(s.Payments)

	user := middleware.RequireUser(s.Tokens, s.Auth.CheckUser)
	admin := middleware.RequireAdmin(s.Tokens, s.Auth.CheckAdmin)
	maybeAdmin := middleware.OptionalAdmin(s.Tokens, s.Auth.CheckAdmin)

	r.Post("/auth/login", "auth.login", ctx.Wrap(authController.Login))

	users := r.Group("/users")
	users.Post("/register", "users.register", ctx.Wrap(authController.Register))
	users.Get("/me", "users.me", ctx.Wrap(authController.Me), user)

	addresses := r.Group("/addresses", user)
	addresses.Get("/", "addresses.index", ctx.Wrap(addressController.Index))
	addresses.Post("/", "addresses.store", ctx.Wrap(addressController.Store))
	addresses.Get("/{id}", "addresses.show", ctx.Wrap(addressController.Show))
	addresses.Put("/{id}", "addresses.update", ctx.Wrap(addressController.Update))
	addresses.Delete("/{id}", "addresses.destroy", ctx.Wrap(addressController.Destroy))

	categories := r.Group("/categories")
	categories.Get("/", "categories.index", ctx.Wrap(catalogController.Categories))
	categories.Get("/{id}", "categories.show", ctx.Wrap(catalogController.ShowCategory))
	categories.Post("/", "categories.store", ctx.Wrap(catalogController.StoreCategory), admin)
	categories.Put("/{id}", "categories.update", ctx.Wrap(catalogController.UpdateCategory), admin)

	products := r.Group("/products")
	products.Get("/", "products.index", ctx.Wrap(catalogController.Products))
	products.Get("/{id}", "products.show", ctx.Wrap(catalogController.ShowProduct))
	products.Post("/", "products.store", ctx.Wrap(catalogController.StoreProduct), admin)
	products.Put("/{id}", "products.update", ctx.Wrap(catalogController.UpdateProduct), admin)
	products.Put("/{id}/image", "products.image", ctx.Wrap(catalogController.UploadImage), admin)

	orders := r.Group("/orders", user)
	orders.Post("/", "orders.store", ctx.Wrap(orderController.Store))
	orders.Get("/", "orders.index", ctx.Wrap(orderController.Index))
	orders.Get("/{id}", "orders.show", ctx.Wrap(orderController.Show))
	orders.Put("/{id}/items", "orders.items", ctx.Wrap(orderController.UpdateItems))

	payments := r.Group("/payments", user)
	payments.Post("/", "payments.store", ctx.Wrap(paymentController.Store))
	payments.Get("/", "payments.index", ctx.Wrap(paymentController.Index))
	payments.Put("/{id}/status", "payments.status", ctx.Wrap(paymentController.UpdateStatus))

	admins := r.Group("/admin")
	admins.Post("/login", "admin.login", ctx.Wrap(authController.AdminLogin))
	admins.Post("/create", "admin.create", ctx.Wrap(authController.AdminCreate), maybeAdmin)
	admins.Get("/me", "admin.me", ctx.Wrap(authController.AdminMe), admin)
	admins.Get("/users", "admin.users", ctx.Wrap(authController.AdminUsers), admin)

	schema, err := gql.NewSchema(s.Catalog)
	if err != nil {
		return err
	}
	r.Post("/graphql", "graphql", graphql.Handler(schema))
	r.Get("/graphql", "graphql.get", graphql.Handler(schema))

	return nil
}
