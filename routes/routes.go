// routes/routes.go
package routes

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"zaymart-backend/controllers"
	"zaymart-backend/middleware"
	"zaymart-backend/models"
)

// Controllers bundles everything RegisterRoutes wires up.
type Controllers struct {
	User     *controllers.UserController
	Product  *controllers.ProductController
	Order    *controllers.OrderController
	Favorite *controllers.FavoriteController
	Review   *controllers.ReviewController
	Category *controllers.CategoryController
	Admin    *controllers.AdminController
	Payment  *controllers.PaymentController
}

// RegisterRoutes sets up all the routes for the application
func RegisterRoutes(router *mux.Router, c Controllers) {
	api := router.PathPrefix("/api").Subrouter()

	// Health
	router.HandleFunc("/", healthHandler).Methods("GET")
	api.HandleFunc("/health", healthHandler).Methods("GET")

	// Auth (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/register", c.User.Register).Methods("POST")
	auth.HandleFunc("/login", c.User.Login).Methods("POST")
	auth.HandleFunc("/guest", c.User.CreateGuestAccount).Methods("POST")
	auth.HandleFunc("/forgot-password", c.User.ForgotPassword).Methods("POST")
	auth.HandleFunc("/verify-otp", c.User.VerifyOTP).Methods("POST")
	auth.HandleFunc("/reset-password", c.User.ResetPassword).Methods("POST")

	// Auth (protected)
	profile := api.PathPrefix("/auth").Subrouter()
	profile.Use(middleware.AuthMiddleware)
	profile.HandleFunc("/profile", c.User.GetProfile).Methods("GET")
	profile.HandleFunc("/profile", c.User.UpdateProfile).Methods("PUT")

	// Products (public reads)
	api.HandleFunc("/products", c.Product.List).Methods("GET")
	api.HandleFunc("/products/{id}", c.Product.GetByID).Methods("GET")

	// Products (seller/admin writes)
	productWrite := api.PathPrefix("/products").Subrouter()
	productWrite.Use(middleware.AuthMiddleware)
	productWrite.Use(middleware.RequireRole(models.RoleSeller, models.RoleAdmin))
	productWrite.HandleFunc("", c.Product.Create).Methods("POST")
	productWrite.HandleFunc("/{id}", c.Product.Update).Methods("PUT")
	productWrite.HandleFunc("/{id}", c.Product.Delete).Methods("DELETE")

	// Orders (public: guest checkout and tracking)
	api.HandleFunc("/orders/guest", c.Order.CreateGuest).Methods("POST")
	api.HandleFunc("/orders/track", c.Order.Track).Methods("GET")

	// Orders (seller)
	sellerOrders := api.PathPrefix("/orders/seller").Subrouter()
	sellerOrders.Use(middleware.AuthMiddleware)
	sellerOrders.Use(middleware.RequireRole(models.RoleSeller))
	sellerOrders.HandleFunc("/orders", c.Order.SellerOrders).Methods("GET")
	sellerOrders.HandleFunc("/orders/{id}/status", c.Order.UpdateStatus).Methods("PUT")

	// Orders (authenticated)
	orders := api.PathPrefix("/orders").Subrouter()
	orders.Use(middleware.AuthMiddleware)
	orders.HandleFunc("", c.Order.Create).Methods("POST")
	orders.HandleFunc("", c.Order.List).Methods("GET")
	orders.HandleFunc("/{id}", c.Order.GetByID).Methods("GET")
	orders.HandleFunc("/{id}/status", c.Order.UpdateStatus).Methods("PUT")

	// Seller's own catalog
	seller := api.PathPrefix("/seller").Subrouter()
	seller.Use(middleware.AuthMiddleware)
	seller.Use(middleware.RequireRole(models.RoleSeller))
	seller.HandleFunc("/products", c.Product.SellerProducts).Methods("GET")

	// Favorites (all authenticated)
	favorites := api.PathPrefix("/favorites").Subrouter()
	favorites.Use(middleware.AuthMiddleware)
	favorites.HandleFunc("", c.Favorite.Get).Methods("GET")
	favorites.HandleFunc("", c.Favorite.Add).Methods("POST")
	favorites.HandleFunc("/{productId}", c.Favorite.Remove).Methods("DELETE")
	favorites.HandleFunc("/check/{productId}", c.Favorite.Check).Methods("GET")

	// Reviews
	api.HandleFunc("/reviews/product/{productId}", c.Review.ListForProduct).Methods("GET")
	reviews := api.PathPrefix("/reviews").Subrouter()
	reviews.Use(middleware.AuthMiddleware)
	reviews.HandleFunc("", c.Review.Create).Methods("POST")

	// Categories
	api.HandleFunc("/categories", c.Category.List).Methods("GET")
	categoryWrite := api.PathPrefix("/categories").Subrouter()
	categoryWrite.Use(middleware.AuthMiddleware)
	categoryWrite.Use(middleware.RequireRole(models.RoleAdmin))
	categoryWrite.HandleFunc("", c.Category.Create).Methods("POST")

	// Admin
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(middleware.AuthMiddleware)
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	admin.HandleFunc("/users", c.Admin.ListUsers).Methods("GET")
	admin.HandleFunc("/users/{id}/approve", c.Admin.ApproveSeller).Methods("PUT")
	admin.HandleFunc("/users/{id}/ban", c.Admin.BanUser).Methods("PUT")
	admin.HandleFunc("/users/{id}/unban", c.Admin.UnbanUser).Methods("PUT")

	// Payments
	api.Handle("/create-payment-intent",
		middleware.AuthMiddleware(http.HandlerFunc(c.Payment.CreatePaymentIntent))).Methods("POST")
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"message":"Server is running","timestamp":"` + time.Now().UTC().Format(time.RFC3339) + `"}`))
}
