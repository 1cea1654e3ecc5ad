// main.go
package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/stripe/stripe-go/v76"

	"zaymart-backend/controllers"
	"zaymart-backend/middleware"
	"zaymart-backend/routes"
	"zaymart-backend/services"
	"zaymart-backend/utils"
)

func main() {
	// Load environment variables from .env file. Missing file is fine:
	// production environments inject real env vars.
	_ = godotenv.Load()

	if err := utils.InitLogger(os.Getenv("APP_ENV") == "development"); err != nil {
		panic(err)
	}
	log := utils.Logger

	// Secrets for the external collaborators
	utils.JwtKey = []byte(os.Getenv("JWT_SECRET"))
	stripe.Key = os.Getenv("STRIPE_SECRET_KEY")

	emailService := utils.NewEmailService()
	uploader := utils.NewUploader()

	// Connect to MongoDB
	client := utils.ConnectDB()
	defer func() {
		if err := client.Disconnect(context.TODO()); err != nil {
			log.Errorw("failed to disconnect from mongodb", "error", err)
		}
	}()

	if err := utils.EnsureIndexes(client); err != nil {
		log.Fatalw("failed to create indexes", "error", err)
	}

	// Services and controllers
	authService := services.NewAuthService(client, emailService)
	orderService := services.NewOrderService(client)

	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(log))
	routes.RegisterRoutes(router, routes.Controllers{
		User:     controllers.NewUserController(client, authService),
		Product:  controllers.NewProductController(client, uploader),
		Order:    controllers.NewOrderController(orderService, authService, emailService),
		Favorite: controllers.NewFavoriteController(client),
		Review:   controllers.NewReviewController(client),
		Category: controllers.NewCategoryController(client),
		Admin:    controllers.NewAdminController(client),
		Payment:  controllers.NewPaymentController(client),
	})

	// Daily sweep: orders stuck at "handed to delivery partner" for more than
	// 3 days get promoted to completed.
	scheduler := cron.New()
	_, err := scheduler.AddFunc("0 0 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		promoted, err := orderService.SweepStaleHandoffs(ctx, time.Now())
		if err != nil {
			log.Errorw("stale handoff sweep failed", "error", err)
			return
		}
		log.Infow("stale handoff sweep finished", "promoted", promoted)
	})
	if err != nil {
		log.Fatalw("failed to schedule sweep", "error", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Start the server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	log.Infow("server starting", "port", port)
	if err := http.ListenAndServe(":"+port, router); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
