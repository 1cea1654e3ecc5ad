package controllers

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zaymart-backend/middleware"
	"zaymart-backend/models"
	"zaymart-backend/utils"
)

// PaymentController creates Stripe payment intents for orders.
type PaymentController struct {
	Orders *mongo.Collection
}

// NewPaymentController creates a new PaymentController.
func NewPaymentController(client *mongo.Client) *PaymentController {
	return &PaymentController{
		Orders: client.Database(utils.DatabaseName).Collection("orders"),
	}
}

// CreatePaymentIntent creates a Stripe PaymentIntent for one of the caller's
// orders and records its id on the order.
func (pc *PaymentController) CreatePaymentIntent(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req struct {
		OrderID string `json:"orderId" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Order ID is required")
		return
	}
	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	filter := bson.M{"_id": orderID}
	if claims.Role != models.RoleAdmin {
		filter["user"] = userID
	}

	var order models.Order
	if err := pc.Orders.FindOne(ctx, filter).Decode(&order); err != nil {
		writeError(w, http.StatusNotFound, "Order not found")
		return
	}
	if order.Status != models.StatusPending {
		writeError(w, http.StatusBadRequest, "Order is not awaiting payment")
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Round(order.Total * 100))),
		Currency: stripe.String(string(stripe.CurrencyUSD)),
	}
	params.AddMetadata("order_id", order.ID.Hex())

	intent, err := paymentintent.New(params)
	if err != nil {
		utils.Logger.Errorw("failed to create payment intent", "error", err, "order", order.ID.Hex())
		writeError(w, http.StatusInternalServerError, "Failed to create payment intent")
		return
	}

	_, err = pc.Orders.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{
		"$set": bson.M{"payment_intent_id": intent.ID, "updated_at": time.Now()},
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to record payment intent")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"clientSecret":    intent.ClientSecret,
		"paymentIntentId": intent.ID,
	})
}
