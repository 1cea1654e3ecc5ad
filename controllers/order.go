// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaymart-backend/middleware"
	"zaymart-backend/models"
	"zaymart-backend/services"
	"zaymart-backend/utils"
)

// OrderController handles order-related requests. Lifecycle decisions live in
// the order service; this layer only decodes, validates and renders.
type OrderController struct {
	Service *services.OrderService
	Auth    *services.AuthService
	Email   *utils.EmailService
}

// NewOrderController creates a new OrderController.
func NewOrderController(service *services.OrderService, auth *services.AuthService, email *utils.EmailService) *OrderController {
	return &OrderController{Service: service, Auth: auth, Email: email}
}

type orderItemRequest struct {
	Product  string  `json:"product" validate:"required"`
	Quantity int     `json:"quantity" validate:"required,min=1"`
	Price    float64 `json:"price" validate:"min=0"`
}

type createOrderRequest struct {
	Items           []orderItemRequest     `json:"items" validate:"required,min=1,dive"`
	ShippingAddress models.ShippingAddress `json:"shippingAddress"`
	Total           float64                `json:"total" validate:"min=0"`
	Status          string                 `json:"status"`
}

func (req *createOrderRequest) toOrder() (models.Order, error) {
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.Product)
		if err != nil {
			return models.Order{}, errors.New("invalid product ID in items")
		}
		items = append(items, models.OrderItem{
			Product:  productID,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	return models.Order{
		Items:           items,
		ShippingAddress: req.ShippingAddress,
		Total:           req.Total,
		Status:          req.Status,
	}, nil
}

// Create places an order for the authenticated user.
func (oc *OrderController) Create(w http.ResponseWriter, r *http.Request) {
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

	var req createOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := req.toOrder()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	created, err := oc.Service.CreateOrder(ctx, order, userID)
	if err != nil {
		oc.renderOrderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// CreateGuest places an order for a guest, creating the backing passwordless
// account when needed. The response carries the internal tracking number.
func (oc *OrderController) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GuestInfo guestInfo `json:"guestInfo" validate:"required"`
		createOrderRequest
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req.GuestInfo); err != nil {
		writeError(w, http.StatusBadRequest, "Guest information is required")
		return
	}
	if err := validate.Struct(req.createOrderRequest); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	order, err := req.toOrder()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	guest, err := oc.Auth.FindOrCreateGuest(ctx, req.GuestInfo.FullName, req.GuestInfo.Email, req.GuestInfo.Phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating guest account")
		return
	}

	created, err := oc.Service.CreateGuestOrder(ctx, order, guest)
	if err != nil {
		oc.renderOrderError(w, err)
		return
	}

	go func(email, name string, order models.Order) {
		if err := oc.Email.SendOrderConfirmationEmail(email, name, order); err != nil {
			utils.Logger.Errorw("failed to send order confirmation", "error", err)
		}
	}(guest.Email, guest.Name, *created)

	writeJSON(w, http.StatusCreated, created)
}

// List returns the orders visible to the actor.
func (oc *OrderController) List(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Service.GetOrdersFor(ctx, userID, claims.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID returns a single order the actor may see.
func (oc *OrderController) GetByID(w http.ResponseWriter, r *http.Request) {
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

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.GetOrderByID(ctx, orderID, userID, claims.Role)
	if err != nil {
		oc.renderOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// SellerOrders lists orders containing the seller's products.
func (oc *OrderController) SellerOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	sellerID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	orders, err := oc.Service.GetSellerOrders(ctx, sellerID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to retrieve orders")
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// UpdateStatus transitions an order's status, recording tracking data on the
// handoff transition.
func (oc *OrderController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	actorID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	orderID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid order ID")
		return
	}

	var req struct {
		Status          string `json:"status" validate:"required"`
		TrackingNumber  string `json:"trackingNumber"`
		DeliveryPartner string `json:"deliveryPartner"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Status is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.UpdateStatus(ctx, orderID, actorID, claims.Role, services.UpdateStatusInput{
		Status:          req.Status,
		TrackingNumber:  req.TrackingNumber,
		DeliveryPartner: req.DeliveryPartner,
	})
	if err != nil {
		oc.renderOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Track is the public tracking lookup by internal tracking number.
func (oc *OrderController) Track(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("trackingNumber")
	if code == "" {
		writeError(w, http.StatusBadRequest, "Tracking number is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	order, err := oc.Service.GetByTrackingNumber(ctx, code)
	if err != nil {
		oc.renderOrderError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// renderOrderError maps service errors onto the HTTP taxonomy. Denial renders
// as 404 so callers cannot tell it apart from absence.
func (oc *OrderController) renderOrderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, services.ErrOrderNotFound), errors.Is(err, services.ErrOrderAccessDenied):
		writeError(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, services.ErrInvalidStatus), errors.Is(err, services.ErrInvalidTransition):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Database error")
	}
}
