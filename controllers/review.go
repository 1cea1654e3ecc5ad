package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaymart-backend/middleware"
	"zaymart-backend/models"
	"zaymart-backend/utils"
)

// ReviewController handles product reviews.
type ReviewController struct {
	Reviews  *mongo.Collection
	Products *mongo.Collection
}

// NewReviewController creates a new ReviewController.
func NewReviewController(client *mongo.Client) *ReviewController {
	db := client.Database(utils.DatabaseName)
	return &ReviewController{
		Reviews:  db.Collection("reviews"),
		Products: db.Collection("products"),
	}
}

// Create adds a review. One review per user and product; the unique compound
// index backs the application-level check.
func (rc *ReviewController) Create(w http.ResponseWriter, r *http.Request) {
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
		ProductID string `json:"productId" validate:"required"`
		Rating    int    `json:"rating" validate:"required,min=1,max=5"`
		Comment   string `json:"comment"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := rc.Products.CountDocuments(ctx, bson.M{"_id": productID, "is_active": true})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	existing, err := rc.Reviews.CountDocuments(ctx, bson.M{"user": userID, "product": productID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if existing > 0 {
		writeError(w, http.StatusBadRequest, "You have already reviewed this product")
		return
	}

	review := models.Review{
		ID:        primitive.NewObjectID(),
		Product:   productID,
		User:      userID,
		Rating:    req.Rating,
		Comment:   req.Comment,
		CreatedAt: time.Now(),
	}
	if _, err := rc.Reviews.InsertOne(ctx, review); err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating review")
		return
	}

	writeJSON(w, http.StatusCreated, review)
}

// ListForProduct returns the reviews for one product, newest first.
func (rc *ReviewController) ListForProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := rc.Reviews.Find(ctx, bson.M{"product": productID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching reviews")
		return
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading reviews")
		return
	}

	writeJSON(w, http.StatusOK, reviews)
}
