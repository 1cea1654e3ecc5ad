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

	"zaymart-backend/middleware"
	"zaymart-backend/models"
	"zaymart-backend/utils"
)

// FavoriteController manages the user's favorites list.
type FavoriteController struct {
	Users    *mongo.Collection
	Products *mongo.Collection
}

// NewFavoriteController creates a new FavoriteController.
func NewFavoriteController(client *mongo.Client) *FavoriteController {
	db := client.Database(utils.DatabaseName)
	return &FavoriteController{
		Users:    db.Collection("users"),
		Products: db.Collection("products"),
	}
}

func (fc *FavoriteController) userFromRequest(ctx context.Context, r *http.Request) (*models.User, bool) {
	claims, ok := middleware.ClaimsFrom(r)
	if !ok {
		return nil, false
	}
	userID, err := primitive.ObjectIDFromHex(claims.ID)
	if err != nil {
		return nil, false
	}
	var user models.User
	if err := fc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		return nil, false
	}
	return &user, true
}

// Get lists the user's favorite products, dropping deactivated listings.
func (fc *FavoriteController) Get(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := fc.userFromRequest(ctx, r)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	products := []models.Product{}
	if len(user.Favorites) > 0 {
		cursor, err := fc.Products.Find(ctx, bson.M{
			"_id":       bson.M{"$in": user.Favorites},
			"is_active": true,
		})
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Error fetching favorites")
			return
		}
		defer cursor.Close(ctx)
		if err := cursor.All(ctx, &products); err != nil {
			writeError(w, http.StatusInternalServerError, "Error reading favorites")
			return
		}
	}

	writeJSON(w, http.StatusOK, products)
}

// checkAddFavorite decides whether a product may be added to the favorites
// list. A second add of the same product is a 400, never a duplicate entry.
func checkAddFavorite(user *models.User, productID primitive.ObjectID) (int, string) {
	if user.HasFavorite(productID) {
		return http.StatusBadRequest, "Product already in favorites"
	}
	return http.StatusOK, ""
}

// Add puts a product on the favorites list. Adding a product that is already
// there is a 400, not a duplicate entry.
func (fc *FavoriteController) Add(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ProductID string `json:"productId" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Product ID is required")
		return
	}
	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	count, err := fc.Products.CountDocuments(ctx, bson.M{"_id": productID})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count == 0 {
		writeError(w, http.StatusNotFound, "Product not found")
		return
	}

	user, ok := fc.userFromRequest(ctx, r)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	if status, message := checkAddFavorite(user, productID); status != http.StatusOK {
		writeError(w, status, message)
		return
	}

	var updated models.User
	err = fc.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$addToSet": bson.M{"favorites": productID}},
		optionsReturnAfter(),
	).Decode(&updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating favorites")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Product added to favorites",
		"favorites": updated.Favorites,
	})
}

// Remove takes a product off the favorites list. Removing a product that is
// not there is a no-op.
func (fc *FavoriteController) Remove(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := fc.userFromRequest(ctx, r)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	var updated models.User
	err = fc.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": user.ID},
		bson.M{"$pull": bson.M{"favorites": productID}},
		optionsReturnAfter(),
	).Decode(&updated)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error updating favorites")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":   "Product removed from favorites",
		"favorites": updated.Favorites,
	})
}

// Check reports whether a product is on the user's favorites list.
func (fc *FavoriteController) Check(w http.ResponseWriter, r *http.Request) {
	productID, err := primitive.ObjectIDFromHex(mux.Vars(r)["productId"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	user, ok := fc.userFromRequest(ctx, r)
	if !ok {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"isFavorite": user.HasFavorite(productID)})
}
