package controllers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaymart-backend/models"
)

func TestCheckAddFavorite_NotPresent(t *testing.T) {
	productID := primitive.NewObjectID()
	user := &models.User{Favorites: []primitive.ObjectID{primitive.NewObjectID()}}

	status, message := checkAddFavorite(user, productID)

	assert.Equal(t, http.StatusOK, status)
	assert.Empty(t, message)
}

func TestCheckAddFavorite_SecondAddIsRejected(t *testing.T) {
	productID := primitive.NewObjectID()
	user := &models.User{Favorites: []primitive.ObjectID{}}

	// First add goes through
	status, _ := checkAddFavorite(user, productID)
	assert.Equal(t, http.StatusOK, status)
	user.Favorites = append(user.Favorites, productID)

	// Second add of the same product is a 400, not a duplicate entry
	status, message := checkAddFavorite(user, productID)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Product already in favorites", message)
}

func TestUserHasFavorite(t *testing.T) {
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	user := &models.User{Favorites: []primitive.ObjectID{mine}}

	assert.True(t, user.HasFavorite(mine))
	assert.False(t, user.HasFavorite(other))

	empty := &models.User{}
	assert.False(t, empty.HasFavorite(mine))
}

func TestAddFavorite_InvalidProductID(t *testing.T) {
	fc := &FavoriteController{}

	req := httptest.NewRequest(http.MethodPost, "/api/favorites",
		strings.NewReader(`{"productId":"not-an-object-id"}`))
	rec := httptest.NewRecorder()
	fc.Add(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid product ID")
}

func TestAddFavorite_MissingProductID(t *testing.T) {
	fc := &FavoriteController{}

	req := httptest.NewRequest(http.MethodPost, "/api/favorites", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	fc.Add(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product ID is required")
}
