package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaymart-backend/models"
	"zaymart-backend/utils"
)

// AdminController handles the user directory: seller approval and bans.
// Every route is behind the admin role gate.
type AdminController struct {
	Users *mongo.Collection
}

// NewAdminController creates a new AdminController.
func NewAdminController(client *mongo.Client) *AdminController {
	return &AdminController{
		Users: client.Database(utils.DatabaseName).Collection("users"),
	}
}

// ListUsers returns the full user directory.
func (ac *AdminController) ListUsers(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	cursor, err := ac.Users.Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error fetching users")
		return
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		writeError(w, http.StatusInternalServerError, "Error reading users")
		return
	}

	writeJSON(w, http.StatusOK, users)
}

// ApproveSeller flips is_approved on a seller account.
func (ac *AdminController) ApproveSeller(w http.ResponseWriter, r *http.Request) {
	ac.setUserFlag(w, r, bson.M{"role": models.RoleSeller}, bson.M{"is_approved": true}, "Seller approved successfully")
}

// BanUser bans an account.
func (ac *AdminController) BanUser(w http.ResponseWriter, r *http.Request) {
	ac.setUserFlag(w, r, bson.M{}, bson.M{"is_banned": true}, "User banned successfully")
}

// UnbanUser lifts a ban.
func (ac *AdminController) UnbanUser(w http.ResponseWriter, r *http.Request) {
	ac.setUserFlag(w, r, bson.M{}, bson.M{"is_banned": false}, "User unbanned successfully")
}

func (ac *AdminController) setUserFlag(w http.ResponseWriter, r *http.Request, extraFilter, set bson.M, message string) {
	userID, err := primitive.ObjectIDFromHex(mux.Vars(r)["id"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid user ID")
		return
	}

	filter := bson.M{"_id": userID}
	for k, v := range extraFilter {
		filter[k] = v
	}
	set["updated_at"] = time.Now()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = ac.Users.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, optionsReturnAfter()).Decode(&user)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "message": message})
}
