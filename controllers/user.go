package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zaymart-backend/middleware"
	"zaymart-backend/models"
	"zaymart-backend/services"
	"zaymart-backend/utils"
)

// UserController handles registration, login, guest accounts, profiles and
// the OTP password-reset flow.
type UserController struct {
	Users *mongo.Collection
	Auth  *services.AuthService
}

// NewUserController creates a new UserController.
func NewUserController(client *mongo.Client, auth *services.AuthService) *UserController {
	return &UserController{
		Users: client.Database(utils.DatabaseName).Collection("users"),
		Auth:  auth,
	}
}

type registerRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"`
}

// Register handles user registration
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Invalid role")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	email := strings.ToLower(strings.TrimSpace(req.Email))
	count, err := uc.Users.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	if count > 0 {
		writeError(w, http.StatusBadRequest, "User already exists")
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error hashing password")
		return
	}

	now := time.Now()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       req.Name,
		Email:      email,
		Password:   hashed,
		Role:       req.Role,
		IsApproved: models.AutoApproved(req.Role),
		Favorites:  []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := uc.Users.InsertOne(ctx, user); err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating user")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

// Login handles user authentication
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err := uc.Users.FindOne(ctx, bson.M{"email": strings.ToLower(strings.TrimSpace(creds.Email))}).Decode(&user)
	if err != nil || !utils.CheckPasswordHash(creds.Password, user.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if user.IsBanned {
		writeError(w, http.StatusForbidden, "Account is banned")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "token": token})
}

type guestInfo struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
}

// CreateGuestAccount resolves a guest checkout to a passwordless account and
// returns a token for it.
func (uc *UserController) CreateGuestAccount(w http.ResponseWriter, r *http.Request) {
	var req struct {
		GuestInfo guestInfo `json:"guestInfo" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Guest information is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	user, err := uc.Auth.FindOrCreateGuest(ctx, req.GuestInfo.FullName, req.GuestInfo.Email, req.GuestInfo.Phone)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error creating guest account")
		return
	}

	token, err := utils.GenerateJWT(user.ID.Hex(), user.Email, user.Role)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Error generating token")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{"user": user, "token": token})
}

// GetProfile retrieves the authenticated user's profile
func (uc *UserController) GetProfile(w http.ResponseWriter, r *http.Request) {
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

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	if err := uc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}

// UpdateProfile updates the authenticated user's contact fields.
func (uc *UserController) UpdateProfile(w http.ResponseWriter, r *http.Request) {
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
		Name    string `json:"name"`
		Address string `json:"address"`
		City    string `json:"city"`
		Country string `json:"country"`
		Phone   string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}

	set := bson.M{"updated_at": time.Now()}
	if req.Name != "" {
		set["name"] = req.Name
	}
	if req.Address != "" {
		set["address"] = req.Address
	}
	if req.City != "" {
		set["city"] = req.City
	}
	if req.Country != "" {
		set["country"] = req.Country
	}
	if req.Phone != "" {
		set["phone"] = req.Phone
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	var user models.User
	err = uc.Users.FindOneAndUpdate(ctx, bson.M{"_id": userID}, bson.M{"$set": set},
		optionsReturnAfter()).Decode(&user)
	if err != nil {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"user": user, "message": "Profile updated successfully"})
}

// ForgotPassword starts the OTP password-reset flow. The response is the same
// whether or not the account exists.
func (uc *UserController) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	message, err := uc.Auth.RequestPasswordReset(ctx, req.Email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

// VerifyOTP checks a reset code. A code verifies at most once.
func (uc *UserController) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email" validate:"required,email"`
		OTP   string `json:"otp" validate:"required,len=6,numeric"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email and OTP are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := uc.Auth.VerifyOTP(ctx, req.Email, req.OTP); err != nil {
		if err == services.ErrInvalidOTP {
			writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
			return
		}
		writeError(w, http.StatusInternalServerError, "Database error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "OTP verified successfully"})
}

// ResetPassword completes the reset flow with a verified code.
func (uc *UserController) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email       string `json:"email" validate:"required,email"`
		OTP         string `json:"otp" validate:"required,len=6,numeric"`
		NewPassword string `json:"newPassword" validate:"required,min=6"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid input")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, "Email, OTP, and new password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if err := uc.Auth.ResetPassword(ctx, req.Email, req.OTP, req.NewPassword); err != nil {
		switch err {
		case services.ErrInvalidOTP:
			writeError(w, http.StatusBadRequest, "Invalid or expired OTP")
		case services.ErrPasswordTooShort:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "Database error")
		}
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Password reset successfully"})
}
