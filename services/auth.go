// services/auth.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"zaymart-backend/models"
	"zaymart-backend/utils"
)

// GenericResetMessage is returned on every password-reset request, whether or
// not the account exists, so the endpoint cannot be used to enumerate emails.
const GenericResetMessage = "If an account with that email exists, a password reset code has been sent."

var (
	ErrInvalidOTP       = errors.New("invalid or expired OTP")
	ErrPasswordTooShort = errors.New("password must be at least 6 characters long")
)

// AuthService handles guest account resolution and the OTP password-reset
// flow.
type AuthService struct {
	Users *mongo.Collection
	OTPs  *mongo.Collection
	Email *utils.EmailService
}

// NewAuthService creates an AuthService over the given database.
func NewAuthService(client *mongo.Client, email *utils.EmailService) *AuthService {
	db := client.Database(utils.DatabaseName)
	return &AuthService{
		Users: db.Collection("users"),
		OTPs:  db.Collection("otps"),
		Email: email,
	}
}

// FindOrCreateGuest resolves a guest checkout to an account: an existing user
// with the same email is reused (filling in name and phone only if they were
// empty), otherwise a passwordless, auto-approved customer is created.
func (s *AuthService) FindOrCreateGuest(ctx context.Context, fullName, email, phone string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err == nil {
		set := bson.M{}
		if user.Name == "" && fullName != "" {
			set["name"] = fullName
			user.Name = fullName
		}
		if user.Phone == "" && phone != "" {
			set["phone"] = phone
			user.Phone = phone
		}
		if len(set) > 0 {
			set["updated_at"] = time.Now()
			if _, err := s.Users.UpdateOne(ctx, bson.M{"_id": user.ID}, bson.M{"$set": set}); err != nil {
				return nil, err
			}
		}
		return &user, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	now := time.Now()
	user = models.User{
		ID:         primitive.NewObjectID(),
		Name:       fullName,
		Email:      email,
		Phone:      phone,
		Role:       models.RoleCustomer,
		IsApproved: true,
		Favorites:  []primitive.ObjectID{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.Users.InsertOne(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// RequestPasswordReset issues a fresh OTP for the email and sends it. The
// returned message is always GenericResetMessage; a missing account is not
// distinguishable from an existing one.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	err := s.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return GenericResetMessage, nil
		}
		return "", err
	}

	// Invalidate any outstanding unused codes before issuing a new one.
	_, err = s.OTPs.UpdateMany(ctx,
		bson.M{"email": email, "is_used": false},
		bson.M{"$set": bson.M{"is_used": true}},
	)
	if err != nil {
		return "", err
	}

	now := time.Now()
	otp := models.OTP{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Code:      GenerateOTPCode(),
		ExpiresAt: now.Add(models.OTPLifetime),
		CreatedAt: now,
	}
	if _, err := s.OTPs.InsertOne(ctx, otp); err != nil {
		return "", err
	}

	if err := s.Email.SendOTPEmail(email, otp.Code, user.Name); err != nil {
		// The generic message still goes out; a delivery failure must not
		// reveal that the account exists.
		utils.Logger.Errorw("failed to send OTP email", "error", err)
	}

	return GenericResetMessage, nil
}

// VerifyOTP consumes a reset code: it must match an unused, unexpired record
// for the email. Verifying the same code twice fails the second time.
func (s *AuthService) VerifyOTP(ctx context.Context, email, code string) error {
	email = strings.ToLower(strings.TrimSpace(email))

	result, err := s.OTPs.UpdateOne(ctx,
		bson.M{
			"email":      email,
			"code":       code,
			"is_used":    false,
			"expires_at": bson.M{"$gt": time.Now()},
		},
		bson.M{"$set": bson.M{"is_used": true}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrInvalidOTP
	}
	return nil
}

// ResetPassword re-verifies the code, updates the password hash and removes
// every OTP for the email. The code may already be marked used by the
// preceding VerifyOTP step, but it must not be expired.
func (s *AuthService) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	if len(newPassword) < 6 {
		return ErrPasswordTooShort
	}
	email = strings.ToLower(strings.TrimSpace(email))

	err := s.OTPs.FindOne(ctx, bson.M{
		"email":      email,
		"code":       code,
		"expires_at": bson.M{"$gt": time.Now()},
	}).Err()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOTP
		}
		return err
	}

	hashed, err := utils.HashPassword(newPassword)
	if err != nil {
		return err
	}

	result, err := s.Users.UpdateOne(ctx,
		bson.M{"email": email},
		bson.M{"$set": bson.M{"password": hashed, "updated_at": time.Now()}},
	)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrInvalidOTP
	}

	_, err = s.OTPs.DeleteMany(ctx, bson.M{"email": email})
	return err
}

// GenerateOTPCode produces a 6-digit reset code.
func GenerateOTPCode() string {
	return fmt.Sprintf("%06d", rand.Intn(900_000)+100_000)
}
