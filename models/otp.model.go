package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OTPLifetime is how long a password-reset code stays valid.
const OTPLifetime = 10 * time.Minute

// OTP is a one-time password-reset code. The collection carries a TTL index on
// expires_at, so expired records disappear on their own.
type OTP struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Code      string             `bson:"code" json:"-"`
	ExpiresAt time.Time          `bson:"expires_at" json:"expiresAt"`
	IsUsed    bool               `bson:"is_used" json:"isUsed"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

// Usable reports whether the code can still be consumed at the given time.
func (o *OTP) Usable(now time.Time) bool {
	return !o.IsUsed && now.Before(o.ExpiresAt)
}
