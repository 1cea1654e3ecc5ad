package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleCustomer = "customer"
	RoleSeller   = "seller"
	RoleAdmin    = "admin"
)

// User represents an account in the directory. Guest users have no password
// and are auto-approved customers.
type User struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id,omitempty"`
	Name       string               `bson:"name" json:"name"`
	Email      string               `bson:"email" json:"email"`
	Password   string               `bson:"password,omitempty" json:"-"`
	Role       string               `bson:"role" json:"role"`
	IsApproved bool                 `bson:"is_approved" json:"isApproved"`
	IsBanned   bool                 `bson:"is_banned" json:"isBanned"`
	Address    string               `bson:"address" json:"address"`
	City       string               `bson:"city" json:"city"`
	Country    string               `bson:"country" json:"country"`
	Phone      string               `bson:"phone" json:"phone"`
	Favorites  []primitive.ObjectID `bson:"favorites" json:"favorites"`
	CreatedAt  time.Time            `bson:"created_at" json:"createdAt"`
	UpdatedAt  time.Time            `bson:"updated_at" json:"updatedAt"`
}

// HasFavorite reports whether the product is already on the user's
// favorites list.
func (u *User) HasFavorite(productID primitive.ObjectID) bool {
	for _, fav := range u.Favorites {
		if fav == productID {
			return true
		}
	}
	return false
}

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role string) bool {
	return role == RoleCustomer || role == RoleSeller || role == RoleAdmin
}

// AutoApproved reports whether accounts with the given role are approved on
// creation. Sellers wait for an admin.
func AutoApproved(role string) bool {
	return role == RoleCustomer || role == RoleAdmin
}
