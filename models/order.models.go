package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. An order only ever moves forward through these.
const (
	StatusPending   = "pending"
	StatusPaid      = "paid"
	StatusPreparing = "preparing"
	StatusHanded    = "handed to delivery partner"
	StatusShipped   = "shipped"
	StatusDelivered = "delivered"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// statusRank orders the forward progression. Cancelled sits outside the rank
// chain and is handled separately.
var statusRank = map[string]int{
	StatusPending:   0,
	StatusPaid:      1,
	StatusPreparing: 2,
	StatusHanded:    3,
	StatusShipped:   4,
	StatusDelivered: 5,
	StatusCompleted: 6,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	if s == StatusCancelled {
		return true
	}
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether an order at status from may move to status to.
// Transitions are forward-only; cancellation is only allowed before the order
// has been handed to a delivery partner.
func CanTransition(from, to string) bool {
	if from == StatusCancelled || from == to {
		return false
	}
	if to == StatusCancelled {
		return statusRank[from] < statusRank[StatusHanded]
	}
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

// OrderItem is a line in an order with the price snapshotted at purchase time.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// ShippingAddress is the destination recorded on the order.
type ShippingAddress struct {
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zip_code" json:"zipCode"`
	Country string `bson:"country" json:"country"`
}

// Order represents a placed order. TrackingNumber is whatever the seller's
// courier issued and is not unique; InternalTrackingNumber is generated by us
// (ZM + 9 digits) and carries a unique sparse index.
type Order struct {
	ID                     primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	User                   primitive.ObjectID `bson:"user" json:"user"`
	Items                  []OrderItem        `bson:"items" json:"items"`
	ShippingAddress        ShippingAddress    `bson:"shipping_address" json:"shippingAddress"`
	Total                  float64            `bson:"total" json:"total"`
	Status                 string             `bson:"status" json:"status"`
	PaymentIntentID        string             `bson:"payment_intent_id,omitempty" json:"paymentIntentId,omitempty"`
	TrackingNumber         string             `bson:"tracking_number,omitempty" json:"trackingNumber,omitempty"`
	InternalTrackingNumber string             `bson:"internal_tracking_number,omitempty" json:"internalTrackingNumber,omitempty"`
	DeliveryPartner        string             `bson:"delivery_partner,omitempty" json:"deliveryPartner,omitempty"`
	CreatedAt              time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt              time.Time          `bson:"updated_at" json:"updatedAt"`
}
