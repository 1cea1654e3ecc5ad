package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaymart-backend/models"
)

func TestGenerateTrackingNumber_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := GenerateTrackingNumber(func(string) (bool, error) { return false, nil })
		require.NoError(t, err)
		assert.Len(t, code, 11)
		assert.True(t, ValidTrackingNumber(code), "unexpected format: %s", code)
	}
}

func TestGenerateTrackingNumber_RerollsOnCollision(t *testing.T) {
	attempts := 0
	code, err := GenerateTrackingNumber(func(string) (bool, error) {
		attempts++
		// First two candidates are already taken
		return attempts <= 2, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.True(t, ValidTrackingNumber(code))
}

func TestGenerateTrackingNumber_GivesUpEventually(t *testing.T) {
	attempts := 0
	_, err := GenerateTrackingNumber(func(string) (bool, error) {
		attempts++
		return true, nil
	})

	assert.ErrorIs(t, err, ErrTrackingExhausted)
	assert.Equal(t, maxTrackingAttempts, attempts)
}

func TestGenerateTrackingNumber_PropagatesStoreError(t *testing.T) {
	storeErr := errors.New("connection lost")
	_, err := GenerateTrackingNumber(func(string) (bool, error) { return false, storeErr })
	assert.ErrorIs(t, err, storeErr)
}

func TestValidTrackingNumber(t *testing.T) {
	assert.True(t, ValidTrackingNumber("ZM123456789"))
	assert.True(t, ValidTrackingNumber("ZM000000000"))

	assert.False(t, ValidTrackingNumber("ZM12345678"))   // too short
	assert.False(t, ValidTrackingNumber("ZM1234567890")) // too long
	assert.False(t, ValidTrackingNumber("XY123456789"))  // wrong prefix
	assert.False(t, ValidTrackingNumber("ZM12345678a"))  // non-digit
	assert.False(t, ValidTrackingNumber(""))
}

func TestActorMayManageOrder_Admin(t *testing.T) {
	order := &models.Order{User: primitive.NewObjectID()}
	assert.True(t, ActorMayManageOrder(order, primitive.NewObjectID(), models.RoleAdmin, nil))
}

func TestActorMayManageOrder_Customer(t *testing.T) {
	owner := primitive.NewObjectID()
	order := &models.Order{User: owner}

	assert.True(t, ActorMayManageOrder(order, owner, models.RoleCustomer, nil))
	assert.False(t, ActorMayManageOrder(order, primitive.NewObjectID(), models.RoleCustomer, nil))
}

func TestActorMayManageOrder_Seller(t *testing.T) {
	mine := primitive.NewObjectID()
	other := primitive.NewObjectID()
	order := &models.Order{
		User: primitive.NewObjectID(),
		Items: []models.OrderItem{
			{Product: other, Quantity: 1, Price: 10},
			{Product: mine, Quantity: 2, Price: 25},
		},
	}

	sellerID := primitive.NewObjectID()
	assert.True(t, ActorMayManageOrder(order, sellerID, models.RoleSeller, map[primitive.ObjectID]bool{mine: true}))

	// A seller with no product in the order is denied, even if they own
	// products elsewhere.
	unrelated := primitive.NewObjectID()
	assert.False(t, ActorMayManageOrder(order, sellerID, models.RoleSeller, map[primitive.ObjectID]bool{unrelated: true}))
	assert.False(t, ActorMayManageOrder(order, sellerID, models.RoleSeller, nil))
}

func TestNewGuestOrder(t *testing.T) {
	guestID := primitive.NewObjectID()
	now := time.Now()

	tracking, err := GenerateTrackingNumber(func(string) (bool, error) { return false, nil })
	require.NoError(t, err)

	order := NewGuestOrder(models.Order{
		Items: []models.OrderItem{{Product: primitive.NewObjectID(), Quantity: 1, Price: 49.99}},
		Total: 49.99,
	}, guestID, tracking, now)

	assert.Equal(t, models.StatusPaid, order.Status)
	assert.Equal(t, tracking, order.InternalTrackingNumber)
	assert.Len(t, order.InternalTrackingNumber, 11)
	assert.True(t, strings.HasPrefix(order.InternalTrackingNumber, "ZM"))
	assert.Equal(t, guestID, order.User)
	assert.Equal(t, 49.99, order.Total)
	assert.False(t, order.ID.IsZero())
	assert.Equal(t, now, order.CreatedAt)
	assert.Equal(t, now, order.UpdatedAt)
}

func TestNewGuestOrder_OverridesCallerFields(t *testing.T) {
	// A guest checkout cannot smuggle in a status, tracking data or a
	// payment intent of its own.
	order := NewGuestOrder(models.Order{
		Status:                 models.StatusDelivered,
		TrackingNumber:         "COURIER-1",
		InternalTrackingNumber: "ZM999999999",
		DeliveryPartner:        "ACME Express",
		PaymentIntentID:        "pi_123",
	}, primitive.NewObjectID(), "ZM123456789", time.Now())

	assert.Equal(t, models.StatusPaid, order.Status)
	assert.Equal(t, "ZM123456789", order.InternalTrackingNumber)
	assert.Empty(t, order.TrackingNumber)
	assert.Empty(t, order.DeliveryPartner)
	assert.Empty(t, order.PaymentIntentID)
}

func TestStaleHandoffCutoff(t *testing.T) {
	now := time.Now()
	cutoff := StaleHandoffCutoff(now)

	assert.Equal(t, now.Add(-72*time.Hour), cutoff)

	// An order handed off 4 days ago is stale; one handed off 2 days ago is
	// not.
	fourDaysAgo := now.Add(-4 * 24 * time.Hour)
	twoDaysAgo := now.Add(-2 * 24 * time.Hour)
	assert.True(t, fourDaysAgo.Before(cutoff))
	assert.False(t, twoDaysAgo.Before(cutoff))
}
