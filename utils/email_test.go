package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaymart-backend/models"
)

func TestOTPEmailBody(t *testing.T) {
	body := OTPEmailBody("Alice", "482913")

	assert.Contains(t, body, "482913")
	assert.Contains(t, body, "Alice")
	assert.Contains(t, body, "10 minutes")
}

func TestOrderConfirmationBody(t *testing.T) {
	order := models.Order{
		ID:                     primitive.NewObjectID(),
		Total:                  49.99,
		Status:                 models.StatusPaid,
		InternalTrackingNumber: "ZM123456789",
	}

	body := OrderConfirmationBody("Bob", order)

	assert.Contains(t, body, "Bob")
	assert.Contains(t, body, "$49.99")
	assert.Contains(t, body, order.ID.Hex())
	assert.Contains(t, body, "ZM123456789")
}

func TestOrderConfirmationBody_NoTracking(t *testing.T) {
	order := models.Order{
		ID:     primitive.NewObjectID(),
		Total:  10,
		Status: models.StatusPending,
	}

	body := OrderConfirmationBody("Bob", order)
	assert.NotContains(t, body, "track your order")
}
