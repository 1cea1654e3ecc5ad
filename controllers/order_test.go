package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"zaymart-backend/services"
)

func TestTrack_MissingTrackingNumber(t *testing.T) {
	oc := &OrderController{}

	rec := httptest.NewRecorder()
	oc.Track(rec, httptest.NewRequest(http.MethodGet, "/api/orders/track", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Tracking number is required")
}

func TestRenderOrderError_MasksDenialAsNotFound(t *testing.T) {
	oc := &OrderController{}

	for _, err := range []error{services.ErrOrderNotFound, services.ErrOrderAccessDenied} {
		rec := httptest.NewRecorder()
		oc.renderOrderError(rec, err)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.JSONEq(t, `{"message":"Order not found"}`, rec.Body.String())
	}
}

func TestRenderOrderError_InvalidTransition(t *testing.T) {
	oc := &OrderController{}

	for _, err := range []error{services.ErrInvalidStatus, services.ErrInvalidTransition} {
		rec := httptest.NewRecorder()
		oc.renderOrderError(rec, err)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	}
}

func TestRenderOrderError_StoreFault(t *testing.T) {
	oc := &OrderController{}

	rec := httptest.NewRecorder()
	oc.renderOrderError(rec, errors.New("connection reset"))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestCreateOrderRequest_ToOrder(t *testing.T) {
	productID := primitive.NewObjectID()
	req := createOrderRequest{
		Items: []orderItemRequest{{Product: productID.Hex(), Quantity: 2, Price: 24.995}},
		Total: 49.99,
	}

	order, err := req.toOrder()
	require.NoError(t, err)
	require.Len(t, order.Items, 1)
	assert.Equal(t, productID, order.Items[0].Product)
	assert.Equal(t, 2, order.Items[0].Quantity)
	assert.Equal(t, 49.99, order.Total)
}

func TestCreateOrderRequest_ToOrder_BadProductID(t *testing.T) {
	req := createOrderRequest{
		Items: []orderItemRequest{{Product: "not-an-object-id", Quantity: 1, Price: 5}},
	}

	_, err := req.toOrder()
	assert.Error(t, err)
}

func TestCreateOrderRequestValidation(t *testing.T) {
	// Empty items must be rejected before reaching the service.
	req := createOrderRequest{Total: 10}
	assert.Error(t, validate.Struct(req))

	req.Items = []orderItemRequest{{Product: primitive.NewObjectID().Hex(), Quantity: 0, Price: 5}}
	assert.Error(t, validate.Struct(req), "zero quantity should fail validation")

	req.Items[0].Quantity = 1
	assert.NoError(t, validate.Struct(req))
}
