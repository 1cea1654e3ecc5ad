// services/order.go
package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"zaymart-backend/models"
	"zaymart-backend/utils"
)

// Orders stuck at "handed to delivery partner" longer than this get promoted
// to completed by the daily sweep.
const HandoffAutoCompleteAfter = 72 * time.Hour

// maxTrackingAttempts bounds the rejection-sampling loop. The unique sparse
// index on internal_tracking_number is the real uniqueness guarantee; the
// loop only keeps insert failures rare.
const maxTrackingAttempts = 10

var trackingNumberPattern = regexp.MustCompile(`^ZM\d{9}$`)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderAccessDenied = errors.New("order access denied")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrTrackingExhausted = errors.New("could not generate a unique tracking number")
)

// OrderService owns the order lifecycle: creation, role-scoped reads, status
// transitions, tracking-number issuance and the stale-handoff sweep.
type OrderService struct {
	Orders   *mongo.Collection
	Products *mongo.Collection
	Users    *mongo.Collection
}

// NewOrderService creates an OrderService over the given database.
func NewOrderService(client *mongo.Client) *OrderService {
	db := client.Database(utils.DatabaseName)
	return &OrderService{
		Orders:   db.Collection("orders"),
		Products: db.Collection("products"),
		Users:    db.Collection("users"),
	}
}

// CreateOrder persists a new order for the given user. The caller may start
// the order at pending or paid; there is no inventory check.
func (s *OrderService) CreateOrder(ctx context.Context, order models.Order, userID primitive.ObjectID) (*models.Order, error) {
	if order.Status == "" {
		order.Status = models.StatusPending
	}
	if order.Status != models.StatusPending && order.Status != models.StatusPaid {
		return nil, ErrInvalidStatus
	}

	now := time.Now()
	order.ID = primitive.NewObjectID()
	order.User = userID
	order.CreatedAt = now
	order.UpdatedAt = now

	if _, err := s.Orders.InsertOne(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateGuestOrder persists an order for a guest user. The order starts at
// paid and gets an internal tracking number immediately, so the guest can
// track it without an account.
func (s *OrderService) CreateGuestOrder(ctx context.Context, order models.Order, guest *models.User) (*models.Order, error) {
	tracking, err := s.newTrackingNumber(ctx)
	if err != nil {
		return nil, err
	}

	order = NewGuestOrder(order, guest.ID, tracking, time.Now())
	if _, err := s.Orders.InsertOne(ctx, order); err != nil {
		return nil, err
	}
	return &order, nil
}

// NewGuestOrder shapes an order for a guest checkout: owned by the guest,
// forced to paid with the generated internal tracking number, and with any
// caller-supplied courier or payment fields cleared.
func NewGuestOrder(order models.Order, guestID primitive.ObjectID, tracking string, now time.Time) models.Order {
	order.ID = primitive.NewObjectID()
	order.User = guestID
	order.Status = models.StatusPaid
	order.InternalTrackingNumber = tracking
	order.TrackingNumber = ""
	order.DeliveryPartner = ""
	order.PaymentIntentID = ""
	order.CreatedAt = now
	order.UpdatedAt = now
	return order
}

// GetOrdersFor lists orders visible to the actor: admins see everything,
// everyone else only their own. Newest first.
func (s *OrderService) GetOrdersFor(ctx context.Context, actorID primitive.ObjectID, role string) ([]models.Order, error) {
	filter := bson.M{}
	if role != models.RoleAdmin {
		filter["user"] = actorID
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.Orders.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetSellerOrders lists orders containing at least one of the seller's
// products.
func (s *OrderService) GetSellerOrders(ctx context.Context, sellerID primitive.ObjectID) ([]models.Order, error) {
	productIDs, err := s.sellerProductIDs(ctx, sellerID)
	if err != nil {
		return nil, err
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.Orders.Find(ctx, bson.M{"items.product": bson.M{"$in": productIDs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// GetOrderByID fetches a single order the actor is allowed to see. Returns
// ErrOrderNotFound or ErrOrderAccessDenied; the HTTP layer renders both as
// 404 so absence and denial are indistinguishable to the caller.
func (s *OrderService) GetOrderByID(ctx context.Context, orderID primitive.ObjectID, actorID primitive.ObjectID, role string) (*models.Order, error) {
	return s.orderForActor(ctx, orderID, actorID, role)
}

// UpdateStatusInput carries a status-transition request.
type UpdateStatusInput struct {
	Status          string
	TrackingNumber  string
	DeliveryPartner string
}

// UpdateStatus transitions an order's status on behalf of an actor. The
// authorization predicate runs before anything is written: admins may touch
// any order, sellers only orders holding their products, customers only
// their own. On the transition to "handed to delivery partner" the order is
// given an internal tracking number (if it has none yet) and the courier
// tracking data is recorded; tracking data is retained on later transitions.
func (s *OrderService) UpdateStatus(ctx context.Context, orderID primitive.ObjectID, actorID primitive.ObjectID, role string, in UpdateStatusInput) (*models.Order, error) {
	if !models.ValidStatus(in.Status) {
		return nil, ErrInvalidStatus
	}

	order, err := s.orderForActor(ctx, orderID, actorID, role)
	if err != nil {
		return nil, err
	}

	if !models.CanTransition(order.Status, in.Status) {
		return nil, ErrInvalidTransition
	}

	set := bson.M{
		"status":     in.Status,
		"updated_at": time.Now(),
	}
	if in.Status == models.StatusHanded {
		if order.InternalTrackingNumber == "" {
			tracking, err := s.newTrackingNumber(ctx)
			if err != nil {
				return nil, err
			}
			set["internal_tracking_number"] = tracking
		}
		if in.TrackingNumber != "" {
			set["tracking_number"] = in.TrackingNumber
		}
		if in.DeliveryPartner != "" {
			set["delivery_partner"] = in.DeliveryPartner
		}
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Order
	err = s.Orders.FindOneAndUpdate(ctx, bson.M{"_id": order.ID}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &updated, nil
}

// GetByTrackingNumber is the public (unauthenticated) tracking lookup. Only
// the system-generated internal tracking number is searchable.
func (s *OrderService) GetByTrackingNumber(ctx context.Context, code string) (*models.Order, error) {
	var order models.Order
	err := s.Orders.FindOne(ctx, bson.M{"internal_tracking_number": code}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// SweepStaleHandoffs promotes orders stuck at "handed to delivery partner"
// for longer than HandoffAutoCompleteAfter to completed. Idempotent: a second
// run right after the first finds nothing to do.
func (s *OrderService) SweepStaleHandoffs(ctx context.Context, now time.Time) (int64, error) {
	filter := bson.M{
		"status":     models.StatusHanded,
		"updated_at": bson.M{"$lt": StaleHandoffCutoff(now)},
	}
	update := bson.M{"$set": bson.M{
		"status":     models.StatusCompleted,
		"updated_at": now,
	}}

	result, err := s.Orders.UpdateMany(ctx, filter, update)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// StaleHandoffCutoff returns the updated_at threshold below which a
// handed-off order counts as stale.
func StaleHandoffCutoff(now time.Time) time.Time {
	return now.Add(-HandoffAutoCompleteAfter)
}

// orderForActor loads an order and evaluates the authorization predicate,
// distinguishing a missing order from a denied one.
func (s *OrderService) orderForActor(ctx context.Context, orderID primitive.ObjectID, actorID primitive.ObjectID, role string) (*models.Order, error) {
	var order models.Order
	err := s.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}

	var sellerProducts map[primitive.ObjectID]bool
	if role == models.RoleSeller {
		ids, err := s.sellerProductIDs(ctx, actorID)
		if err != nil {
			return nil, err
		}
		sellerProducts = make(map[primitive.ObjectID]bool, len(ids))
		for _, id := range ids {
			sellerProducts[id] = true
		}
	}

	if !ActorMayManageOrder(&order, actorID, role, sellerProducts) {
		return nil, ErrOrderAccessDenied
	}
	return &order, nil
}

// ActorMayManageOrder is the authorization predicate for single-order access:
// admins may manage any order, customers their own, sellers only orders
// containing at least one of their products.
func ActorMayManageOrder(order *models.Order, actorID primitive.ObjectID, role string, sellerProducts map[primitive.ObjectID]bool) bool {
	switch role {
	case models.RoleAdmin:
		return true
	case models.RoleSeller:
		for _, item := range order.Items {
			if sellerProducts[item.Product] {
				return true
			}
		}
		return false
	default:
		return order.User == actorID
	}
}

func (s *OrderService) sellerProductIDs(ctx context.Context, sellerID primitive.ObjectID) ([]primitive.ObjectID, error) {
	raw, err := s.Products.Distinct(ctx, "_id", bson.M{"seller": sellerID})
	if err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, 0, len(raw))
	for _, v := range raw {
		if id, ok := v.(primitive.ObjectID); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// newTrackingNumber draws random candidates until one is unused.
func (s *OrderService) newTrackingNumber(ctx context.Context) (string, error) {
	return GenerateTrackingNumber(func(candidate string) (bool, error) {
		count, err := s.Orders.CountDocuments(ctx, bson.M{"internal_tracking_number": candidate})
		if err != nil {
			return false, err
		}
		return count > 0, nil
	})
}

// GenerateTrackingNumber produces a ZM+9-digit code, re-rolling on collision
// up to maxTrackingAttempts times. taken reports whether a candidate is
// already in use.
func GenerateTrackingNumber(taken func(string) (bool, error)) (string, error) {
	for i := 0; i < maxTrackingAttempts; i++ {
		candidate := randomTrackingNumber()
		inUse, err := taken(candidate)
		if err != nil {
			return "", err
		}
		if !inUse {
			return candidate, nil
		}
	}
	return "", ErrTrackingExhausted
}

func randomTrackingNumber() string {
	return fmt.Sprintf("ZM%09d", rand.Intn(1_000_000_000))
}

// ValidTrackingNumber reports whether code matches the ZM+9-digit format.
func ValidTrackingNumber(code string) bool {
	return trackingNumberPattern.MatchString(code)
}
