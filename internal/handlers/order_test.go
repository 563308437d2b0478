package handlers

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

func duplicateKeyError() error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{
			{Code: 11000, Message: "E11000 duplicate key error"},
		},
	}
}

func testOrder(productID, userID primitive.ObjectID) models.Order {
	return models.Order{
		UserID: userID,
		Items:  []models.OrderItem{{ProductID: productID, Quantity: 2, Price: 999}},
		ShippingAddress: models.ShippingAddress{
			Type: "home", Street: "1 Main St", City: "Pune", State: "MH", ZipCode: "411001",
		},
	}
}

func testOrderWriter(product models.Product) orderWriter {
	return orderWriter{
		findProduct: func(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
			return product, nil
		},
		insertOrder: func(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
			return primitive.NewObjectID(), nil
		},
		insertTracking: func(ctx context.Context, tracking models.OrderTracking) (primitive.ObjectID, error) {
			return primitive.NewObjectID(), nil
		},
	}
}

func TestSubmitOrderSnapshotsCatalogPrices(t *testing.T) {
	productID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	order := testOrder(productID, userID)

	w := testOrderWriter(models.Product{ID: productID, Name: "Margherita", BasePrice: 250, IsAvailable: true})

	tracking, err := submitOrder(context.Background(), w, &order, userID)
	if err != nil {
		t.Fatalf("submitOrder returned error: %v", err)
	}
	if order.Items[0].Name != "Margherita" {
		t.Errorf("line name = %q, want catalog name", order.Items[0].Name)
	}
	if order.Items[0].Price != 250 {
		t.Errorf("line price = %v, want catalog base price 250", order.Items[0].Price)
	}
	if order.ID.IsZero() {
		t.Error("order ID not set from insert")
	}
	if tracking.OrderID != order.ID {
		t.Errorf("tracking.OrderID = %v, want %v", tracking.OrderID, order.ID)
	}
	if tracking.UserID != userID {
		t.Errorf("tracking.UserID = %v, want %v", tracking.UserID, userID)
	}
}

func TestSubmitOrderRejectsUnknownProduct(t *testing.T) {
	productID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	order := testOrder(productID, userID)

	w := testOrderWriter(models.Product{})
	w.findProduct = func(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
		return models.Product{}, mongo.ErrNoDocuments
	}

	_, err := submitOrder(context.Background(), w, &order, userID)
	var notFound productNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected productNotFoundError, got %v", err)
	}
	if notFound.ProductID != productID {
		t.Errorf("error carries product %v, want %v", notFound.ProductID, productID)
	}
}

func TestSubmitOrderRejectsUnavailableProduct(t *testing.T) {
	productID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	order := testOrder(productID, userID)

	w := testOrderWriter(models.Product{ID: productID, Name: "Margherita", BasePrice: 250, IsAvailable: false})

	_, err := submitOrder(context.Background(), w, &order, userID)
	var unavailable productUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected productUnavailableError, got %v", err)
	}
}

// A failed tracking insert must surface as a submission error so the
// transaction aborts; the order insert that preceded it is rolled back
// rather than left behind without tracking.
func TestSubmitOrderFailsWhenTrackingInsertFails(t *testing.T) {
	productID := primitive.NewObjectID()
	userID := primitive.NewObjectID()
	order := testOrder(productID, userID)

	trackingErr := errors.New("tracking insert refused")
	orderInserted := false
	w := testOrderWriter(models.Product{ID: productID, Name: "Margherita", BasePrice: 250, IsAvailable: true})
	w.insertOrder = func(ctx context.Context, o models.Order) (primitive.ObjectID, error) {
		orderInserted = true
		return primitive.NewObjectID(), nil
	}
	w.insertTracking = func(ctx context.Context, tracking models.OrderTracking) (primitive.ObjectID, error) {
		return primitive.NilObjectID, trackingErr
	}

	_, err := submitOrder(context.Background(), w, &order, userID)
	if !errors.Is(err, trackingErr) {
		t.Fatalf("expected tracking insert error to propagate, got %v", err)
	}
	if !orderInserted {
		t.Error("order insert should have run before the tracking failure")
	}
}

func TestSubmitOrderGeneratesFreshTrackingPerAttempt(t *testing.T) {
	productID := primitive.NewObjectID()
	userID := primitive.NewObjectID()

	w := testOrderWriter(models.Product{ID: productID, Name: "Margherita", BasePrice: 250, IsAvailable: true})
	var numbers []string
	w.insertTracking = func(ctx context.Context, tracking models.OrderTracking) (primitive.ObjectID, error) {
		numbers = append(numbers, tracking.TrackingNumber)
		return primitive.NewObjectID(), nil
	}

	for i := 0; i < 2; i++ {
		order := testOrder(productID, userID)
		if _, err := submitOrder(context.Background(), w, &order, userID); err != nil {
			t.Fatalf("submitOrder returned error: %v", err)
		}
	}
	if len(numbers) != 2 || numbers[0] == "" || numbers[1] == "" {
		t.Fatalf("expected a tracking number per attempt, got %v", numbers)
	}
}

func TestWithTrackingRetryResubmitsOnCollision(t *testing.T) {
	attempts := 0
	err := withTrackingRetry(func() error {
		attempts++
		if attempts < 3 {
			return duplicateKeyError()
		}
		return nil
	})
	if err != nil {
		t.Fatalf("expected retry to recover from collisions, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithTrackingRetryGivesUpAfterThreeCollisions(t *testing.T) {
	attempts := 0
	err := withTrackingRetry(func() error {
		attempts++
		return duplicateKeyError()
	})
	if !mongo.IsDuplicateKeyError(err) {
		t.Fatalf("expected the collision error to surface, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestWithTrackingRetryPassesThroughOtherErrors(t *testing.T) {
	attempts := 0
	dbErr := errors.New("connection reset")
	err := withTrackingRetry(func() error {
		attempts++
		return dbErr
	})
	if !errors.Is(err, dbErr) {
		t.Fatalf("expected the db error unchanged, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1: only collisions resubmit", attempts)
	}
}
