package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/events"
	"backend/internal/models"
)

/* =========================
   READ TRACKING
========================= */

// GetOrderTracking returns the full tracking record for an order. Only the
// order's owner or an admin may read it.
func GetOrderTracking(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id/tracking"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var tracking models.OrderTracking
		err = db.Collection("order_tracking").FindOne(ctx, bson.M{"orderId": orderID}).Decode(&tracking)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Tracking information not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if tracking.UserID != userID && !isAdmin(c) {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		c.JSON(http.StatusOK, tracking)
	}
}

// GetTrackingByNumber serves the customer-facing projection looked up by
// tracking number.
func GetTrackingByNumber(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/tracking/:trackingNumber"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var tracking models.OrderTracking
		err := db.Collection("order_tracking").FindOne(ctx, bson.M{"trackingNumber": c.Param("trackingNumber")}).Decode(&tracking)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Tracking information not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if tracking.UserID != userID && !isAdmin(c) {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		c.JSON(http.StatusOK, tracking.CurrentInfo())
	}
}

/* =========================
   UPDATE TRACKING (ADMIN)
========================= */

type updateTrackingRequest struct {
	Status         string                 `json:"status" binding:"required"`
	Notes          string                 `json:"notes"`
	Location       string                 `json:"location"`
	DeliveryPerson *models.DeliveryPerson `json:"deliveryPerson"`
}

// UpdateOrderTracking advances the state machine. The route sits behind
// AdminAuth; the status itself is the only validated input, any enum value
// is applied regardless of the current state. The history entry is appended
// with $push so concurrent updates both land, in insertion order.
func UpdateOrderTracking(db *mongo.Database, publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/orders/:id/tracking"
		defer handlePanic(c, route)

		if !isAdmin(c) {
			respondWithError(c, http.StatusForbidden, route, "Access denied. Admin only.")
			return
		}

		orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid id")
			return
		}

		var req updateTrackingRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}
		if !models.ValidOrderStatus(req.Status) {
			respondWithError(c, http.StatusBadRequest, route, "Invalid status")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var tracking models.OrderTracking
		err = db.Collection("order_tracking").FindOne(ctx, bson.M{"orderId": orderID}).Decode(&tracking)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Tracking information not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		var updatedBy *primitive.ObjectID
		if adminID, ok := currentUserID(c); ok {
			updatedBy = &adminID
		}
		tracking.UpdateStatus(req.Status, req.Notes, updatedBy, req.Location)
		if req.DeliveryPerson != nil {
			tracking.DeliveryPerson = req.DeliveryPerson
		}

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		// The tracking write and the Order status mirror are one logical
		// operation: both land or neither does.
		writer := newTrackingWriter(db)
		_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
			return nil, applyTrackingUpdate(sessCtx, writer, orderID, tracking, req.DeliveryPerson)
		})
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		publisher.StatusChanged(orderID.Hex(), tracking.CurrentStatus)

		c.JSON(http.StatusOK, gin.H{
			"message":  "Tracking status updated successfully",
			"tracking": tracking.CurrentInfo(),
		})
	}
}

// trackingWriter abstracts the writes a tracking update performs.
type trackingWriter struct {
	updateTracking   func(ctx context.Context, orderID primitive.ObjectID, update bson.M) error
	setDeliveredOnce func(ctx context.Context, orderID primitive.ObjectID, at time.Time) error
	mirrorStatus     func(ctx context.Context, orderID primitive.ObjectID, status string, at time.Time) error
}

func newTrackingWriter(db *mongo.Database) trackingWriter {
	return trackingWriter{
		updateTracking: func(ctx context.Context, orderID primitive.ObjectID, update bson.M) error {
			_, err := db.Collection("order_tracking").UpdateOne(ctx, bson.M{"orderId": orderID}, update)
			return err
		},
		setDeliveredOnce: func(ctx context.Context, orderID primitive.ObjectID, at time.Time) error {
			// actualDeliveryTime is one-shot: the filter only matches while
			// no delivery time exists, so later transitions never overwrite
			// it.
			_, err := db.Collection("order_tracking").UpdateOne(ctx,
				bson.M{"orderId": orderID, "actualDeliveryTime": bson.M{"$exists": false}},
				bson.M{"$set": bson.M{"actualDeliveryTime": at}},
			)
			return err
		},
		mirrorStatus: func(ctx context.Context, orderID primitive.ObjectID, status string, at time.Time) error {
			_, err := db.Collection("orders").UpdateOne(ctx, bson.M{"_id": orderID},
				bson.M{"$set": bson.M{"status": status, "updatedAt": at}})
			return err
		},
	}
}

// applyTrackingUpdate is the transaction body: it appends the new history
// entry, stamps the delivery time on a first Delivered, and mirrors the
// status onto the order. Any failure aborts the whole update.
func applyTrackingUpdate(ctx context.Context, w trackingWriter, orderID primitive.ObjectID, tracking models.OrderTracking, deliveryPerson *models.DeliveryPerson) error {
	entry := tracking.StatusHistory[len(tracking.StatusHistory)-1]
	set := bson.M{
		"currentStatus": tracking.CurrentStatus,
		"updatedAt":     tracking.UpdatedAt,
	}
	if deliveryPerson != nil {
		set["deliveryPerson"] = deliveryPerson
	}

	update := bson.M{
		"$set":  set,
		"$push": bson.M{"statusHistory": entry},
	}
	if err := w.updateTracking(ctx, orderID, update); err != nil {
		return err
	}

	if entry.Status == models.StatusDelivered {
		if err := w.setDeliveredOnce(ctx, orderID, entry.Timestamp); err != nil {
			return err
		}
	}

	return w.mirrorStatus(ctx, orderID, tracking.CurrentStatus, tracking.UpdatedAt)
}
