package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backend/internal/cart"
	"backend/internal/events"
	"backend/internal/models"
)

type productNotFoundError struct {
	ProductID primitive.ObjectID
}

func (e productNotFoundError) Error() string {
	return "product not found"
}

type productUnavailableError struct {
	ProductID primitive.ObjectID
}

func (e productUnavailableError) Error() string {
	return "product unavailable"
}

/* =========================
   CREATE ORDER
========================= */

// CreateOrder submits the caller's cart: it validates the payload, snapshots
// catalog prices, and writes the order together with its tracking record in
// one transaction. The cart is cleared only after the commit.
func CreateOrder(db *mongo.Database, store *cart.Store, publisher *events.Publisher) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/orders"
		defer handlePanic(c, route)

		if err := ensureDBConnection(c.Request.Context(), db); err != nil {
			respondWithError(c, http.StatusServiceUnavailable, route, "database unavailable")
			return
		}

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req createOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		if fieldErrs := validateCreateOrder(req); len(fieldErrs) > 0 {
			log.Printf("[%s] validation failed: %d field errors", route, len(fieldErrs))
			c.JSON(http.StatusBadRequest, gin.H{"errors": fieldErrs})
			return
		}

		order := buildOrder(req, userID)

		ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
		defer cancel()

		session, err := db.Client().StartSession()
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer session.EndSession(ctx)

		writer := newOrderWriter(db)
		var tracking models.OrderTracking
		err = withTrackingRetry(func() error {
			_, txErr := session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (interface{}, error) {
				t, err := submitOrder(sessCtx, writer, &order, userID)
				if err != nil {
					return nil, err
				}
				tracking = t
				return nil, nil
			})
			return txErr
		})
		if err != nil {
			var notFoundErr productNotFoundError
			if errors.As(err, &notFoundErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product not found",
					"productId": notFoundErr.ProductID.Hex(),
				})
				return
			}
			var unavailableErr productUnavailableError
			if errors.As(err, &unavailableErr) {
				c.JSON(http.StatusBadRequest, gin.H{
					"error":     "product is not available",
					"productId": unavailableErr.ProductID.Hex(),
				})
				return
			}
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		// The order exists; discard the cart snapshot that produced it.
		store.Clear(ctx, userID.Hex())

		publisher.OrderCreated(order, tracking.TrackingNumber)

		log.Printf("[%s] order created user=%s order=%s tracking=%s", route, userID.Hex(), order.ID.Hex(), tracking.TrackingNumber)
		c.JSON(http.StatusCreated, gin.H{
			"order":          order,
			"trackingNumber": tracking.TrackingNumber,
			"message":        "order created",
		})
	}
}

// orderWriter abstracts the catalog read and the two collection writes the
// submission transaction performs.
type orderWriter struct {
	findProduct    func(ctx context.Context, id primitive.ObjectID) (models.Product, error)
	insertOrder    func(ctx context.Context, order models.Order) (primitive.ObjectID, error)
	insertTracking func(ctx context.Context, tracking models.OrderTracking) (primitive.ObjectID, error)
}

func newOrderWriter(db *mongo.Database) orderWriter {
	return orderWriter{
		findProduct: func(ctx context.Context, id primitive.ObjectID) (models.Product, error) {
			var product models.Product
			err := db.Collection("products").FindOne(ctx, bson.M{"_id": id}).Decode(&product)
			return product, err
		},
		insertOrder: func(ctx context.Context, order models.Order) (primitive.ObjectID, error) {
			res, err := db.Collection("orders").InsertOne(ctx, order)
			if err != nil {
				return primitive.NilObjectID, err
			}
			id, _ := res.InsertedID.(primitive.ObjectID)
			return id, nil
		},
		insertTracking: func(ctx context.Context, tracking models.OrderTracking) (primitive.ObjectID, error) {
			res, err := db.Collection("order_tracking").InsertOne(ctx, tracking)
			if err != nil {
				return primitive.NilObjectID, err
			}
			id, _ := res.InsertedID.(primitive.ObjectID)
			return id, nil
		},
	}
}

// submitOrder is the transaction body: it snapshots every line against the
// catalog, inserts the order, then its tracking record. Any error aborts the
// whole transaction, so an order never exists without tracking.
func submitOrder(ctx context.Context, w orderWriter, order *models.Order, userID primitive.ObjectID) (models.OrderTracking, error) {
	// The stored line price is the base price at submission time;
	// customization surcharges stay inside the line's customizations.
	for i := range order.Items {
		product, err := w.findProduct(ctx, order.Items[i].ProductID)
		if err == mongo.ErrNoDocuments {
			return models.OrderTracking{}, productNotFoundError{ProductID: order.Items[i].ProductID}
		}
		if err != nil {
			return models.OrderTracking{}, err
		}
		if !product.IsAvailable {
			return models.OrderTracking{}, productUnavailableError{ProductID: order.Items[i].ProductID}
		}

		order.Items[i].Name = product.Name
		order.Items[i].Price = product.BasePrice
	}

	orderID, err := w.insertOrder(ctx, *order)
	if err != nil {
		return models.OrderTracking{}, err
	}
	order.ID = orderID

	tracking := models.NewOrderTracking(orderID, userID, order.ShippingAddress)
	trackingID, err := w.insertTracking(ctx, tracking)
	if err != nil {
		return models.OrderTracking{}, err
	}
	tracking.ID = trackingID
	return tracking, nil
}

// withTrackingRetry reruns the submission when the trackingNumber unique
// index reports a collision. A write error aborts the server-side
// transaction, so the retry has to restart the transaction from scratch;
// each rerun generates a fresh tracking number.
func withTrackingRetry(run func() error) error {
	var err error
	for attempt := 0; attempt < 3; attempt++ {
		err = run()
		if err == nil || !mongo.IsDuplicateKeyError(err) {
			return err
		}
		log.Println("[ORDER] [ERROR] tracking number collision, resubmitting")
	}
	return err
}

func buildOrder(req createOrderRequest, userID primitive.ObjectID) models.Order {
	items := make([]models.OrderItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, _ := primitive.ObjectIDFromHex(item.Product)
		customizations := toCustomizations(item.Customizations)
		if customizations == nil {
			customizations = []models.Customization{}
		}
		items = append(items, models.OrderItem{
			ProductID:      productID,
			Quantity:       item.Quantity,
			Price:          item.Price,
			Customizations: customizations,
		})
	}

	payment := models.PaymentDetails{
		PaymentMethod: req.PaymentDetails.PaymentMethod,
		PaymentStatus: models.PaymentStatusPending,
	}
	// Payment is mocked: a transaction id is recorded for non-cash methods,
	// nothing is charged.
	if payment.PaymentMethod != models.PaymentMethodCOD {
		payment.TransactionID = uuid.NewString()
	}

	now := time.Now()
	return models.Order{
		UserID:          userID,
		Items:           items,
		TotalAmount:     req.TotalAmount,
		ShippingAddress: toShippingAddress(req.ShippingAddress),
		Status:          models.StatusPending,
		PaymentDetails:  payment,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

/* =========================
   READ ORDERS
========================= */

func GetOrders(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		page, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid pagination params")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		findOptions := options.Find().
			SetSort(bson.D{{Key: "createdAt", Value: -1}}).
			SetSkip((page - 1) * limit).
			SetLimit(limit)

		cursor, err := db.Collection("orders").Find(ctx, bson.M{"user": userID}, findOptions)
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		defer cursor.Close(ctx)

		orders := make([]models.Order, 0)
		if err := cursor.All(ctx, &orders); err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		c.JSON(http.StatusOK, orders)
	}
}

func GetOrder(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/orders/:id"
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

		var order models.Order
		err = db.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "Order not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}

		if order.UserID != userID && !isAdmin(c) {
			respondWithError(c, http.StatusUnauthorized, route, "Not authorized")
			return
		}

		c.JSON(http.StatusOK, order)
	}
}
