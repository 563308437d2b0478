package models

import (
	"fmt"
	"math/rand/v2"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Delivery lifecycle states. Delivered and Cancelled are terminal by intent;
// UpdateStatus does not reject any enum value, matching the permissive
// behavior callers depend on.
const (
	StatusPending        = "Pending"
	StatusConfirmed      = "Confirmed"
	StatusPreparing      = "Preparing"
	StatusOutForDelivery = "Out for Delivery"
	StatusDelivered      = "Delivered"
	StatusCancelled      = "Cancelled"
)

func ValidOrderStatus(status string) bool {
	switch status {
	case StatusPending, StatusConfirmed, StatusPreparing,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// StatusEntry is one row of the append-only status history.
type StatusEntry struct {
	Status    string              `bson:"status" json:"status"`
	Timestamp time.Time           `bson:"timestamp" json:"timestamp"`
	Location  string              `bson:"location,omitempty" json:"location,omitempty"`
	Notes     string              `bson:"notes,omitempty" json:"notes,omitempty"`
	UpdatedBy *primitive.ObjectID `bson:"updatedBy,omitempty" json:"updatedBy,omitempty"`
}

// DeliveryPerson is optional courier info attached by admins.
type DeliveryPerson struct {
	Name          string `bson:"name,omitempty" json:"name,omitempty"`
	Phone         string `bson:"phone,omitempty" json:"phone,omitempty"`
	VehicleNumber string `bson:"vehicleNumber,omitempty" json:"vehicleNumber,omitempty"`
}

// OrderTracking is the authoritative, append-only lifecycle record for one
// order. The tracking number is generated at creation and never changes.
type OrderTracking struct {
	ID                    primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID               primitive.ObjectID `bson:"orderId" json:"orderId"`
	UserID                primitive.ObjectID `bson:"user" json:"user"`
	TrackingNumber        string             `bson:"trackingNumber" json:"trackingNumber"`
	CurrentStatus         string             `bson:"currentStatus" json:"currentStatus"`
	StatusHistory         []StatusEntry      `bson:"statusHistory" json:"statusHistory"`
	EstimatedDeliveryTime time.Time          `bson:"estimatedDeliveryTime" json:"estimatedDeliveryTime"`
	ActualDeliveryTime    *time.Time         `bson:"actualDeliveryTime,omitempty" json:"actualDeliveryTime,omitempty"`
	DeliveryAddress       ShippingAddress    `bson:"deliveryAddress" json:"deliveryAddress"`
	DeliveryPerson        *DeliveryPerson    `bson:"deliveryPerson,omitempty" json:"deliveryPerson,omitempty"`
	CreatedAt             time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt             time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// estimatedDeliveryOffset is added to the submission time at creation.
const estimatedDeliveryOffset = 45 * time.Minute

// NewTrackingNumber builds a human-referenceable tracking number from a fixed
// prefix, a millisecond timestamp and a random numeric suffix. The unique
// index on trackingNumber catches collisions; callers regenerate on a
// duplicate-key error.
func NewTrackingNumber() string {
	return fmt.Sprintf("TRK-%d-%04d", time.Now().UnixMilli(), rand.IntN(10000))
}

// NewOrderTracking creates the tracking record linked to a freshly submitted
// order: status Pending, one history entry, ETA now+45m.
func NewOrderTracking(orderID, userID primitive.ObjectID, address ShippingAddress) OrderTracking {
	now := time.Now()
	return OrderTracking{
		OrderID:               orderID,
		UserID:                userID,
		TrackingNumber:        NewTrackingNumber(),
		CurrentStatus:         StatusPending,
		EstimatedDeliveryTime: now.Add(estimatedDeliveryOffset),
		DeliveryAddress:       address,
		StatusHistory: []StatusEntry{{
			Status:    StatusPending,
			Timestamp: now,
			Notes:     "Order placed successfully",
		}},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// UpdateStatus moves the record to newStatus and appends a history entry.
// History is insertion-ordered and never truncated. ActualDeliveryTime is
// written at most once, on the first transition to Delivered.
func (t *OrderTracking) UpdateStatus(newStatus, notes string, updatedBy *primitive.ObjectID, location string) {
	now := time.Now()
	t.CurrentStatus = newStatus
	t.StatusHistory = append(t.StatusHistory, StatusEntry{
		Status:    newStatus,
		Timestamp: now,
		Location:  location,
		Notes:     notes,
		UpdatedBy: updatedBy,
	})

	if newStatus == StatusDelivered && t.ActualDeliveryTime == nil {
		t.ActualDeliveryTime = &now
	}

	t.UpdatedAt = now
}

// TrackingInfo is the read-only projection served to customers.
type TrackingInfo struct {
	TrackingNumber    string        `json:"trackingNumber"`
	CurrentStatus     string        `json:"currentStatus"`
	LastUpdate        time.Time     `json:"lastUpdate"`
	EstimatedDelivery time.Time     `json:"estimatedDelivery"`
	StatusHistory     []StatusEntry `json:"statusHistory"`
}

// CurrentInfo projects the record for display. LastUpdate is the latest
// history timestamp, or the creation time when history is empty.
func (t *OrderTracking) CurrentInfo() TrackingInfo {
	lastUpdate := t.CreatedAt
	if n := len(t.StatusHistory); n > 0 {
		lastUpdate = t.StatusHistory[n-1].Timestamp
	}
	return TrackingInfo{
		TrackingNumber:    t.TrackingNumber,
		CurrentStatus:     t.CurrentStatus,
		LastUpdate:        lastUpdate,
		EstimatedDelivery: t.EstimatedDeliveryTime,
		StatusHistory:     t.StatusHistory,
	}
}
