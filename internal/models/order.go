package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OrderItem is an immutable snapshot of one cart line at submission time.
// Price holds the catalog base price at that moment; customization surcharges
// are carried only inside Customizations.
type OrderItem struct {
	ProductID      primitive.ObjectID `bson:"product" json:"product"`
	Name           string             `bson:"name" json:"name"`
	Quantity       int                `bson:"quantity" json:"quantity"`
	Price          float64            `bson:"price" json:"price"`
	Customizations []Customization    `bson:"customizations" json:"customizations"`
}

// ShippingAddress is the delivery destination for an order.
type ShippingAddress struct {
	Type    string `bson:"type" json:"type"` // home, office, work
	Street  string `bson:"street" json:"street"`
	City    string `bson:"city" json:"city"`
	State   string `bson:"state" json:"state"`
	ZipCode string `bson:"zipCode" json:"zipCode"`
}

// Payment methods and statuses. Payment is mocked: the status is recorded but
// nothing is ever charged.
const (
	PaymentMethodCard = "card"
	PaymentMethodUPI  = "upi"
	PaymentMethodCOD  = "cod"

	PaymentStatusPending   = "Pending"
	PaymentStatusCompleted = "Completed"
	PaymentStatusFailed    = "Failed"
	PaymentStatusRefunded  = "Refunded"
)

func ValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCard, PaymentMethodUPI, PaymentMethodCOD:
		return true
	}
	return false
}

type PaymentDetails struct {
	PaymentMethod string `bson:"paymentMethod" json:"paymentMethod"`
	PaymentStatus string `bson:"paymentStatus" json:"paymentStatus"`
	TransactionID string `bson:"transactionId,omitempty" json:"transactionId,omitempty"`
}

// Order is the permanent record of one submission. Status mirrors the
// authoritative currentStatus on the linked tracking record.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID          primitive.ObjectID `bson:"user" json:"user"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	ShippingAddress ShippingAddress    `bson:"shippingAddress" json:"shippingAddress"`
	Status          string             `bson:"status" json:"status"`
	PaymentDetails  PaymentDetails     `bson:"paymentDetails" json:"paymentDetails"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
