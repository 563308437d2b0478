package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Address is one saved delivery address in a user's address book, pre-filled
// into checkout.
type Address struct {
	ID        string `bson:"id" json:"id"`
	Type      string `bson:"type" json:"type"` // home, office, work
	Street    string `bson:"street" json:"street"`
	City      string `bson:"city" json:"city"`
	State     string `bson:"state" json:"state"`
	ZipCode   string `bson:"zipCode" json:"zipCode"`
	IsDefault bool   `bson:"isDefault" json:"isDefault"`
}

// User is the account placing orders. Role distinguishes customers from the
// admins allowed to drive tracking updates.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Name         string             `bson:"name" json:"name"`
	Phone        string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Role         string             `bson:"role" json:"role"`
	Addresses    []Address          `bson:"addresses" json:"addresses"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
