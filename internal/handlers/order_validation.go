package handlers

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"backend/internal/models"
)

/* =========================
   SUBMISSION DTOs
========================= */

type createOrderItemRequest struct {
	Product        string                     `json:"product"`
	Quantity       int                        `json:"quantity"`
	Price          float64                    `json:"price"`
	Customizations []cartCustomizationRequest `json:"customizations"`
}

type shippingAddressRequest struct {
	Type    string `json:"type"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zipCode"`
}

type paymentDetailsRequest struct {
	PaymentMethod string `json:"paymentMethod"`
	PaymentStatus string `json:"paymentStatus"`
}

type createOrderRequest struct {
	Items           []createOrderItemRequest `json:"items"`
	TotalAmount     float64                  `json:"totalAmount"`
	ShippingAddress shippingAddressRequest   `json:"shippingAddress"`
	PaymentDetails  paymentDetailsRequest    `json:"paymentDetails"`
}

// fieldError reports one invalid field of a submission payload.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// validateCreateOrder checks the whole payload before any write happens and
// returns every problem found, not just the first.
func validateCreateOrder(req createOrderRequest) []fieldError {
	var errs []fieldError

	if len(req.Items) == 0 {
		errs = append(errs, fieldError{Field: "items", Message: "Order must have at least one item"})
	}
	for _, item := range req.Items {
		if _, err := primitive.ObjectIDFromHex(item.Product); err != nil {
			errs = append(errs, fieldError{Field: "items.product", Message: "Invalid product id"})
		}
		if item.Quantity < 1 {
			errs = append(errs, fieldError{Field: "items.quantity", Message: "Quantity must be at least 1"})
		}
	}

	if req.TotalAmount <= 0 {
		errs = append(errs, fieldError{Field: "totalAmount", Message: "Total amount is required"})
	}

	switch normalizeAddressType(req.ShippingAddress.Type) {
	case "home", "office", "work":
	default:
		errs = append(errs, fieldError{Field: "shippingAddress.type", Message: "Type must be home, office, or work"})
	}
	if strings.TrimSpace(req.ShippingAddress.Street) == "" {
		errs = append(errs, fieldError{Field: "shippingAddress.street", Message: "Street is required"})
	}
	if strings.TrimSpace(req.ShippingAddress.City) == "" {
		errs = append(errs, fieldError{Field: "shippingAddress.city", Message: "City is required"})
	}
	if strings.TrimSpace(req.ShippingAddress.State) == "" {
		errs = append(errs, fieldError{Field: "shippingAddress.state", Message: "State is required"})
	}
	if strings.TrimSpace(req.ShippingAddress.ZipCode) == "" {
		errs = append(errs, fieldError{Field: "shippingAddress.zipCode", Message: "Zip code is required"})
	}

	if !models.ValidPaymentMethod(req.PaymentDetails.PaymentMethod) {
		errs = append(errs, fieldError{Field: "paymentDetails.paymentMethod", Message: "Payment method must be card, upi, or cod"})
	}

	return errs
}

// normalizeAddressType applies the historical default: an absent type means a
// home delivery.
func normalizeAddressType(addressType string) string {
	t := strings.TrimSpace(addressType)
	if t == "" {
		return "home"
	}
	return t
}

func toShippingAddress(req shippingAddressRequest) models.ShippingAddress {
	return models.ShippingAddress{
		Type:    normalizeAddressType(req.Type),
		Street:  strings.TrimSpace(req.Street),
		City:    strings.TrimSpace(req.City),
		State:   strings.TrimSpace(req.State),
		ZipCode: strings.TrimSpace(req.ZipCode),
	}
}
