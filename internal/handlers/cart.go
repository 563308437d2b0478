package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/cart"
	"backend/internal/models"
)

/* =========================
   REQUEST DTOs
========================= */

type cartSelectedValueRequest struct {
	Name  string  `json:"name" binding:"required"`
	Price float64 `json:"price"`
}

type cartCustomizationRequest struct {
	OptionName     string                     `json:"optionName" binding:"required"`
	SelectedValues []cartSelectedValueRequest `json:"selectedValues"`
}

type addCartItemRequest struct {
	ProductID           string                     `json:"productId" binding:"required"`
	Quantity            int                        `json:"quantity"`
	Customizations      []cartCustomizationRequest `json:"customizations"`
	SpecialInstructions string                     `json:"specialInstructions"`
}

type updateCartItemRequest struct {
	Quantity            int                        `json:"quantity"`
	Customizations      []cartCustomizationRequest `json:"customizations"`
	SpecialInstructions *string                    `json:"specialInstructions"`
}

type recustomizeCartItemRequest struct {
	Customizations []cartCustomizationRequest `json:"customizations" binding:"required"`
}

func toCustomizations(reqs []cartCustomizationRequest) []models.Customization {
	if reqs == nil {
		return nil
	}
	customizations := make([]models.Customization, 0, len(reqs))
	for _, r := range reqs {
		values := make([]models.SelectedValue, 0, len(r.SelectedValues))
		for _, v := range r.SelectedValues {
			values = append(values, models.SelectedValue{Name: v.Name, Price: v.Price})
		}
		customizations = append(customizations, models.Customization{
			OptionName:     r.OptionName,
			SelectedValues: values,
		})
	}
	return customizations
}

func cartResponse(items []cart.Item, totals cart.Totals, message string) gin.H {
	if items == nil {
		items = []cart.Item{}
	}
	resp := gin.H{"items": items, "totals": totals}
	if message != "" {
		resp["message"] = message
	}
	return resp
}

/* =========================
   CART ROUTES
========================= */

func GetCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		items, totals := store.Items(c.Request.Context(), userID.Hex())
		c.JSON(http.StatusOK, cartResponse(items, totals, ""))
	}
}

func AddCartItem(db *mongo.Database, store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /api/cart/items"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req addCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		productID, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid productId")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var product models.Product
		err = db.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondWithError(c, http.StatusNotFound, route, "product not found")
			return
		}
		if err != nil {
			respondWithError(c, http.StatusInternalServerError, route, "db error")
			return
		}
		if !product.IsAvailable {
			respondWithError(c, http.StatusBadRequest, route, "product is not available")
			return
		}

		snapshot := cart.ProductSnapshot{
			ID:        product.ID.Hex(),
			Name:      product.Name,
			BasePrice: product.BasePrice,
			Discount:  product.Discount,
			Image:     product.Image,
			Category:  product.Category,
		}

		items, totals := store.Add(ctx, userID.Hex(), snapshot, req.Quantity, toCustomizations(req.Customizations), req.SpecialInstructions)

		log.Printf("[%s] user=%s product=%s lines=%d", route, userID.Hex(), product.ID.Hex(), len(items))
		c.JSON(http.StatusOK, cartResponse(items, totals, "Item added to cart!"))
	}
}

func UpdateCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/items/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req updateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		items, totals := store.Update(
			c.Request.Context(),
			userID.Hex(),
			c.Param("id"),
			req.Quantity,
			toCustomizations(req.Customizations),
			req.SpecialInstructions,
		)
		c.JSON(http.StatusOK, cartResponse(items, totals, "Cart updated"))
	}
}

func RemoveCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart/items/:id"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		items, totals := store.Remove(c.Request.Context(), userID.Hex(), c.Param("id"))
		c.JSON(http.StatusOK, cartResponse(items, totals, "Item removed from cart"))
	}
}

func RecustomizeCartItem(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /api/cart/items/:id/customizations"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		var req recustomizeCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid request body")
			return
		}

		items, totals := store.Recustomize(c.Request.Context(), userID.Hex(), c.Param("id"), toCustomizations(req.Customizations))
		c.JSON(http.StatusOK, cartResponse(items, totals, "Item customization updated!"))
	}
}

func ClearCart(store *cart.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /api/cart"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		items, totals := store.Clear(c.Request.Context(), userID.Hex())
		c.JSON(http.StatusOK, cartResponse(items, totals, "Cart cleared"))
	}
}
