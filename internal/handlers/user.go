package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"backend/internal/models"
)

// GetUserAddresses returns the caller's saved delivery addresses for
// checkout pre-fill.
func GetUserAddresses(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /api/users/addresses"
		defer handlePanic(c, route)

		userID, ok := currentUserID(c)
		if !ok {
			respondWithError(c, http.StatusUnauthorized, route, "unauthorized")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		var user models.User
		if err := db.Collection("users").FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
			log.Println("[ADDRESS] [ERROR] get addresses failed:", err)
			respondWithError(c, http.StatusNotFound, route, "user not found")
			return
		}

		if user.Addresses == nil {
			user.Addresses = []models.Address{}
		}
		c.JSON(http.StatusOK, gin.H{"addresses": user.Addresses})
	}
}
