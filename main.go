package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"backend/internal/cart"
	"backend/internal/config"
	"backend/internal/database"
	"backend/internal/events"
	"backend/internal/handlers"
	"backend/internal/middleware"
)

func main() {
	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal(err)
	}

	db := client.Database(config.AppEnv.DBName)

	log.Println("MongoDB connected to:", db.Name())

	if err := database.EnsureProductIndexes(db); err != nil {
		log.Printf("product index warning: %v", err)
	}
	if err := database.EnsureUserIndexes(db); err != nil {
		log.Printf("user index warning: %v", err)
	}
	if err := database.EnsureOrderIndexes(db); err != nil {
		log.Printf("order index warning: %v", err)
	}
	if err := database.EnsureTrackingIndexes(db); err != nil {
		log.Printf("tracking index warning: %v", err)
	}

	// Carts live in memory and persist through the slot; Redis when
	// configured, in-process otherwise.
	var slot cart.Slot = cart.NewMemorySlot()
	if config.AppEnv.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: config.AppEnv.RedisAddr})
		slot = cart.NewRedisSlot(rdb)
		log.Println("cart slot backed by Redis at:", config.AppEnv.RedisAddr)
	}
	cartStore := cart.NewStore(slot)

	var publisher *events.Publisher
	if config.AppEnv.NatsURL != "" {
		publisher, err = events.Connect(config.AppEnv.NatsURL)
		if err != nil {
			log.Printf("NATS unavailable, events disabled: %v", err)
		} else {
			defer publisher.Close()
		}
	}

	r := gin.Default()

	r.GET("/api/products", handlers.GetProducts(db))
	r.GET("/api/products/:id", handlers.GetProduct(db))

	user := r.Group("/api")
	user.Use(middleware.UserAuth(config.AppEnv.JWTSecret))
	{
		user.GET("/cart", handlers.GetCart(cartStore))
		user.POST("/cart/items", handlers.AddCartItem(db, cartStore))
		user.PUT("/cart/items/:id", handlers.UpdateCartItem(cartStore))
		user.PUT("/cart/items/:id/customizations", handlers.RecustomizeCartItem(cartStore))
		user.DELETE("/cart/items/:id", handlers.RemoveCartItem(cartStore))
		user.DELETE("/cart", handlers.ClearCart(cartStore))

		user.POST("/orders", handlers.CreateOrder(db, cartStore, publisher))
		user.GET("/orders", handlers.GetOrders(db))
		user.GET("/orders/tracking/:trackingNumber", handlers.GetTrackingByNumber(db))
		user.GET("/orders/:id", handlers.GetOrder(db))
		user.GET("/orders/:id/tracking", handlers.GetOrderTracking(db))

		user.GET("/users/addresses", handlers.GetUserAddresses(db))
	}

	admin := r.Group("/api")
	admin.Use(middleware.AdminAuth(config.AppEnv.JWTSecret))
	{
		admin.PUT("/orders/:id/tracking", handlers.UpdateOrderTracking(db, publisher))
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	r.Run(":" + port)
}
