// Package handlers exposes the service over HTTP: validation, status mapping
// and the fire-and-forget hand-off to the notification side effects.
package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/Pratham-05/FarmNav-Website-Backend/internal/auth"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/notify"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/orders"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/products"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/sessions"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/users"
	"github.com/Pratham-05/FarmNav-Website-Backend/middleware"
)

// Stores are consumed through interfaces so tests can substitute fakes.

type UserStore interface {
	InsertUser(ctx context.Context, nu users.NewUser) (users.User, error)
	Authenticate(ctx context.Context, usernameOrEmail, password string) (users.User, error)
}

type ProductStore interface {
	ListProducts(ctx context.Context, category string) ([]products.Product, error)
	GetProductByID(ctx context.Context, id int64) (products.Product, error)
}

type OrderStore interface {
	CreateOrder(ctx context.Context, userID int64, no orders.NewOrder) (orders.Order, error)
	GetOrderDetails(ctx context.Context, userID, orderID int64) (orders.OrderDetails, error)
	GetOrdersByUser(ctx context.Context, userID int64) ([]orders.UserOrder, error)
}

type SessionStore interface {
	Create(ctx context.Context, userID int64, username, email string) (sessions.Session, error)
	Delete(ctx context.Context, id string) error
}

type EventProducer interface {
	ProduceMessage(topic string, key, value []byte) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	u        UserStore
	p        ProductStore
	o        OrderStore
	s        SessionStore
	d        notify.Dispatcher
	k        EventProducer
	db       Pinger
	keys     *auth.Keys
	validate *validator.Validate
}

// NewHandler builds the handler set. Dispatcher and producer may be nil; the
// matching side effects are then skipped.
func NewHandler(u UserStore, p ProductStore, o OrderStore, s SessionStore,
	d notify.Dispatcher, k EventProducer, db Pinger, keys *auth.Keys) *Handler {
	return &Handler{
		u:        u,
		p:        p,
		o:        o,
		s:        s,
		d:        d,
		k:        k,
		db:       db,
		keys:     keys,
		validate: validator.New(),
	}
}

// API builds the gin engine with every route mounted under /api.
func API(h *Handler, m *middleware.Mid) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	r.Use(middleware.Logger(), gin.Recovery())

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", h.Register)
			authGroup.POST("/login", h.Login)
			authGroup.POST("/logout", h.Logout)
			authGroup.GET("/me", m.Authentication(), h.CurrentUser)
		}

		productGroup := api.Group("/products")
		{
			productGroup.GET("", h.ListProducts)
			productGroup.GET("/:id", h.GetProduct)
		}

		orderGroup := api.Group("/orders")
		orderGroup.Use(m.Authentication())
		{
			orderGroup.POST("", h.CreateOrder)
			orderGroup.GET("", h.ListOrders)
			orderGroup.GET("/:id", h.GetOrder)
		}
	}
	return r
}

// Health reports liveness plus a database connectivity probe.
func (h *Handler) Health(c *gin.Context) {
	database := "Connected"
	if err := h.db.Ping(c.Request.Context()); err != nil {
		database = "Disconnected"
	}
	c.JSON(http.StatusOK, gin.H{"status": "OK", "database": database})
}
