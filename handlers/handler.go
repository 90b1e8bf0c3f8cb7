package handlers

import (
	"context"
	"net/http"
	"os"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/auth"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/cart"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/checkout"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/orders"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/stores/kafka"
	"github.com/wylmer7856/AgroStock-Web-sub002/middleware"

	"github.com/gin-gonic/gin"
)

// CheckoutEngine is the slice of the checkout engine the handlers need,
// kept as an interface so handler tests can fake it.
type CheckoutEngine interface {
	Validate(ctx context.Context, userID string, knownPrices map[string]int64) (checkout.Result, error)
	Checkout(ctx context.Context, userID string, req checkout.Request) ([]string, error)
}

type Handler struct {
	c      *cart.Conf
	o      *orders.Conf
	engine CheckoutEngine
	k      *kafka.Conf
}

func NewHandler(c *cart.Conf, o *orders.Conf, engine CheckoutEngine, k *kafka.Conf) *Handler {
	return &Handler{
		c:      c,
		o:      o,
		engine: engine,
		k:      k,
	}
}

func API(endpointPrefix string, keys *auth.Keys, c *cart.Conf, o *orders.Conf,
	engine CheckoutEngine, k *kafka.Conf) *gin.Engine {
	r := gin.New()
	mode := os.Getenv("GIN_MODE")
	if mode == gin.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	m, err := middleware.NewMid(keys)
	if err != nil {
		panic(err)
	}

	h := NewHandler(c, o, engine, k)
	r.Use(middleware.Logger(), gin.Recovery())

	r.GET("/ping", HealthCheck)
	v1 := r.Group(endpointPrefix)
	{
		v1.POST("/webhook", h.Webhook)

		v1.Use(m.Authentication())
		v1.POST("/cart/add-item", m.Authorize(h.AddToCart, auth.RoleUser))
		v1.PUT("/cart/update-item", m.Authorize(h.UpdateCartItem, auth.RoleUser))
		v1.DELETE("/cart/remove-item/:productID", m.Authorize(h.RemoveCartItem, auth.RoleUser))
		v1.DELETE("/cart/clear", m.Authorize(h.ClearCart, auth.RoleUser))
		v1.GET("/cart/items", m.Authorize(h.GetCartItems, auth.RoleUser))

		v1.POST("/checkout", m.Authorize(h.Checkout, auth.RoleUser))

		v1.GET("/orders", m.Authorize(h.GetOrders, auth.RoleUser))
		v1.GET("/seller/orders", m.Authorize(h.GetSellerOrders, auth.RoleUser))
		v1.GET("/orders/:id", m.Authorize(h.GetOrder, auth.RoleUser))
	}

	return r
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
