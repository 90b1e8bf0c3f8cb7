package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/auth"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/cart"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/inventory"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/ctxmanage"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) AddToCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	var request struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.ProductID == "" || request.Quantity <= 0 {
		slog.Error("invalid product ID or quantity", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID and quantity must be valid"})
		return
	}

	err := h.c.Add(c.Request.Context(), userId, request.ProductID, request.Quantity)
	if err != nil {
		h.cartError(c, traceId, request.ProductID, err)
		return
	}

	slog.Info("product added to cart", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity), slog.String("UserID", userId))
	c.JSON(http.StatusOK, gin.H{"message": "Product added to cart successfully"})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	var request struct {
		ProductID string `json:"product_id"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return
	}
	if request.ProductID == "" {
		slog.Error("missing product id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID is required"})
		return
	}

	// Zero or negative quantity removes the line.
	err := h.c.Update(c.Request.Context(), userId, request.ProductID, request.Quantity)
	if err != nil {
		h.cartError(c, traceId, request.ProductID, err)
		return
	}

	slog.Info("cart item updated", slog.String(logkey.TraceID, traceId),
		slog.String("ProductID", request.ProductID), slog.Int("Quantity", request.Quantity), slog.String("UserID", userId))
	c.JSON(http.StatusOK, gin.H{"message": "Cart updated successfully"})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	productID := c.Param("productID")
	if productID == "" {
		slog.Error("missing product id", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Product ID is required"})
		return
	}

	found, err := h.c.Remove(c.Request.Context(), userId, productID)
	if err != nil {
		slog.Error("error removing cart item", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to remove cart item"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed", "found": found})
}

func (h *Handler) ClearCart(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	if err := h.c.Clear(c.Request.Context(), userId); err != nil {
		slog.Error("error clearing cart", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

// GetCartItems returns the cart lines together with an advisory validation
// block, so the client can show stale prices and stock problems up front.
func (h *Handler) GetCartItems(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	lines, err := h.c.Get(c.Request.Context(), userId)
	if err != nil {
		slog.Error("error fetching cart items", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch cart items"})
		return
	}

	validation, err := h.engine.Validate(c.Request.Context(), userId, nil)
	if err != nil {
		slog.Error("error validating cart", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to validate cart"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":      lines,
		"validation": validation,
	})
}

// cartError maps cart store failures onto HTTP codes.
func (h *Handler) cartError(c *gin.Context, traceId string, productID string, err error) {
	switch {
	case errors.Is(err, inventory.ErrProductNotFound):
		slog.Error("product not found", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Product not found"})
	case errors.Is(err, cart.ErrProductUnavailable):
		slog.Error("product unavailable", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Product is currently unavailable"})
	case errors.Is(err, cart.ErrInsufficientStock):
		slog.Error("insufficient stock", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"message": "Insufficient stock available"})
	case errors.Is(err, cart.ErrQuantityLimit):
		slog.Error("quantity limit exceeded", slog.String(logkey.TraceID, traceId), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Quantity exceeds the allowed limit"})
	default:
		slog.Error("cart operation failed", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.ERROR, err.Error()), slog.String("ProductID", productID))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Cart operation failed"})
	}
}
