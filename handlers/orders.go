package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/auth"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/orders"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/ctxmanage"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/logkey"

	"github.com/gin-gonic/gin"
)

func (h *Handler) GetOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, err := h.o.GetOrdersByBuyer(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// GetSellerOrders lists the incoming orders where the caller is the seller.
func (h *Handler) GetSellerOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	list, err := h.o.GetOrdersBySeller(c.Request.Context(), claims.Subject)
	if err != nil {
		slog.Error("error fetching seller orders", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": list})
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	orderID := c.Param("id")
	order, lines, err := h.o.GetOrderByID(c.Request.Context(), orderID, claims.Subject)
	if err != nil {
		if errors.Is(err, orders.ErrOrderNotFound) {
			slog.Error("order not found", slog.String(logkey.TraceID, traceId), slog.String("OrderID", orderID))
			c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"message": "Order not found"})
			return
		}
		slog.Error("error fetching order", slog.String(logkey.TraceID, traceId),
			slog.String("OrderID", orderID), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"order": order, "line_items": lines})
}
