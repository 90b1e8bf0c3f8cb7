package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/auth"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/checkout"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/ctxmanage"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/logkey"

	"github.com/gin-gonic/gin"
)

// Checkout converts the caller's cart into orders. Responses follow the
// wire contract: 201 with order ids, 400 for an empty or invalid cart or
// bad input, 409 when a concurrent checkout took the stock, 500 otherwise.
func (h *Handler) Checkout(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)
	claims, ok := c.Request.Context().Value(auth.ClaimsKey).(auth.Claims)
	if !ok {
		slog.Error("claims not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	userId := claims.Subject

	if c.Request.ContentLength > 64*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId),
			slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "Request body too large."})
		return
	}

	var request checkout.Request
	if err := c.ShouldBindJSON(&request); err != nil {
		slog.Error("invalid request body", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{"invalid request body"}})
		return
	}

	orderIDs, err := h.engine.Checkout(c.Request.Context(), userId, request)
	if err != nil {
		h.checkoutError(c, traceId, userId, err)
		return
	}

	slog.Info("checkout succeeded", slog.String(logkey.TraceID, traceId),
		slog.String("UserID", userId), slog.Int("Orders", len(orderIDs)))
	c.JSON(http.StatusCreated, gin.H{"success": true, "orderIds": orderIDs})
}

func (h *Handler) checkoutError(c *gin.Context, traceId string, userId string, err error) {
	var cartInvalid *checkout.CartInvalidError
	var stockRace *checkout.StockRaceError

	switch {
	case errors.Is(err, checkout.ErrCartEmpty):
		slog.Error("checkout on empty cart", slog.String(logkey.TraceID, traceId), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{"cart is empty"}})
	case errors.Is(err, checkout.ErrInvalidInput):
		slog.Error("invalid checkout input", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{"invalid delivery address or payment method"}})
	case errors.As(err, &cartInvalid):
		slog.Error("cart validation failed", slog.String(logkey.TraceID, traceId), slog.String("UserID", userId))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"success": false, "errors": cartInvalid.Errors})
	case errors.As(err, &stockRace):
		slog.Error("stock race lost", slog.String(logkey.TraceID, traceId),
			slog.String("UserID", userId), slog.String("ProductID", stockRace.ProductID))
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{
			"success": false,
			"errors":  []string{"another checkout took the remaining stock of product " + stockRace.ProductID + ", please retry"},
		})
	default:
		slog.Error("checkout failed", slog.String(logkey.TraceID, traceId),
			slog.String("UserID", userId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"success": false, "errors": []string{"checkout failed"}})
	}
}
