package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/wylmer7856/AgroStock-Web-sub002/internal/orders"
	"github.com/wylmer7856/AgroStock-Web-sub002/internal/stores/kafka"
	"github.com/wylmer7856/AgroStock-Web-sub002/pkg/logkey"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v81"
)

// Webhook receives payment events from the payment collaborator. Payment
// confirmation happens out-of-band of checkout; the only thing this touches
// is the order's payment status.
func (h *Handler) Webhook(c *gin.Context) {
	traceId := uuid.NewString()
	const MaxBodyBytes = int64(65536)

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	var event stripe.Event
	if err := c.ShouldBindJSON(&event); err != nil {
		slog.Error("failed to bind webhook event", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	switch event.Type {
	case "payment_intent.succeeded":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			slog.Error("failed to unmarshal payment intent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderId := paymentIntent.Metadata["order_id"]
		if orderId == "" {
			slog.Error("payment intent without order id", slog.String(logkey.TraceID, traceId), slog.String("PaymentIntent", paymentIntent.ID))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "order_id metadata missing"})
			return
		}
		slog.Info("payment intent succeeded", slog.String(logkey.TraceID, traceId),
			slog.String("OrderID", orderId), slog.String("PaymentIntent", paymentIntent.ID))

		if err := h.o.UpdatePaymentStatus(c.Request.Context(), orderId, orders.PaymentPaid); err != nil {
			slog.Error("failed to update payment status", slog.String(logkey.TraceID, traceId),
				slog.String("OrderID", orderId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
			return
		}

		if h.k != nil {
			go func() {
				jsonData, err := json.Marshal(kafka.OrderPaidEvent{
					OrderID:   orderId,
					PaymentID: paymentIntent.ID,
					CreatedAt: time.Now().UTC(),
				})
				if err != nil {
					slog.Error("failed to marshal order paid event", slog.String(logkey.ERROR, err.Error()))
					return
				}
				if err := h.k.ProduceMessage(kafka.TopicOrderPaid, []byte(orderId), jsonData); err != nil {
					slog.Error("failed to produce order paid event", slog.String(logkey.ERROR, err.Error()))
				}
			}()
		}

		c.Status(http.StatusOK)

	case "payment_intent.payment_failed":
		var paymentIntent stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &paymentIntent); err != nil {
			slog.Error("failed to unmarshal payment intent", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		// The order's payment status stays pending; the buyer can retry the
		// payment against the same order.
		slog.Warn("payment intent failed", slog.String(logkey.TraceID, traceId),
			slog.String("OrderID", paymentIntent.Metadata["order_id"]),
			slog.String("PaymentIntent", paymentIntent.ID))
		c.Status(http.StatusOK)

	default:
		slog.Info("unhandled event type", slog.String(logkey.TraceID, traceId), slog.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{
			"message": "Event type not handled",
			"event":   event.Type,
		})
	}
}
