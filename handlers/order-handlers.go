package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Pratham-05/FarmNav-Website-Backend/internal/auth"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/notify"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/orders"
	"github.com/Pratham-05/FarmNav-Website-Backend/internal/stores/kafka"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/ctxmanage"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/logkey"
)

func (h *Handler) CreateOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	identity, ok := c.Request.Context().Value(auth.IdentityKey).(auth.Identity)
	if !ok {
		slog.Error("identity not found", slog.String(logkey.TraceID, traceId))
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			gin.H{"success": false, "message": "Authentication required"})
		return
	}

	if c.Request.ContentLength > 5*1024 {
		slog.Error("request body limit breached", slog.String(logkey.TraceID, traceId),
			slog.Int64("Size Received", c.Request.ContentLength))
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": "Request body too large."})
		return
	}

	var newOrder orders.NewOrder
	if err := c.ShouldBindJSON(&newOrder); err != nil {
		slog.Error("json validation error", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusBadRequest,
			gin.H{"success": false, "message": "Missing required order fields"})
		return
	}

	order, err := h.o.CreateOrder(c.Request.Context(), identity.UserID, newOrder)
	if err != nil {
		var vErr orders.ValidationError
		if errors.As(err, &vErr) {
			c.AbortWithStatusJSON(http.StatusBadRequest,
				gin.H{"success": false, "message": vErr.Error()})
			return
		}
		slog.Error("error creating order", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, identity.UserID), slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Failed to create order"})
		return
	}

	// Side effects run detached; the response never waits on them.
	h.dispatchOrderSideEffects(traceId, order, newOrder.CartItems)

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "Order created successfully",
		"order":   order,
	})
}

// dispatchOrderSideEffects sends the confirmation email and produces the
// order-placed event in a background goroutine. Failures are logged and
// swallowed; there is no retry and no delivery guarantee.
func (h *Handler) dispatchOrderSideEffects(traceId string, order orders.Order, items []orders.CartItem) {
	lines := make([]notify.ItemLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, notify.ItemLine{
			Name:     item.Name,
			Price:    item.Price,
			Quantity: item.Quantity,
		})
	}
	email := notify.OrderEmail{
		OrderID:         order.ID,
		TrackingID:      order.TrackingID,
		PaymentMethod:   order.PaymentMethod,
		Total:           order.Total,
		ShippingAddress: order.ShippingAddress,
		Items:           lines,
		OrderDate:       order.OrderDate,
	}

	go func() {
		if h.d != nil {
			if err := h.d.DispatchOrderConfirmation(email); err != nil {
				slog.Error("order confirmation email failed", slog.String(logkey.TraceID, traceId),
					slog.Int64(logkey.OrderID, order.ID), slog.String(logkey.Error, err.Error()))
			}
		}

		if h.k != nil {
			data, err := json.Marshal(kafka.OrderPlacedEvent{
				OrderID:    order.ID,
				UserID:     order.UserID,
				TrackingID: order.TrackingID,
				Total:      order.Total,
				CreatedAt:  time.Now().UTC(),
			})
			if err != nil {
				slog.Error("failed to marshal OrderPlacedEvent", slog.String(logkey.Error, err.Error()))
				return
			}
			key := []byte(strconv.FormatInt(order.ID, 10))
			if err := h.k.ProduceMessage(kafka.TopicOrderPlaced, key, data); err != nil {
				slog.Error("failed to produce message", slog.String(logkey.TraceID, traceId),
					slog.Int64(logkey.OrderID, order.ID), slog.String(logkey.Error, err.Error()))
			}
		}
	}()
}

func (h *Handler) ListOrders(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	identity, ok := c.Request.Context().Value(auth.IdentityKey).(auth.Identity)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			gin.H{"success": false, "message": "Authentication required"})
		return
	}

	list, err := h.o.GetOrdersByUser(c.Request.Context(), identity.UserID)
	if err != nil {
		slog.Error("error fetching orders", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, identity.UserID), slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Failed to fetch orders"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "orders": list})
}

func (h *Handler) GetOrder(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	identity, ok := c.Request.Context().Value(auth.IdentityKey).(auth.Identity)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			gin.H{"success": false, "message": "Not authenticated"})
		return
	}

	orderID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound,
			gin.H{"success": false, "message": "Order not found"})
		return
	}

	details, err := h.o.GetOrderDetails(c.Request.Context(), identity.UserID, orderID)
	if err != nil {
		if errors.Is(err, orders.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound,
				gin.H{"success": false, "message": "Order not found"})
			return
		}
		slog.Error("error fetching order details", slog.String(logkey.TraceID, traceId),
			slog.Int64(logkey.UserID, identity.UserID), slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Error fetching order details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "order": details})
}
