package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/Pratham-05/FarmNav-Website-Backend/internal/products"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/ctxmanage"
	"github.com/Pratham-05/FarmNav-Website-Backend/pkg/logkey"
)

func (h *Handler) ListProducts(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	category := c.Query("category")
	list, err := h.p.ListProducts(c.Request.Context(), category)
	if err != nil {
		slog.Error("error fetching products", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Failed to fetch products"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "products": list})
}

func (h *Handler) GetProduct(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	productID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound,
			gin.H{"success": false, "message": "Product not found"})
		return
	}

	product, err := h.p.GetProductByID(c.Request.Context(), productID)
	if err != nil {
		if errors.Is(err, products.ErrNotFound) {
			c.AbortWithStatusJSON(http.StatusNotFound,
				gin.H{"success": false, "message": "Product not found"})
			return
		}
		slog.Error("error fetching product details", slog.String(logkey.TraceID, traceId),
			slog.String(logkey.Error, err.Error()))
		c.AbortWithStatusJSON(http.StatusInternalServerError,
			gin.H{"success": false, "message": "Failed to fetch product details"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
}
