package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-watch-store/internal/cart"
	"github.com/imrishuroy/go-watch-store/internal/validation"
	"github.com/imrishuroy/go-watch-store/internal/watches"
)

// RegisterCartRoutes registers routes for adding to and reading a cart.
func RegisterCartRoutes(r *gin.Engine, cfg HandlerConfig, v *validatorv10.Validate) {
	var (
		watchStore *watches.Store
		cartStore  *cart.Store
	)
	if cfg.Docs != nil {
		watchStore = watches.NewStore(cfg.Docs)
		cartStore = cart.NewStore(cfg.Docs)
	}
	guard := requireStore(cfg.Docs)

	r.POST("/cart/add", guard, func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.AddToCartRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			// BindAndValidate already wrote a 400
			return
		}

		product, err := watchStore.Get(ctx, req.ProductID)
		if err != nil {
			writeError(c, err)
			return
		}
		if product == nil {
			notFound(c, "Product not found")
			return
		}

		title := product.Title
		item := cart.Item{
			CartID:        req.CartID,
			ProductID:     product.ID,
			Quantity:      req.QuantityOrDefault(),
			PriceSnapshot: product.Price,
			TitleSnapshot: &title,
			ImageSnapshot: product.Image,
		}
		if err := v.Struct(item); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation_failed", "fields": validation.ErrorsToMap(err)})
			return
		}

		if _, err := cartStore.Add(ctx, item); err != nil {
			writeError(c, err)
			return
		}

		if err := cfg.Metrics.Count(ctx, "CartItemsAdded", float64(item.Quantity), nil); err != nil {
			log.Printf("[api] metrics: %v", err)
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/cart/:cart_id", guard, func(c *gin.Context) {
		items, err := cartStore.Items(c.Request.Context(), c.Param("cart_id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items, "total": cart.Total(items)})
	})
}
