package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-watch-store/internal/cart"
	"github.com/imrishuroy/go-watch-store/internal/idempotency"
	"github.com/imrishuroy/go-watch-store/internal/orders"
	"github.com/imrishuroy/go-watch-store/internal/validation"
)

// RegisterCheckoutRoutes registers POST /checkout.
//
// Checkout copies the cart lines into a paid order and leaves the cart as is,
// so the same cart can be checked out again. Sending an Idempotency-Key header
// makes a retried request replay the first response instead.
func RegisterCheckoutRoutes(r *gin.Engine, cfg HandlerConfig, v *validatorv10.Validate) {
	var (
		cartStore  *cart.Store
		orderStore *orders.Store
		idempStore *idempotency.Store
	)
	if cfg.Docs != nil {
		cartStore = cart.NewStore(cfg.Docs)
		orderStore = orders.NewStore(cfg.Docs)
		idempStore = idempotency.NewStore(cfg.Docs, cfg.IdempotencyTTL)
		if cfg.Now != nil {
			idempStore.WithClock(cfg.Now)
		}
	}

	placeOrder := func(ctx context.Context, req validation.CheckoutRequest) (*orders.Order, error) {
		lines, err := cartStore.Items(ctx, req.CartID)
		if err != nil {
			return nil, err
		}
		order, err := orders.FromCart(req.CartID, lines, req.Email)
		if err != nil {
			return nil, err
		}
		if err := v.Struct(order); err != nil {
			return nil, fmt.Errorf("order failed validation: %w", err)
		}
		id, err := orderStore.Create(ctx, order)
		if err != nil {
			return nil, err
		}
		order.ID = id
		return &order, nil
	}

	r.POST("/checkout", requireStore(cfg.Docs), func(c *gin.Context) {
		ctx := c.Request.Context()

		var req validation.CheckoutRequest
		if err := validation.BindAndValidate(c, &req, v); err != nil {
			return
		}

		idempKey := c.GetHeader("Idempotency-Key")
		if idempKey != "" {
			created, err := idempStore.CreateIfNotExists(ctx, idempKey, req.CartID)
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
				return
			}
			if !created {
				replayCheckout(c, idempStore, idempKey, req.CartID)
				return
			}
		}

		order, err := placeOrder(ctx, req)
		if err != nil {
			if idempKey != "" {
				// let the client retry with the same key
				if rerr := idempStore.Release(ctx, idempKey); rerr != nil {
					log.Printf("[api] release idempotency key=%s: %v", idempKey, rerr)
				}
			}
			writeError(c, err)
			return
		}

		resp := checkoutResponse{Status: orders.StatusPaid, OrderID: order.ID}
		if idempKey != "" {
			// a record left IN_PROGRESS here expires after IdempotencyTTL
			if body, err := json.Marshal(resp); err != nil {
				log.Printf("[api] encode checkout response key=%s: %v", idempKey, err)
			} else if err := idempStore.MarkDone(ctx, idempKey, order.ID, string(body), http.StatusOK); err != nil {
				log.Printf("[api] mark idempotency done key=%s: %v", idempKey, err)
			}
		}

		log.Printf("[api] order placed order=%s cart=%s subtotal=%.2f", order.ID, order.CartID, order.Subtotal)
		announceOrder(c, cfg, order)
		c.JSON(http.StatusOK, resp)
	})
}

type checkoutResponse struct {
	Status  string `json:"status"`
	OrderID string `json:"order_id"`
}

// replayCheckout answers a request whose Idempotency-Key was already used.
// A key is bound to the cart it was first sent with.
func replayCheckout(c *gin.Context, store *idempotency.Store, key, cartID string) {
	rec, err := store.Get(c.Request.Context(), key)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "idempotency_check_failed", "detail": err.Error()})
		return
	}
	if rec == nil {
		// released between our create and get
		c.JSON(http.StatusConflict, gin.H{"error": "idempotency_key_released", "detail": "retry the request"})
		return
	}
	if rec.CartID != "" && rec.CartID != cartID {
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":  "idempotency_key_mismatch",
			"detail": "Idempotency-Key was already used for a different cart",
		})
		return
	}
	switch rec.Status {
	case idempotency.StatusDone:
		if rec.ResponseBody != "" {
			c.Data(rec.ResponseStatus, "application/json; charset=utf-8", []byte(rec.ResponseBody))
			return
		}
		c.JSON(http.StatusOK, checkoutResponse{Status: orders.StatusPaid, OrderID: rec.OrderID})
	case idempotency.StatusInProgress:
		c.JSON(http.StatusConflict, gin.H{"error": "request_in_progress"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown_idempotency_status"})
	}
}

// announceOrder publishes the order event and metrics. Failures are logged only:
// the order is already stored.
func announceOrder(c *gin.Context, cfg HandlerConfig, order *orders.Order) {
	ctx := c.Request.Context()

	if cfg.Publisher != nil {
		ev := orders.PlacedEvent{
			OrderID:       order.ID,
			CartID:        order.CartID,
			Subtotal:      order.Subtotal,
			CorrelationID: c.GetHeader("X-Request-Id"),
		}
		if order.Email != nil {
			ev.Email = *order.Email
		}
		attrs := map[string]string{
			"order_id":       order.ID,
			"correlation_id": ev.CorrelationID,
		}
		if err := cfg.Publisher.Publish(ctx, ev, attrs); err != nil {
			log.Printf("[api] publish order=%s: %v", order.ID, err)
		}
	}

	dims := map[string]string{"Status": order.Status}
	err := errors.Join(
		cfg.Metrics.Count(ctx, "OrdersPlaced", 1, dims),
		cfg.Metrics.Value(ctx, "OrderSubtotal", order.Subtotal, dims),
	)
	if err != nil {
		log.Printf("[api] metrics: %v", err)
	}
}
