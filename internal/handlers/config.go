package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-watch-store/internal/aws"
	"github.com/imrishuroy/go-watch-store/internal/docstore"
	"github.com/imrishuroy/go-watch-store/internal/validation"
)

// HandlerConfig groups dependencies for the API handlers.
type HandlerConfig struct {
	Docs      *docstore.Store // nil when the database is unavailable
	Publisher *aws.Publisher  // nil disables order events
	Metrics   *aws.Metrics    // nil disables metrics

	IdempotencyTTL time.Duration
	Now            func() time.Time // idempotency clock; nil means time.Now

	// reported by GET /test
	DatabaseURLSet  bool
	DatabaseNameSet bool
}

// RegisterRoutes registers every API route on r.
func RegisterRoutes(r *gin.Engine, cfg HandlerConfig) {
	v := validation.New()

	RegisterHealthRoutes(r, cfg)
	RegisterWatchRoutes(r, cfg, v)
	RegisterCartRoutes(r, cfg, v)
	RegisterCheckoutRoutes(r, cfg, v)
}
