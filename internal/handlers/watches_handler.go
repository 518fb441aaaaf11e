package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/imrishuroy/go-watch-store/internal/validation"
	"github.com/imrishuroy/go-watch-store/internal/watches"
)

// RegisterWatchRoutes registers catalog routes: seed, list and get.
func RegisterWatchRoutes(r *gin.Engine, cfg HandlerConfig, v *validatorv10.Validate) {
	var store *watches.Store
	if cfg.Docs != nil {
		store = watches.NewStore(cfg.Docs)
	}
	guard := requireStore(cfg.Docs)

	r.POST("/seed", guard, func(c *gin.Context) {
		samples := watches.Samples()
		for _, w := range samples {
			if err := v.Struct(w); err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid_sample", "fields": validation.ErrorsToMap(err)})
				return
			}
		}

		inserted, err := store.Seed(c.Request.Context(), samples)
		if err != nil {
			writeError(c, err)
			return
		}
		if inserted == 0 {
			c.JSON(http.StatusOK, gin.H{"inserted": 0, "message": "Already seeded"})
			return
		}
		log.Printf("[api] seeded %d watches", inserted)
		c.JSON(http.StatusOK, gin.H{"inserted": inserted})
	})

	r.GET("/watches", guard, func(c *gin.Context) {
		items, err := store.List(c.Request.Context(), watches.ListFilter{
			Collection: c.Query("collection"),
			Brand:      c.Query("brand"),
			Query:      c.Query("q"),
		})
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	})

	r.GET("/watches/:id", guard, func(c *gin.Context) {
		w, err := store.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		if w == nil {
			notFound(c, "Watch not found")
			return
		}
		c.JSON(http.StatusOK, w)
	})
}
