package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imrishuroy/go-watch-store/internal/cart"
	"github.com/imrishuroy/go-watch-store/internal/docstore"
)

const msgDatabaseUnavailable = "Database not available"

// requireStore rejects the request with 500 when the database never connected.
func requireStore(docs *docstore.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if docs == nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":  "database_unavailable",
				"detail": msgDatabaseUnavailable,
			})
			return
		}
		c.Next()
	}
}

// writeError maps domain errors to responses. Unknown errors are store failures.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, docstore.ErrInvalidID):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_id", "detail": "Invalid ID"})
	case errors.Is(err, cart.ErrEmpty):
		c.JSON(http.StatusBadRequest, gin.H{"error": "cart_empty", "detail": "Cart is empty"})
	default:
		log.Printf("[api] %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "database_error", "detail": "Database error"})
	}
}

func notFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not_found", "detail": detail})
}
