package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxListedCollections = 10

// RegisterHealthRoutes registers the liveness and diagnostics routes.
func RegisterHealthRoutes(r *gin.Engine, cfg HandlerConfig) {
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Watch Store API is running"})
	})

	// GET /test always answers 200; store errors are folded into the "database" field.
	r.GET("/test", func(c *gin.Context) {
		resp := gin.H{
			"backend":           "✅ Running",
			"database":          "❌ Not Available",
			"database_url":      nil,
			"database_name":     nil,
			"connection_status": "Not Connected",
			"collections":       []string{},
		}

		if cfg.Docs == nil {
			resp["database"] = "❌ Database not initialized"
			resp["database_url"] = setOrNot(cfg.DatabaseURLSet)
			resp["database_name"] = setOrNot(cfg.DatabaseNameSet)
			c.JSON(http.StatusOK, resp)
			return
		}

		resp["database"] = "✅ Connected & Working"
		resp["connection_status"] = "Connected"
		resp["database_url"] = setOrNot(cfg.DatabaseURLSet)
		resp["database_name"] = setOrNot(cfg.DatabaseNameSet)

		names, err := cfg.Docs.ListCollections(c.Request.Context(), maxListedCollections)
		if err != nil {
			resp["database"] = fmt.Sprintf("⚠️  Connected but Error: %s", truncate(err.Error(), 50))
		} else if names != nil {
			resp["collections"] = names
		}
		c.JSON(http.StatusOK, resp)
	})
}

func setOrNot(set bool) string {
	if set {
		return "✅ Set"
	}
	return "❌ Not Set"
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
