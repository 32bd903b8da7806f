package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SetupRouter wires all HTTP routes.
func SetupRouter(h *HTTPHandler, log *logrus.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(log))

	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		auctions := v1.Group("/auctions")
		{
			auctions.POST("", h.CreateAuction)
			auctions.GET("/:auction_id", h.GetAuction)
			auctions.DELETE("/:auction_id", h.CancelAuction)
			auctions.POST("/:auction_id/bids", h.PlaceBid)
			auctions.GET("/:auction_id/bids", h.GetBidHistory)
		}
	}

	return router
}

// requestLogger logs each request with timing.
func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		log.WithFields(logrus.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("http request")
	}
}
