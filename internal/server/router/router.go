package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. The
// WhatsApp routes are only mounted when webhook is non-nil.
func New(park *handlers.ParkHandler, webhook *handlers.WebhookHandler, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/park", park.Park)
	r.GET("/stats", park.Stats)
	r.GET("/reports/latest", park.LatestReport)

	dinosaurs := r.Group("/dinosaurs")
	dinosaurs.GET("", park.ListDinosaurs)
	dinosaurs.POST("", park.AddDinosaur)
	dinosaurs.DELETE("", park.RemoveSpecies)
	dinosaurs.GET("/most-attractive", park.MostAttractive)
	dinosaurs.DELETE("/:index", park.RemoveDinosaur)

	if webhook != nil {
		r.GET("/webhook", webhook.Verify)
		r.POST("/webhook", webhook.Receive)
		r.POST("/send-message", webhook.SendMessage)
	}

	logger.Info("router initialized", zap.Bool("whatsapp", webhook != nil))
	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
