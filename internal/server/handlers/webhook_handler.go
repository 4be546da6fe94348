package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/domain/models"
	service "github.com/mamadbah2/dinopark/internal/service/whatsapp"
)

// businessAccountObject is the object Meta sets on WhatsApp Business webhooks.
const businessAccountObject = "whatsapp_business_account"

type verifyQuery struct {
	Mode      string `form:"hub.mode" binding:"required"`
	Token     string `form:"hub.verify_token" binding:"required"`
	Challenge string `form:"hub.challenge"`
}

// WebhookHandler is the park's WhatsApp channel: keeper commands come in
// through the webhook and manager notices go out through send-message.
type WebhookHandler struct {
	messaging service.MessagingService
	logger    *zap.Logger
}

func NewWebhookHandler(messaging service.MessagingService, logger *zap.Logger) *WebhookHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookHandler{messaging: messaging, logger: logger}
}

// Verify echoes hub.challenge back when the subscription token matches.
func (h *WebhookHandler) Verify(c *gin.Context) {
	var q verifyQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.logger.Warn("webhook verification without hub parameters", zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}

	challenge, err := h.messaging.VerifyWebhookToken(q.Mode, q.Token, q.Challenge)
	if err != nil {
		h.logger.Warn("webhook verification rejected", zap.String("mode", q.Mode), zap.Error(err))
		c.String(http.StatusForbidden, "verification failed")
		return
	}
	c.String(http.StatusOK, challenge)
}

// Receive runs the keeper commands carried by a webhook delivery. Anything
// other than a business account payload is acknowledged and dropped. A 500
// is only returned when a command failed, which makes Meta redeliver it.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var payload models.WebhookPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		h.logger.Warn("undecodable webhook delivery", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	if payload.Object != businessAccountObject {
		h.logger.Debug("ignoring webhook object", zap.String("object", payload.Object))
		c.Status(http.StatusOK)
		return
	}

	if err := h.messaging.HandleWebhook(c.Request.Context(), payload); err != nil {
		h.logger.Error("keeper command failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "command failed"})
		return
	}
	c.Status(http.StatusOK)
}

// SendMessage pushes a free-form notice, such as a closing time, to a number.
func (h *WebhookHandler) SendMessage(c *gin.Context) {
	var req models.OutboundMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "to and message are required"})
		return
	}

	if err := h.messaging.SendOutbound(c.Request.Context(), req); err != nil {
		h.logger.Error("notice not delivered", zap.String("to", req.To), zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "whatsapp rejected the message"})
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"to": req.To})
}
