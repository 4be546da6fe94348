package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/dinopark/internal/config"
	"github.com/mamadbah2/dinopark/internal/domain/models"
	"github.com/mamadbah2/dinopark/internal/service/commands"
	client "github.com/mamadbah2/dinopark/pkg/clients/whatsapp"
)

const sendTimeout = 10 * time.Second

// ErrVerificationFailed is returned when Meta's webhook challenge does not match.
var ErrVerificationFailed = errors.New("webhook verification failed")

const helpMessage = "Supported: /add <species> <diet> <visitors>, /remove <species>, /find <species>, /top, /stats, /diets."

// MessagingService describes the operations the HTTP layer and scheduler perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	deliveries *deliveryLog
	logger     *zap.Logger
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		deliveries: newDeliveryLog(defaultDeliveryMemory),
		logger:     logger,
	}
}

// VerifyWebhookToken validates the callback verification token and echoes the challenge.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	switch {
	case mode == "" || verifyToken == "":
		return "", fmt.Errorf("missing mode or verify token: %w", ErrVerificationFailed)
	case !strings.EqualFold(mode, "subscribe"):
		return "", fmt.Errorf("unsupported hub.mode %s: %w", mode, ErrVerificationFailed)
	case verifyToken != s.cfg.VerifyToken:
		return "", fmt.Errorf("invalid verify token: %w", ErrVerificationFailed)
	}
	return challenge, nil
}

// HandleWebhook runs every inbound text message as a keeper command and
// replies to its sender. Redelivered messages are skipped and undelivered
// replies are only logged. The first command failure is returned after all
// messages ran.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if msg.Text == nil || strings.TrimSpace(msg.Text.Body) == "" {
		s.logger.Debug("ignoring non-text message", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	if msg.ID != "" && !s.deliveries.firstDelivery(msg.ID) {
		s.logger.Info("skipping redelivered message", zap.String("message_id", msg.ID))
		return nil
	}

	cmd := models.ParseCommand(msg.Text.Body)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	if err != nil {
		reply = replyForError(err)
		if reply == "" {
			return fmt.Errorf("handle %s command: %w", cmd.Type, err)
		}
	}

	if err := s.SendOutbound(ctx, models.OutboundMessageRequest{To: msg.From, Message: reply}); err != nil {
		s.logger.Warn("reply not delivered", zap.String("message_id", msg.ID), zap.Error(err))
	}
	return nil
}

// SendOutbound pushes a text message through the Cloud API.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	id, err := s.client.SendTextMessage(ctxWithTimeout, req.To, req.Message)
	if err != nil {
		return fmt.Errorf("send to %s: %w", req.To, err)
	}

	s.logger.Debug("message sent", zap.String("to", req.To), zap.String("message_id", id))
	return nil
}

// replyForError maps user mistakes to a help reply. Other errors yield "".
func replyForError(err error) string {
	switch {
	case errors.Is(err, commands.ErrInvalidArguments):
		return "Could not read that command. " + helpMessage
	case errors.Is(err, commands.ErrUnsupportedCommand):
		return "Unknown command. " + helpMessage
	default:
		return ""
	}
}
