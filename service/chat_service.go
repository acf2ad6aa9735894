package service

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"agriassist.app/errors"
	"agriassist.app/metrics"
	"agriassist.app/models"
	"agriassist.app/providers"
	"agriassist.app/ratelimit"
)

const (
	maxMessageLength = 1000
	historyWindow    = 5
)

// ChatService orders each exchange as validate → rate limit → provider.
// Validation failures never consume rate-limit budget, and a denied request
// never reaches the upstream adapter.
type ChatService struct {
	provider providers.ChatProvider
	limiter  *ratelimit.FixedWindowLimiter
}

func NewChatService(provider providers.ChatProvider, limiter *ratelimit.FixedWindowLimiter) *ChatService {
	return &ChatService{
		provider: provider,
		limiter:  limiter,
	}
}

// Chat validates the message, checks the client's fixed window, assembles
// the conversation window and returns the assistant reply.
func (s *ChatService) Chat(clientID string, req *models.ChatRequest) (*models.ChatResponse, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, errors.NewValidationError("message cannot be empty")
	}
	if len([]rune(message)) > maxMessageLength {
		return nil, errors.NewValidationError("message cannot exceed 1000 characters")
	}

	if !s.limiter.Allow(clientID) {
		metrics.RecordRateLimitDenial()
		slog.Info("chat rate limit denied", "client", clientID)
		return nil, errors.NewRateLimitError("hourly chat limit reached, please try again later")
	}

	turns := buildConversationWindow(req.Conversation, message)

	reply, err := s.provider.Complete(turns)
	if err != nil {
		slog.Error("chat provider error", "error", err, "client", clientID)
		return nil, err
	}

	return &models.ChatResponse{
		Response:       reply,
		ConversationID: uuid.New().String(),
		Timestamp:      time.Now(),
	}, nil
}

// buildConversationWindow keeps the last historyWindow prior turns (user and
// assistant only) and appends the current user message.
func buildConversationWindow(history []models.ChatTurn, message string) []models.ChatTurn {
	prior := make([]models.ChatTurn, 0, historyWindow)
	for _, turn := range history {
		if turn.Role != models.RoleUser && turn.Role != models.RoleAssistant {
			continue
		}
		if strings.TrimSpace(turn.Content) == "" {
			continue
		}
		prior = append(prior, turn)
	}

	if len(prior) > historyWindow {
		prior = prior[len(prior)-historyWindow:]
	}

	return append(prior, models.ChatTurn{
		Role:    models.RoleUser,
		Content: message,
	})
}
