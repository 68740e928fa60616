package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const DefaultTimeout = 12 * time.Second

var ErrEmptyMessage = errors.New("message is required")

// UpstreamError is a non-2xx reply from the AI service
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("ai service returned %d: %s", e.Status, e.Message)
}

// Service forwards chat messages to the AI service when one is configured and
// answers locally when it cannot be reached.
type Service struct {
	agent   *Agent
	baseURL string
	timeout time.Duration
	logger  logrus.FieldLogger
}

func NewService(agent *Agent, baseURL string, timeout time.Duration, logger logrus.FieldLogger) *Service {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Service{
		agent:   agent,
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.WithField("service", "chat"),
	}
}

func (s *Service) Chat(ctx context.Context, message string) (*Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	if s.baseURL != "" {
		reply, err := s.forward(message)
		if err == nil {
			return reply, nil
		}
		var upstream *UpstreamError
		if errors.As(err, &upstream) {
			return nil, err
		}
		s.logger.WithError(err).Warn("ai proxy unavailable, answering locally")
	}
	return s.agent.HandleChat(ctx, message)
}

type upstreamReply struct {
	SessionID string          `json:"session_id"`
	Response  json.RawMessage `json:"response"`
	Detail    string          `json:"detail"`
}

func (s *Service) forward(message string) (*Reply, error) {
	agent := fiber.Post(s.baseURL + "/api/chat")
	agent.JSON(fiber.Map{"message": message})
	agent.Timeout(s.timeout)
	if err := agent.Parse(); err != nil {
		return nil, fmt.Errorf("prepare ai request: %w", err)
	}

	status, body, errs := agent.Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("call ai service: %w", errs[0])
	}

	var payload upstreamReply
	decodeErr := json.Unmarshal(body, &payload)
	if status < 200 || status >= 300 {
		msg := payload.Detail
		if msg == "" {
			msg = "AI service error"
		}
		return nil, &UpstreamError{Status: status, Message: msg}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode ai reply: %w", decodeErr)
	}

	return &Reply{
		Type:      ReplyAI,
		SessionID: payload.SessionID,
		Response:  payload.Response,
	}, nil
}
