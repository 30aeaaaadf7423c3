package service

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/mapper"
	"phone-store-be/internal/pkg/logger"
	"phone-store-be/pkg/ai/router"
)

// IAssistantService defines the shopping assistant service interface
type IAssistantService interface {
	SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error)
	GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error)
	EndSession(ctx context.Context, sessionId string) error
}

type assistantService struct {
	router *router.Router
	mapper *mapper.AssistantMapper
	logger logger.ILogger
}

func NewAssistantService(r *router.Router, log logger.ILogger) IAssistantService {
	return &assistantService{
		router: r,
		mapper: mapper.NewAssistantMapper(),
		logger: log,
	}
}

// SendChat resolves one turn. A request without a session id starts a new session.
func (s *assistantService) SendChat(ctx context.Context, request *dto.SendChatRequest) (*dto.SendChatResponse, error) {
	sessionId := request.SessionId
	if sessionId == "" {
		sessionId = uuid.NewString()
	}

	result, err := s.router.Resolve(ctx, sessionId, request.Message)
	if err != nil {
		s.logger.Error("ASSISTANT", "turn failed", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return nil, err
	}

	s.logger.Info("ASSISTANT", "turn resolved", map[string]interface{}{
		"session_id": sessionId,
		"intent":     result.Intent,
		"decision":   result.Decision,
		"strategy":   result.Strategy,
		"matched":    len(result.MatchedProducts),
		"generated":  result.Generated,
	})
	return s.mapper.ToSendChatResponse(sessionId, result), nil
}

func (s *assistantService) GetSession(ctx context.Context, sessionId string) (*dto.SessionResponse, error) {
	c, found, err := s.router.Context(ctx, sessionId)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return s.mapper.ToSessionResponse(c), nil
}

func (s *assistantService) EndSession(ctx context.Context, sessionId string) error {
	if err := s.router.EndSession(ctx, sessionId); err != nil {
		return err
	}
	s.logger.Info("ASSISTANT", "session ended", map[string]interface{}{"session_id": sessionId})
	return nil
}
