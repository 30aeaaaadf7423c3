package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"phone-store-be/internal/dto"
	"phone-store-be/internal/pkg/logger"
	"phone-store-be/internal/service"
	internalWS "phone-store-be/internal/websocket"
)

// AssistantSocketHandler serves the chat over a websocket, one socket per browser tab
type AssistantSocketHandler struct {
	service service.IAssistantService
	hub     *internalWS.Hub
	logger  logger.ILogger
}

func NewAssistantSocketHandler(service service.IAssistantService, hub *internalWS.Hub, log logger.ILogger) *AssistantSocketHandler {
	return &AssistantSocketHandler{service: service, hub: hub, logger: log}
}

func (h *AssistantSocketHandler) RegisterRoutes(app fiber.Router) {
	ws := app.Group("/ws")
	ws.Use("/assistant", h.Upgrade)
	ws.Get("/assistant/:session", websocket.New(h.ServeWs))
}

// Upgrade rejects plain HTTP requests on the socket route
func (h *AssistantSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}

func (h *AssistantSocketHandler) ServeWs(conn *websocket.Conn) {
	sessionID := conn.Params("session")
	h.logger.Info("AssistantSocket", "Socket opened", map[string]interface{}{"session_id": sessionID})

	internalWS.ServeWs(h.hub, conn, sessionID, h.turn)

	h.logger.Info("AssistantSocket", "Socket closed", map[string]interface{}{"session_id": sessionID})
}

func (h *AssistantSocketHandler) turn(ctx context.Context, sessionID, message string) (interface{}, error) {
	return h.service.SendChat(ctx, &dto.SendChatRequest{SessionId: sessionID, Message: message})
}
