package websocket

import (
	"context"

	"neurobridge-be/internal/pkg/logger"
	"neurobridge-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// CloseAuthFailure is sent before closing a connection whose token did not
// validate. Distinct from the normal close codes so clients know not to
// retry with the same token.
const CloseAuthFailure = 4001

type StreamHandler struct {
	hub     *Hub
	gateway *Gateway
	tokens  service.ITokenService
	logger  logger.ILogger
}

func NewStreamHandler(hub *Hub, gateway *Gateway, tokens service.ITokenService, log logger.ILogger) *StreamHandler {
	return &StreamHandler{
		hub:     hub,
		gateway: gateway,
		tokens:  tokens,
		logger:  log,
	}
}

func (h *StreamHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws", h.ServeWs())
}

// ServeWs upgrades the connection and authenticates it. The token rides the
// query string because browsers cannot set headers on websocket upgrades.
// Authentication happens exactly once here; no frame after the upgrade
// carries credentials.
func (h *StreamHandler) ServeWs() fiber.Handler {
	upgrade := websocket.New(func(conn *websocket.Conn) {
		token := conn.Query("token")

		user, err := h.tokens.Validate(context.Background(), token)
		if err != nil {
			h.logger.Warn("StreamHandler", "Rejected connection", map[string]interface{}{
				"reason": err.Error(),
			})
			conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(CloseAuthFailure, "authentication failed"))
			conn.Close()
			return
		}

		client := NewClient(h.hub, conn, user, h.gateway)

		// Queue the greeting before joining so it beats any concurrent
		// fan-out from the user's other devices.
		h.gateway.Established(client)
		h.hub.Join(client)

		go client.writePump()
		client.readPump()
	})

	return func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return upgrade(c)
		}
		return fiber.ErrUpgradeRequired
	}
}
