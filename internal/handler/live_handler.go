package handler

import (
	"notefiber-todo/internal/pkg/logger"
	"notefiber-todo/internal/pkg/serverutils"
	internalWS "notefiber-todo/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

type LiveHandler struct {
	hub    *internalWS.Hub
	tokens *serverutils.TokenIssuer
	logger logger.ILogger
}

func NewLiveHandler(hub *internalWS.Hub, tokens *serverutils.TokenIssuer, log logger.ILogger) *LiveHandler {
	return &LiveHandler{
		hub:    hub,
		tokens: tokens,
		logger: log,
	}
}

func (h *LiveHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/live", h.ServeWs)
}

// ServeWs authenticates the handshake, then hands the connection to the hub.
// Browsers cannot set headers on WebSocket requests, so the token may come as ?token=.
func (h *LiveHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := serverutils.BearerToken(c)
	if tokenStr == "" {
		return fiber.NewError(fiber.StatusUnauthorized, "Missing token (Query 'token' or Header 'Authorization')")
	}

	userID, err := h.tokens.Parse(tokenStr)
	if err != nil {
		h.logger.Warn("LiveHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err.Error()})
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}

	return websocket.New(func(conn *websocket.Conn) {
		h.serve(conn, userID)
	})(c)
}

func (h *LiveHandler) serve(conn *websocket.Conn, userID uuid.UUID) {
	h.logger.Info("LiveHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
	internalWS.ServeWs(h.hub, conn, userID)
	h.logger.Info("LiveHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
}
