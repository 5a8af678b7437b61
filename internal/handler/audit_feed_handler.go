package handler

import (
	"os"

	"aftercare-ai-be/internal/pkg/logger"
	internalWS "aftercare-ai-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// AuditFeedHandler upgrades staff console connections onto the live
// audit-event feed.
type AuditFeedHandler struct {
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewAuditFeedHandler(hub *internalWS.Hub, log logger.ILogger) *AuditFeedHandler {
	return &AuditFeedHandler{
		hub:    hub,
		logger: log,
	}
}

// ServeWs handles websocket requests from staff consoles.
func (h *AuditFeedHandler) ServeWs(c *fiber.Ctx) error {
	// 1. Get Token source
	// Priority 1: Query Param (Browser standard)
	tokenStr := c.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	// 2. Parse JWT with the same secret the auth middleware uses
	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("AuditFeedHandler", "Invalid Token in WS Handshake", map[string]interface{}{"error": err})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	// 3. Which conversation to watch; empty means all of them
	watchSession := c.Query("session")

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("AuditFeedHandler", "Starting audit feed session", map[string]interface{}{"watch": watchSession})
			internalWS.ServeWs(h.hub, conn, watchSession)
			h.logger.Info("AuditFeedHandler", "Audit feed session ended", map[string]interface{}{"watch": watchSession})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}

// RegisterRoutes registers the audit feed routes.
func (h *AuditFeedHandler) RegisterRoutes(router fiber.Router) {
	router.Get("/ws/audit", h.ServeWs)
}
