package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/bikehub/bikehub-backend/internal/services"
)

// WebSocketHandler upgrades the connection and registers the client with
// the hub.
func WebSocketHandler(hub *services.Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetUint("userId")
		role := c.GetString("userRole")

		services.HandleWebSocket(hub, c.Writer, c.Request, userID, role)
	}
}
