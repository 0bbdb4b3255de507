package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	apperrors "github.com/mithunreddyy/valuva-sub002/internal/errors"
	"github.com/mithunreddyy/valuva-sub002/internal/middleware"
	ws "github.com/mithunreddyy/valuva-sub002/internal/websocket"
)

// FeedController upgrades admin dashboards onto the live order feed
type FeedController struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
}

// NewFeedController accepts handshakes only from allowedOrigins. A "*" entry
// allows any origin.
func NewFeedController(hub *ws.Hub, allowedOrigins []string) *FeedController {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	return &FeedController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origins["*"] || origins[origin]
			},
		},
	}
}

// Connect joins the hub. Browsers cannot set headers on a websocket
// handshake, so the access token may come in the token query parameter.
// GET /api/v1/admin/feed
func (ctrl *FeedController) Connect(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)
	userID, ok := requireUserID(c)
	if !ok {
		return
	}
	if !websocket.IsWebSocketUpgrade(c.Request) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "websocket upgrade required")
		return
	}

	conn, err := ctrl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn("WebSocket upgrade failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return
	}

	client := ws.NewClient(ctrl.hub, ws.WrapConn(conn), userID)
	ctrl.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}

// GET /api/v1/admin/feed/stats
func (ctrl *FeedController) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connected_clients": ctrl.hub.ConnectedClients()})
}
