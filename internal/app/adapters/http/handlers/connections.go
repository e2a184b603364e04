package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ircbridge/internal/app/ports"
)

type disconnectRequest struct {
	ConnectionID string `json:"connectionId" binding:"required"`
	Reason       string `json:"reason"`
}

type joinRequest struct {
	ConnectionID string `json:"connectionId" binding:"required"`
	Channel      string `json:"channel" binding:"required"`
}

type partRequest struct {
	ConnectionID string `json:"connectionId" binding:"required"`
	Channel      string `json:"channel" binding:"required"`
	Reason       string `json:"reason"`
}

type messageRequest struct {
	ConnectionID string `json:"connectionId" binding:"required"`
	Target       string `json:"target" binding:"required"`
	Message      string `json:"message" binding:"required"`
}

type topicRequest struct {
	ConnectionID string  `json:"connectionId" binding:"required"`
	Channel      string  `json:"channel" binding:"required"`
	Topic        *string `json:"topic"`
}

// Connect saves the profile, then either returns the already-live
// session for this identity or starts a fresh one. Dial failures are
// asynchronous and arrive as events, never on this response.
func (h *Handlers) Connect(c *gin.Context) {
	var cfg ports.ConnectionConfig
	if err := c.ShouldBindJSON(&cfg); err != nil {
		badRequest(c, err.Error())
		return
	}
	if cfg.Server == "" || cfg.Port == 0 || cfg.Nickname == "" {
		badRequest(c, "server, port and nickname are required")
		return
	}

	if err := h.profiles.Upsert(cfg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	id, ok := h.registry.FindByConfig(cfg)
	if !ok {
		id = h.registry.Connect(cfg)
	}
	c.JSON(http.StatusOK, gin.H{"connectionId": id})
}

func (h *Handlers) Disconnect(c *gin.Context) {
	var req disconnectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.commandDone(c, h.registry.Disconnect(req.ConnectionID, req.Reason))
}

func (h *Handlers) Join(c *gin.Context) {
	var req joinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.commandDone(c, h.registry.Join(req.ConnectionID, req.Channel))
}

func (h *Handlers) Part(c *gin.Context) {
	var req partRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.commandDone(c, h.registry.Part(req.ConnectionID, req.Channel, req.Reason))
}

func (h *Handlers) SendMessage(c *gin.Context) {
	var req messageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.commandDone(c, h.registry.Privmsg(req.ConnectionID, req.Target, req.Message))
}

// SetTopic with no topic field queries the current topic.
func (h *Handlers) SetTopic(c *gin.Context) {
	var req topicRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	h.commandDone(c, h.registry.SetTopic(req.ConnectionID, req.Channel, req.Topic))
}

func (h *Handlers) ListConnections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connections": h.registry.List()})
}

func (h *Handlers) SavedConnections(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"connections": h.profiles.List()})
}
