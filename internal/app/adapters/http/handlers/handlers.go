package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"ircbridge/internal/app/adapters/events"
	"ircbridge/internal/app/infrastructure/config"
	"ircbridge/internal/app/ports"
	"ircbridge/pkg/logger"
)

type Handlers struct {
	log        logger.Logger
	manager    *config.Manager
	registry   ports.RegistryPort
	scrollback ports.ScrollbackPort
	profiles   ports.ProfilesPort
	hub        *events.Hub

	startedAt time.Time
}

func New(log logger.Logger, manager *config.Manager, registry ports.RegistryPort, scrollback ports.ScrollbackPort, profiles ports.ProfilesPort, hub *events.Hub) *Handlers {
	return &Handlers{
		log:        log,
		manager:    manager,
		registry:   registry,
		scrollback: scrollback,
		profiles:   profiles,
		hub:        hub,
		startedAt:  time.Now(),
	}
}

// WS subscribes the caller to the event stream.
func (h *Handlers) WS(c *gin.Context) {
	h.hub.ServeWS(c.Writer, c.Request)
}

// commandDone maps a routing-layer outcome onto a response: unknown
// ids are the caller's mistake, a closed inbox is a race with session
// death.
func (h *Handlers) commandDone(c *gin.Context, err error) {
	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case errors.Is(err, ports.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ports.ErrInboxClosed):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}
