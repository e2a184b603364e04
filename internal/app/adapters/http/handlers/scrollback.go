package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ircbridge/internal/app/ports"
)

// Scrollback resolves the storage key through the live registry, so
// history is only readable for connections that are currently up.
func (h *Handlers) Scrollback(c *gin.Context) {
	id := c.Query("connectionId")
	target := c.Query("target")
	if id == "" || target == "" {
		badRequest(c, "connectionId and target are required")
		return
	}

	limit := h.manager.Get().Storage.ScrollbackLimit
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			badRequest(c, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	key, err := h.registry.StorageKey(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	messages, err := h.scrollback.ReadLast(key, target, limit)
	if err != nil {
		h.log.Error("failed to read scrollback", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if messages == nil {
		messages = []ports.ChatMessage{}
	}
	c.JSON(http.StatusOK, gin.H{"messages": messages})
}
