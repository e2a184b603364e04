package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/cpu"
)

func (h *Handlers) Healthz(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	cpuPercent := 0.0
	if percent, err := cpu.Percent(0, false); err == nil && len(percent) > 0 {
		cpuPercent = percent[0]
	}

	c.JSON(http.StatusOK, gin.H{
		"status":      "ok",
		"uptime":      time.Since(h.startedAt).Truncate(time.Second).String(),
		"cpuPercent":  cpuPercent,
		"memSysMb":    m.Sys / 1024 / 1024,
		"goroutines":  runtime.NumGoroutine(),
		"connections": len(h.registry.List()),
	})
}
