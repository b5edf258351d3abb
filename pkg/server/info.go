package server

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/denysvitali/ftptube-go/internal/models"
)

// handleAlive handles the health check endpoint
func (s *Server) handleAlive(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// handleServerInfo reports uptime, the live session count and process resources
func (s *Server) handleServerInfo(c *gin.Context) {
	sessions, err := s.store.Len(c.Request.Context())
	if err != nil {
		s.logger.Warnf("Failed to count sessions: %v", err)
		sessions = -1
	}

	c.JSON(http.StatusOK, models.ServerInfoResponse{
		StartTime:      s.startTime,
		Uptime:         time.Since(s.startTime).Seconds(),
		SessionBackend: s.config.Session.Backend,
		Sessions:       sessions,
		Resources:      s.processStats(),
	})
}

// processStats returns resource usage of this process using gopsutil
func (s *Server) processStats() models.ProcessStats {
	stats := models.ProcessStats{
		CPUCount:     runtime.NumCPU(),
		NumGoroutine: runtime.NumGoroutine(),
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		s.logger.Warnf("Failed to get process info: %v", err)
		return stats
	}

	if cpuPercent, err := proc.CPUPercent(); err != nil {
		s.logger.Warnf("Failed to get CPU percent: %v", err)
	} else {
		stats.CPUPercent = cpuPercent
	}

	if memInfo, err := proc.MemoryInfo(); err != nil {
		s.logger.Warnf("Failed to get memory info: %v", err)
	} else {
		stats.MemoryRSS = memInfo.RSS
		stats.MemoryVMS = memInfo.VMS
	}

	if memPercent, err := proc.MemoryPercent(); err != nil {
		s.logger.Warnf("Failed to get memory percent: %v", err)
	} else {
		stats.MemoryPercent = memPercent
	}

	return stats
}
