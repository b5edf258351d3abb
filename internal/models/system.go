package models

import "time"

// ProcessStats represents resource usage of the server process
type ProcessStats struct {
	CPUCount      int     `json:"cpu_count"`
	CPUPercent    float64 `json:"cpu_percent"`
	MemoryRSS     uint64  `json:"memory_rss"`     // Resident Set Size in bytes
	MemoryVMS     uint64  `json:"memory_vms"`     // Virtual Memory Size in bytes
	MemoryPercent float32 `json:"memory_percent"` // Share of host memory
	NumGoroutine  int     `json:"num_goroutine"`
}

// ServerInfoResponse represents the server info response
type ServerInfoResponse struct {
	StartTime      time.Time    `json:"start_time"`
	Uptime         float64      `json:"uptime"`
	SessionBackend string       `json:"session_backend"`
	Sessions       int          `json:"sessions"`
	Resources      ProcessStats `json:"resources"`
}
