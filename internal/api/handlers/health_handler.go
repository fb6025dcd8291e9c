package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HealthHandler reports store counters and host utilization.
type HealthHandler struct {
	db *sql.DB
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(db *sql.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// HealthStatus is the response body for the health endpoint.
type HealthStatus struct {
	Status         string  `json:"status"`
	Users          int64   `json:"users"`
	Tweets         int64   `json:"tweets"`
	CPUPercent     float64 `json:"cpuPercent"`
	MemUsedPercent float64 `json:"memUsedPercent"`
}

// Get handles the health/stats request.
func (h *HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	status := HealthStatus{Status: "ok"}

	if err := h.db.QueryRow("SELECT COUNT(*) FROM users").Scan(&status.Users); err != nil {
		log.Error().Err(err).Msg("Failed to count users")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	if err := h.db.QueryRow("SELECT COUNT(*) FROM tweets").Scan(&status.Tweets); err != nil {
		log.Error().Err(err).Msg("Failed to count tweets")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	// Host stats are best-effort; a sampling failure should not fail the check.
	if percents, err := cpu.Percent(0, false); err == nil && len(percents) > 0 {
		status.CPUPercent = percents[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		status.MemUsedPercent = vm.UsedPercent
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(status)
}
