// Package gateway - stats.go exposes aggregated metrics as JSON.
//
// GET /stats returns operational metrics and estimated upstream spend.
package gateway

import (
	"net/http"

	"github.com/hlai/ai-hub-gateway/internal/costcontrol"
	"github.com/hlai/ai-hub-gateway/internal/monitoring"
)

// StatsResponse is the JSON response for GET /stats.
type StatsResponse struct {
	monitoring.StatsResponse

	Cost struct {
		Enabled  bool                              `json:"enabled"`
		TotalUSD float64                           `json:"total_usd"`
		Clients  []costcontrol.ClientSpendSnapshot `json:"clients"`
	} `json:"cost"`
}

// handleStats returns aggregated metrics as JSON.
// Restricted to localhost to prevent external access to operational metrics.
func (g *Gateway) handleStats(w http.ResponseWriter, r *http.Request) {
	if !isLoopback(r.RemoteAddr) {
		writeJSON(w, http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
		return
	}

	var resp StatsResponse
	resp.StatsResponse = g.metrics.FullStats()
	resp.Cost.Enabled = g.costTracker.Enabled()
	resp.Cost.TotalUSD = g.costTracker.GetGlobalCost()
	resp.Cost.Clients = g.costTracker.AllClients()

	writeJSON(w, http.StatusOK, resp)
}
