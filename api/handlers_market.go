package api

import (
	"net/http"
)

// handleMarket returns the current market snapshot for an asset. A provider
// failure yields an empty snapshot, not an error.
func (s *Server) handleMarket(w http.ResponseWriter, r *http.Request) {
	asset := r.PathValue("asset")

	snap := s.market.GetPrice(r.Context(), asset)
	writeJSON(w, http.StatusOK, snap)
}
