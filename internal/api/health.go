package api

import (
	"net/http"

	"career-counselling/internal/store"
)

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Career Counselling API is running!"})
}

// handleHealthDB always answers 200; the body says whether the database is
// reachable.
func (h *Handler) handleHealthDB(w http.ResponseWriter, r *http.Request) {
	if h.store.Mode() == store.ModeMemory {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"connected": false,
			"message":   "DB not initialized (using in-memory).",
		})
		return
	}

	if err := h.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"connected": false,
			"message":   "DB connection attempt failed",
			"error":     err.Error(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"connected": true})
}
