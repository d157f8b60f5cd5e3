package api

import (
	"net/http"
	"sort"

	"github.com/chatvault/chatvault/internal/api/respond"
	"github.com/chatvault/chatvault/internal/registry"
)

// JobsHandler exposes the set of channels with an archival job in flight.
type JobsHandler struct {
	reg *registry.Registry
}

func NewJobsHandler(reg *registry.Registry) *JobsHandler {
	return &JobsHandler{reg: reg}
}

// ListJobs handles GET /api/jobs
func (h *JobsHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	active := h.reg.Active()
	sort.Strings(active)
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"active": active,
		"count":  len(active),
	})
}
