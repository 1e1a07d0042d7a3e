package controllers

import (
	"net/http"

	"github.com/vanzaam/LibreOOPWeb/internal/runtime"
	readingsvc "github.com/vanzaam/LibreOOPWeb/internal/services/readings"
)

// GeneralController handles health and liveness endpoints.
type GeneralController struct {
	rt  *runtime.Runtime
	svc *readingsvc.Service
}

// NewGeneralController creates a new general controller.
func NewGeneralController(rt *runtime.Runtime, svc *readingsvc.Service) *GeneralController {
	return &GeneralController{rt: rt, svc: svc}
}

// RegisterRoutes registers general routes with the given mux.
//
// - GET /v1/healthz  process and storage health
// - GET /v1/uptime   worker liveness derived from its last fetch
func (c *GeneralController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/healthz", c.handleHealth)
	mux.HandleFunc("/v1/uptime", c.handleUptime)
}

// handleHealth returns 200 with {"status":"ok"} when storage is reachable,
// 503 otherwise.
func (c *GeneralController) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := c.rt.CheckHealth(r.Context()); err != nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"status":"not_serving"}`))
		return
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

// handleUptime reports whether the algorithm worker has fetched recently.
// With ?upordown=true the body is the bare word "up" or "down" for dumb
// external monitors; otherwise the full liveness record is returned in the
// standard envelope.
func (c *GeneralController) handleUptime(w http.ResponseWriter, r *http.Request) {
	const command = "Uptime"
	lv, err := c.svc.Liveness(r.Context())
	if err != nil {
		writeFailure(w, command, err)
		return
	}
	if parseBool(r.FormValue("upordown")) {
		w.Header().Set("Content-Type", "text/plain")
		if lv.Up {
			_, _ = w.Write([]byte("up"))
		} else {
			_, _ = w.Write([]byte("down"))
		}
		return
	}
	writeSuccess(w, command, "", lv)
}
