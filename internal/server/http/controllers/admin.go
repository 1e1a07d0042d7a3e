package controllers

import (
	"net/http"

	readingsvc "github.com/vanzaam/LibreOOPWeb/internal/services/readings"
)

// AdminController handles the maintenance and inspection endpoints. Both
// are gated by the processing capability.
type AdminController struct {
	svc *readingsvc.Service
}

// NewAdminController creates a new admin controller.
func NewAdminController(svc *readingsvc.Service) *AdminController {
	return &AdminController{svc: svc}
}

// RegisterRoutes registers admin routes with the given mux.
//
// - POST /v1/admin/purge-test-readings
// - GET  /v1/admin/readings
func (c *AdminController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/admin/purge-test-readings", c.handlePurge)
	mux.HandleFunc("/v1/admin/readings", c.handleList)
}

// handlePurge deletes every sentinel test reading and reports the count.
func (c *AdminController) handlePurge(w http.ResponseWriter, r *http.Request) {
	const command = "PurgeTestReadings"
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, command)
		return
	}
	n, err := c.svc.PurgeTestData(r.Context(), callerToken(r))
	if err != nil {
		writeFailure(w, command, err)
		return
	}
	writeSuccess(w, command, "", map[string]int{"deleted": n})
}

// handleList returns readings matching an optional CEL filter expression.
//
// Form fields: filter (CEL, optional), limit (optional).
func (c *AdminController) handleList(w http.ResponseWriter, r *http.Request) {
	const command = "ListReadings"
	items, err := c.svc.ListReadings(r.Context(), callerToken(r),
		r.FormValue("filter"), parseLimit(r.FormValue("limit")))
	if err != nil {
		writeFailure(w, command, err)
		return
	}
	writeSuccess(w, command, "", items)
}
