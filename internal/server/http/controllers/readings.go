package controllers

import (
	"net/http"

	"github.com/vanzaam/LibreOOPWeb/internal/reading"
	readingsvc "github.com/vanzaam/LibreOOPWeb/internal/services/readings"
)

// ReadingsController handles the uploader and worker endpoints.
type ReadingsController struct {
	svc *readingsvc.Service
}

// NewReadingsController creates a new readings controller.
func NewReadingsController(svc *readingsvc.Service) *ReadingsController {
	return &ReadingsController{svc: svc}
}

// RegisterRoutes registers reading routes with the given mux.
//
// Uploader endpoints:
// - POST /v1/readings/create
// - GET  /v1/readings/status
//
// Worker endpoints:
// - GET  /v1/readings/pending
// - POST /v1/readings/result
func (c *ReadingsController) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/readings/create", c.handleCreate)
	mux.HandleFunc("/v1/readings/status", c.handleStatus)
	mux.HandleFunc("/v1/readings/pending", c.handlePending)
	mux.HandleFunc("/v1/readings/result", c.handleResult)
}

// handleCreate stores a new sensor reading.
//
// Form fields: b64contents (required), and the optional advanced bundle
// oldState, sensorStartTimestamp, sensorScanTimestamp, currentUtcOffset,
// which must be supplied all together or not at all.
func (c *ReadingsController) handleCreate(w http.ResponseWriter, r *http.Request) {
	const command = "CreateReading"
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, command)
		return
	}
	adv := reading.Advanced{
		OldState:             r.FormValue("oldState"),
		SensorStartTimestamp: r.FormValue("sensorStartTimestamp"),
		SensorScanTimestamp:  r.FormValue("sensorScanTimestamp"),
		CurrentUtcOffset:     r.FormValue("currentUtcOffset"),
	}
	created, err := c.svc.Create(r.Context(), callerToken(r), r.FormValue("b64contents"), adv)
	if err != nil {
		writeFailure(w, command, err)
		return
	}
	writeSuccess(w, command, "reading stored", created)
}

// handleStatus returns the current record for a reading so the uploader can
// poll for its result.
func (c *ReadingsController) handleStatus(w http.ResponseWriter, r *http.Request) {
	const command = "ReadingStatus"
	got, err := c.svc.Status(r.Context(), callerToken(r), r.FormValue("uuid"))
	if err != nil {
		writeFailure(w, command, err)
		return
	}
	writeSuccess(w, command, "", got)
}

// handlePending hands pending readings to the algorithm worker.
func (c *ReadingsController) handlePending(w http.ResponseWriter, r *http.Request) {
	const command = "FetchPending"
	items, err := c.svc.FetchPending(r.Context(), callerToken(r), parseLimit(r.FormValue("limit")))
	if err != nil {
		writeFailure(w, command, err)
		return
	}
	writeSuccess(w, command, "", items)
}

// handleResult attaches a computed result to a reading.
//
// Form fields: uuid, result (required), newState (optional).
func (c *ReadingsController) handleResult(w http.ResponseWriter, r *http.Request) {
	const command = "UploadResult"
	if r.Method != http.MethodPost {
		writeMethodNotAllowed(w, command)
		return
	}
	modified, err := c.svc.UploadResult(r.Context(), callerToken(r),
		r.FormValue("uuid"), r.FormValue("result"), r.FormValue("newState"))
	if err != nil {
		writeFailure(w, command, err)
		return
	}
	writeSuccess(w, command, "", map[string]bool{"modified": modified})
}
