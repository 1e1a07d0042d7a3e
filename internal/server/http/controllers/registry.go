package controllers

import (
	"net/http"

	"github.com/vanzaam/LibreOOPWeb/internal/runtime"
	readingsvc "github.com/vanzaam/LibreOOPWeb/internal/services/readings"
)

// ControllerRegistry manages all HTTP controllers.
//
// It provides a centralized way to register all controller routes
// and manages the lifecycle of individual controllers.
type ControllerRegistry struct {
	general  *GeneralController
	readings *ReadingsController
	admin    *AdminController
}

// NewControllerRegistry creates a new controller registry.
func NewControllerRegistry(rt *runtime.Runtime, svc *readingsvc.Service) *ControllerRegistry {
	return &ControllerRegistry{
		general:  NewGeneralController(rt, svc),
		readings: NewReadingsController(svc),
		admin:    NewAdminController(svc),
	}
}

// RegisterAllRoutes registers all controller routes with the given mux.
func (r *ControllerRegistry) RegisterAllRoutes(mux *http.ServeMux) {
	r.general.RegisterRoutes(mux)
	r.readings.RegisterRoutes(mux)
	r.admin.RegisterRoutes(mux)
}
