package app

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all endpoints. Everything except login and logout requires a session.
func RegisterRoutes(r *mux.Router, deps *Dependencies) {

	// Session
	r.HandleFunc("/login", deps.AccessHandler.Login).Methods("POST")
	r.HandleFunc("/logout", deps.AccessHandler.Logout).Methods("POST")

	protected := r.NewRoute().Subrouter()
	protected.Use(deps.AccessHandler.Middleware)

	protected.HandleFunc("/api/session", deps.AccessHandler.Current).Methods("GET")

	// Adjustment table
	protected.HandleFunc("/api/data", deps.AdjustmentHandler.Table).Methods("GET", "POST")
	protected.HandleFunc("/data", deps.AdjustmentHandler.Table).Methods("GET", "POST")

	// Export
	protected.HandleFunc("/api/export", deps.ExportHandler.Download).Methods("GET")
	protected.HandleFunc("/download_excel", deps.ExportHandler.Download).Methods("GET")
}
