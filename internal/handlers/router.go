package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/biovolailles/bvugo/internal/buildinfo"
	"github.com/biovolailles/bvugo/internal/config"
	"github.com/biovolailles/bvugo/internal/database"
	"github.com/biovolailles/bvugo/internal/middleware"
	"github.com/biovolailles/bvugo/internal/models"
	"github.com/biovolailles/bvugo/internal/trace"
	"github.com/gorilla/mux"
)

// TraceResolver resolves a batch reference into a provenance chain
type TraceResolver interface {
	Resolve(ctx context.Context, ref string, origin trace.ScanOrigin) (*trace.Provenance, error)
}

// Router wraps the mux router, database and trace resolver
type Router struct {
	*mux.Router
	db       *database.DB
	cfg      *config.Config
	resolver TraceResolver
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config) *Router {
	r := &Router{
		Router:   mux.NewRouter(),
		db:       db,
		cfg:      cfg,
		resolver: trace.NewResolver(trace.NewStore(db)),
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.HandleFunc("/api/status", r.getStatus).Methods("GET")

	// Public traceability routes (no auth, by design)
	r.HandleFunc("/trace/{batchRef}", r.traceBatch).Methods("GET")
	r.HandleFunc("/trace/{batchRef}/qr", r.traceQR).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/register", r.register).Methods("POST")
	auth.HandleFunc("/logout", r.logout).Methods("POST")

	// Staff API (JWT protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/dashboard/stats", r.dashboardStats).Methods("GET")

	api.HandleFunc("/cooperatives", r.listCooperatives).Methods("GET")
	api.HandleFunc("/cooperatives", r.requireRoles(r.createCooperative)).Methods("POST")
	api.HandleFunc("/cooperatives/{id}", r.getCooperative).Methods("GET")
	api.HandleFunc("/cooperatives/{id}", r.requireRoles(r.updateCooperative)).Methods("PUT")

	api.HandleFunc("/flocks", r.listFlocks).Methods("GET")
	api.HandleFunc("/flocks", r.requireRoles(r.createFlock, models.RoleCooperativeManager)).Methods("POST")
	api.HandleFunc("/flocks/{id}", r.getFlock).Methods("GET")

	api.HandleFunc("/livestock", r.listLivestock).Methods("GET")
	api.HandleFunc("/livestock", r.requireRoles(r.createLivestock, models.RoleCooperativeManager)).Methods("POST")

	api.HandleFunc("/production-logs", r.listProductionLogs).Methods("GET")
	api.HandleFunc("/production-logs", r.requireRoles(r.createProductionLog, models.RoleHatcheryTech)).Methods("POST")

	api.HandleFunc("/incubation-batches", r.listIncubationBatches).Methods("GET")
	api.HandleFunc("/incubation-batches", r.requireRoles(r.createIncubationBatch, models.RoleHatcheryTech)).Methods("POST")

	api.HandleFunc("/packaging-batches", r.listPackagingBatches).Methods("GET")
	api.HandleFunc("/packaging-batches", r.requireRoles(r.createPackagingBatch, models.RoleConditioningOperator)).Methods("POST")
	api.HandleFunc("/packaging-batches/{id}", r.getPackagingBatch).Methods("GET")
	api.HandleFunc("/packaging-batches/{id}", r.requireRoles(r.updatePackagingBatch, models.RoleConditioningOperator)).Methods("PUT")
	api.HandleFunc("/packaging-batches/{id}/certificate", r.packagingCertificate).Methods("GET")

	api.HandleFunc("/slaughter-batches", r.listSlaughterBatches).Methods("GET")
	api.HandleFunc("/slaughter-batches", r.requireRoles(r.createSlaughterBatch, models.RoleAbattoirOperator)).Methods("POST")

	// Admin routes (super_admin only)
	api.HandleFunc("/admin/users", r.requireRoles(r.listUsers)).Methods("GET")
	api.HandleFunc("/admin/users/{id}/approval", r.requireRoles(r.setUserApproval)).Methods("PUT")
	api.HandleFunc("/admin/users/{id}/role", r.requireRoles(r.setUserRole)).Methods("PUT")
	api.HandleFunc("/admin/users/{id}/cooperative", r.requireRoles(r.setUserCooperative)).Methods("PUT")

	return r
}

// requireRoles gates a handler on account approval plus at least one of
// the given roles. Super admins pass every gate, so an empty role list
// means super_admin only.
func (r *Router) requireRoles(h http.HandlerFunc, roles ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if !middleware.Approved(req) {
			respondError(w, http.StatusForbidden, "Account pending approval")
			return
		}
		if !middleware.HasRole(req, roles...) {
			respondError(w, http.StatusForbidden, "Insufficient role")
			return
		}
		h(w, req)
	}
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// getStatus returns build and uptime information
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":     "running",
		"commit":     buildinfo.CommitHash,
		"built_at":   buildinfo.BuildTime,
		"started_at": buildinfo.StartTime,
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
