package handlers

import (
	"net/http"

	"github.com/biovolailles/bvugo/internal/models"
)

// dashboardStats returns the entity counts shown on the staff dashboard
func (r *Router) dashboardStats(w http.ResponseWriter, req *http.Request) {
	var cooperatives, flocks, packaging, slaughter, scans int64

	counts := []struct {
		model interface{}
		dst   *int64
	}{
		{&models.Cooperative{}, &cooperatives},
		{&models.Flock{}, &flocks},
		{&models.PackagingBatch{}, &packaging},
		{&models.SlaughterBatch{}, &slaughter},
		{&models.ScanLog{}, &scans},
	}
	for _, c := range counts {
		if err := r.db.Model(c.model).Count(c.dst).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to fetch dashboard stats")
			return
		}
	}

	respondJSON(w, http.StatusOK, map[string]int64{
		"cooperatives":      cooperatives,
		"flocks":            flocks,
		"packaging_batches": packaging,
		"slaughter_batches": slaughter,
		"total_scans":       scans,
	})
}
