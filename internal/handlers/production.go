package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/biovolailles/bvugo/internal/models"
)

// listProductionLogs returns collection logs, optionally filtered by flock
func (r *Router) listProductionLogs(w http.ResponseWriter, req *http.Request) {
	query := r.db.Preload("Flock").Order("collection_date DESC, id DESC")
	if flockID := req.URL.Query().Get("flock_id"); flockID != "" {
		query = query.Where("flock_id = ?", flockID)
	}

	var logs []models.ProductionLog
	if err := query.Find(&logs).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch production logs")
		return
	}
	respondJSON(w, http.StatusOK, logs)
}

// createProductionLog records one egg collection for a flock
func (r *Router) createProductionLog(w http.ResponseWriter, req *http.Request) {
	var logRow models.ProductionLog
	if err := json.NewDecoder(req.Body).Decode(&logRow); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if logRow.FlockID == "" {
		respondError(w, http.StatusBadRequest, "Flock is required")
		return
	}

	if err := r.db.Create(&logRow).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create production log")
		return
	}
	respondJSON(w, http.StatusCreated, logRow)
}

// listIncubationBatches returns hatchery runs, newest first
func (r *Router) listIncubationBatches(w http.ResponseWriter, req *http.Request) {
	var batches []models.IncubationBatch
	if err := r.db.Preload("Flock").Order("hatch_date DESC").Find(&batches).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch incubation batches")
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

// createIncubationBatch records one hatchery run
func (r *Router) createIncubationBatch(w http.ResponseWriter, req *http.Request) {
	var batch models.IncubationBatch
	if err := json.NewDecoder(req.Body).Decode(&batch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if batch.FlockID == "" {
		respondError(w, http.StatusBadRequest, "Flock is required")
		return
	}

	if err := r.db.Create(&batch).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create incubation batch")
		return
	}
	respondJSON(w, http.StatusCreated, batch)
}
