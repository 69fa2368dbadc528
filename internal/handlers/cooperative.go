package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/biovolailles/bvugo/internal/models"
	"github.com/gorilla/mux"
)

// listCooperatives returns all cooperatives, newest first
func (r *Router) listCooperatives(w http.ResponseWriter, req *http.Request) {
	var coops []models.Cooperative
	if err := r.db.Order("created_at DESC").Find(&coops).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch cooperatives")
		return
	}
	respondJSON(w, http.StatusOK, coops)
}

// getCooperative returns a single cooperative by ID
func (r *Router) getCooperative(w http.ResponseWriter, req *http.Request) {
	var coop models.Cooperative
	if err := r.db.First(&coop, "id = ?", mux.Vars(req)["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Cooperative not found")
		return
	}
	respondJSON(w, http.StatusOK, coop)
}

// createCooperative registers a new member cooperative
func (r *Router) createCooperative(w http.ResponseWriter, req *http.Request) {
	var coop models.Cooperative
	if err := json.NewDecoder(req.Body).Decode(&coop); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if coop.Name == "" {
		respondError(w, http.StatusBadRequest, "Name is required")
		return
	}

	if err := r.db.Create(&coop).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create cooperative")
		return
	}
	respondJSON(w, http.StatusCreated, coop)
}

// updateCooperative updates descriptive fields; identity is immutable
func (r *Router) updateCooperative(w http.ResponseWriter, req *http.Request) {
	var coop models.Cooperative
	if err := r.db.First(&coop, "id = ?", mux.Vars(req)["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Cooperative not found")
		return
	}

	id := coop.ID
	if err := json.NewDecoder(req.Body).Decode(&coop); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	coop.ID = id

	if err := r.db.Save(&coop).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update cooperative")
		return
	}
	respondJSON(w, http.StatusOK, coop)
}
