package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/biovolailles/bvugo/internal/models"
)

// listLivestock returns all meat herds with their cooperative
func (r *Router) listLivestock(w http.ResponseWriter, req *http.Request) {
	var herds []models.Livestock
	if err := r.db.Preload("Cooperative").Order("created_at DESC").Find(&herds).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch livestock")
		return
	}
	respondJSON(w, http.StatusOK, herds)
}

// createLivestock registers a new meat herd for a cooperative
func (r *Router) createLivestock(w http.ResponseWriter, req *http.Request) {
	var herd models.Livestock
	if err := json.NewDecoder(req.Body).Decode(&herd); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if herd.CooperativeID == "" || herd.Breed == "" {
		respondError(w, http.StatusBadRequest, "Cooperative and breed are required")
		return
	}
	if !models.ValidAnimalType(herd.AnimalType) {
		respondError(w, http.StatusBadRequest, "Animal type must be bovine, ovine or caprine")
		return
	}

	if err := r.db.Create(&herd).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create livestock")
		return
	}
	respondJSON(w, http.StatusCreated, herd)
}
