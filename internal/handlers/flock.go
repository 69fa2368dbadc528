package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/biovolailles/bvugo/internal/models"
	"github.com/gorilla/mux"
)

// listFlocks returns all flocks with their cooperative, newest first
func (r *Router) listFlocks(w http.ResponseWriter, req *http.Request) {
	var flocks []models.Flock
	if err := r.db.Preload("Cooperative").Order("created_at DESC").Find(&flocks).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch flocks")
		return
	}
	respondJSON(w, http.StatusOK, flocks)
}

// getFlock returns a single flock by ID
func (r *Router) getFlock(w http.ResponseWriter, req *http.Request) {
	var flock models.Flock
	if err := r.db.Preload("Cooperative").First(&flock, "id = ?", mux.Vars(req)["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Flock not found")
		return
	}
	respondJSON(w, http.StatusOK, flock)
}

// createFlock registers a new laying flock for a cooperative
func (r *Router) createFlock(w http.ResponseWriter, req *http.Request) {
	var flock models.Flock
	if err := json.NewDecoder(req.Body).Decode(&flock); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if flock.CooperativeID == "" || flock.Breed == "" {
		respondError(w, http.StatusBadRequest, "Cooperative and breed are required")
		return
	}

	if err := r.db.Create(&flock).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to create flock")
		return
	}
	respondJSON(w, http.StatusCreated, flock)
}
