package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/biovolailles/bvugo/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// listUsers returns all staff accounts with roles and cooperative
func (r *Router) listUsers(w http.ResponseWriter, req *http.Request) {
	var users []models.UserAuth
	if err := r.db.Preload("Roles").Preload("Cooperative").Order("created_at DESC").Find(&users).Error; err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

// setUserApproval approves or suspends a staff account
func (r *Router) setUserApproval(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Approved bool `json:"approved"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	result := r.db.Model(&models.UserAuth{}).
		Where("id = ?", mux.Vars(req)["id"]).
		Update("approved", body.Approved)
	if result.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update approval")
		return
	}
	if result.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"approved": body.Approved})
}

// setUserRole replaces the user's role assignment
func (r *Router) setUserRole(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Role string `json:"role"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if !models.ValidRole(body.Role) {
		respondError(w, http.StatusBadRequest, "Unknown role")
		return
	}

	userID := mux.Vars(req)["id"]
	var user models.UserAuth
	if err := r.db.First(&user, "id = ?", userID).Error; err != nil {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	// One role per account in practice; replace rather than accumulate
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&models.UserRole{UserID: userID, Role: body.Role}).Error
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to update role")
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"role": body.Role})
}

// setUserCooperative assigns a user to a cooperative
func (r *Router) setUserCooperative(w http.ResponseWriter, req *http.Request) {
	var body struct {
		CooperativeID *string `json:"cooperative_id"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	if body.CooperativeID != nil {
		var coop models.Cooperative
		if err := r.db.First(&coop, "id = ?", *body.CooperativeID).Error; err != nil {
			respondError(w, http.StatusBadRequest, "Cooperative not found")
			return
		}
	}

	result := r.db.Model(&models.UserAuth{}).
		Where("id = ?", mux.Vars(req)["id"]).
		Update("cooperative_id", body.CooperativeID)
	if result.Error != nil {
		respondError(w, http.StatusInternalServerError, "Failed to assign cooperative")
		return
	}
	if result.RowsAffected == 0 {
		respondError(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"cooperative_id": body.CooperativeID})
}
