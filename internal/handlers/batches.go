package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/biovolailles/bvugo/internal/models"
	"github.com/biovolailles/bvugo/internal/utils"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// refRetryLimit bounds reference regeneration on unique-index collisions.
// The 4-digit sequence space makes birthday collisions possible within a
// year; the DB constraint is the authority and we retry around it.
const refRetryLimit = 5

// CreatePackagingBatchRequest mirrors the packaging form
type CreatePackagingBatchRequest struct {
	SourceType   string `json:"source_type"` // flock | livestock
	SourceID     string `json:"source_id"`
	QuantityEggs int    `json:"quantity_eggs"`
	Grade        string `json:"grade"`
	PackageDate  string `json:"package_date"` // YYYY-MM-DD, defaults to today
	ExpiryDate   string `json:"expiry_date"`
	OnssaNumber  string `json:"onssa_number"`
}

// CreateSlaughterBatchRequest mirrors the abattoir form
type CreateSlaughterBatchRequest struct {
	SourceType    string  `json:"source_type"`
	SourceID      string  `json:"source_id"`
	QuantityBirds int     `json:"quantity_birds"`
	TotalKg       float64 `json:"total_kg"`
	SlaughterDate string  `json:"slaughter_date"`
}

// listPackagingBatches returns all packaging runs with source and cooperative
func (r *Router) listPackagingBatches(w http.ResponseWriter, req *http.Request) {
	var batches []models.PackagingBatch
	err := r.db.
		Preload("Flock.Cooperative").
		Preload("Livestock.Cooperative").
		Order("created_at DESC").
		Find(&batches).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch packaging batches")
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

// getPackagingBatch returns a single packaging batch by ID
func (r *Router) getPackagingBatch(w http.ResponseWriter, req *http.Request) {
	var batch models.PackagingBatch
	err := r.db.
		Preload("Flock.Cooperative").
		Preload("Livestock.Cooperative").
		First(&batch, "id = ?", mux.Vars(req)["id"]).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Packaging batch not found")
		return
	}
	respondJSON(w, http.StatusOK, batch)
}

// createPackagingBatch registers a packaging run. The batch reference and
// trace QR URL are generated here; reference and source never change after
// this point.
func (r *Router) createPackagingBatch(w http.ResponseWriter, req *http.Request) {
	var body CreatePackagingBatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	flockID, livestockID, err := sourceIDs(body.SourceType, body.SourceID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	packageDate, err := parseDate(body.PackageDate, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid package_date")
		return
	}
	var expiry *time.Time
	if body.ExpiryDate != "" {
		d, err := parseDate(body.ExpiryDate, time.Time{})
		if err != nil {
			respondError(w, http.StatusBadRequest, "Invalid expiry_date")
			return
		}
		expiry = &d
	}

	batch := models.PackagingBatch{
		FlockID:      flockID,
		LivestockID:  livestockID,
		QuantityEggs: body.QuantityEggs,
		Grade:        body.Grade,
		PackageDate:  packageDate,
		ExpiryDate:   expiry,
		OnssaNumber:  body.OnssaNumber,
	}

	if err := createWithRef(func() error {
		return r.db.Create(&batch).Error
	}, func(ref string) {
		batch.BatchRef = ref
		batch.QrCodeURL = utils.TraceURL(r.cfg.PublicOrigin, ref)
	}); err != nil {
		respondBatchCreateError(w, err, "packaging batch")
		return
	}

	respondJSON(w, http.StatusCreated, batch)
}

// UpdatePackagingBatchRequest carries the fields that may change after
// creation. The reference and source herd are fixed for the batch's life.
type UpdatePackagingBatchRequest struct {
	BatchRef     *string `json:"batch_ref"`
	SourceType   *string `json:"source_type"`
	SourceID     *string `json:"source_id"`
	QuantityEggs *int    `json:"quantity_eggs"`
	Grade        *string `json:"grade"`
	ExpiryDate   *string `json:"expiry_date"`
	OnssaNumber  *string `json:"onssa_number"`
}

// updatePackagingBatch edits the mutable packaging facts. Attempts to
// change the batch reference or the source herd are refused outright.
func (r *Router) updatePackagingBatch(w http.ResponseWriter, req *http.Request) {
	var body UpdatePackagingBatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.BatchRef != nil || body.SourceType != nil || body.SourceID != nil {
		respondError(w, http.StatusUnprocessableEntity, "Batch reference and source are immutable")
		return
	}

	var batch models.PackagingBatch
	if err := r.db.First(&batch, "id = ?", mux.Vars(req)["id"]).Error; err != nil {
		respondError(w, http.StatusNotFound, "Packaging batch not found")
		return
	}

	updates := map[string]interface{}{}
	if body.QuantityEggs != nil {
		updates["quantity_eggs"] = *body.QuantityEggs
	}
	if body.Grade != nil {
		updates["grade"] = *body.Grade
	}
	if body.OnssaNumber != nil {
		updates["onssa_number"] = *body.OnssaNumber
	}
	if body.ExpiryDate != nil {
		if *body.ExpiryDate == "" {
			updates["expiry_date"] = nil
		} else {
			d, err := parseDate(*body.ExpiryDate, time.Time{})
			if err != nil {
				respondError(w, http.StatusBadRequest, "Invalid expiry_date")
				return
			}
			updates["expiry_date"] = d
		}
	}

	if len(updates) > 0 {
		if err := r.db.Model(&batch).Updates(updates).Error; err != nil {
			respondError(w, http.StatusInternalServerError, "Failed to update packaging batch")
			return
		}
	}

	respondJSON(w, http.StatusOK, batch)
}

// listSlaughterBatches returns all slaughter runs with source and cooperative
func (r *Router) listSlaughterBatches(w http.ResponseWriter, req *http.Request) {
	var batches []models.SlaughterBatch
	err := r.db.
		Preload("Flock.Cooperative").
		Preload("Livestock.Cooperative").
		Order("created_at DESC").
		Find(&batches).Error
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch slaughter batches")
		return
	}
	respondJSON(w, http.StatusOK, batches)
}

// createSlaughterBatch registers a slaughter run. Slaughter batches carry
// references and QR codes but do not resolve through the public trace
// route.
func (r *Router) createSlaughterBatch(w http.ResponseWriter, req *http.Request) {
	var body CreateSlaughterBatchRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	flockID, livestockID, err := sourceIDs(body.SourceType, body.SourceID)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	slaughterDate, err := parseDate(body.SlaughterDate, time.Now())
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid slaughter_date")
		return
	}

	batch := models.SlaughterBatch{
		FlockID:       flockID,
		LivestockID:   livestockID,
		QuantityBirds: body.QuantityBirds,
		TotalKg:       body.TotalKg,
		SlaughterDate: slaughterDate,
	}

	if err := createWithRef(func() error {
		return r.db.Create(&batch).Error
	}, func(ref string) {
		batch.BatchRef = ref
		batch.QrCodeURL = utils.TraceURL(r.cfg.PublicOrigin, ref)
	}); err != nil {
		respondBatchCreateError(w, err, "slaughter batch")
		return
	}

	respondJSON(w, http.StatusCreated, batch)
}

// createWithRef runs the insert with a fresh reference, regenerating on a
// duplicate-key error up to refRetryLimit times. Any other error aborts
// the loop unchanged.
func createWithRef(create func() error, assign func(ref string)) error {
	var err error
	for attempt := 0; attempt < refRetryLimit; attempt++ {
		assign(utils.GenerateBatchRef())
		err = create()
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// respondBatchCreateError maps an insert failure to the caller's actual
// problem. Only reference exhaustion is a conflict; a bad source herd is
// the caller's input, everything else is ours.
func respondBatchCreateError(w http.ResponseWriter, err error, entity string) {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		respondError(w, http.StatusConflict, "Could not allocate a unique batch reference")
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		respondError(w, http.StatusBadRequest, "Source herd not found")
	default:
		respondError(w, http.StatusInternalServerError, "Failed to create "+entity)
	}
}

// sourceIDs maps the tagged source of a creation request onto the
// mutually exclusive foreign key pair
func sourceIDs(sourceType, sourceID string) (flockID, livestockID *string, err error) {
	if sourceID == "" {
		return nil, nil, errors.New("source_id is required")
	}
	switch sourceType {
	case string(models.SourceFlock):
		return &sourceID, nil, nil
	case string(models.SourceLivestock):
		return nil, &sourceID, nil
	default:
		return nil, nil, errors.New("source_type must be flock or livestock")
	}
}

// parseDate parses YYYY-MM-DD, returning def when the value is empty
func parseDate(value string, def time.Time) (time.Time, error) {
	if value == "" {
		return def, nil
	}
	return time.Parse("2006-01-02", value)
}
