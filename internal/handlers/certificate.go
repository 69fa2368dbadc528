package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/biovolailles/bvugo/internal/models"
	"github.com/biovolailles/bvugo/internal/services/printer"
	"github.com/biovolailles/bvugo/internal/utils"
	"github.com/gorilla/mux"
)

// packagingCertificate streams a printable PDF certificate for a batch
func (r *Router) packagingCertificate(w http.ResponseWriter, req *http.Request) {
	var batch models.PackagingBatch
	err := r.db.
		Preload("Flock.Cooperative").
		Preload("Livestock.Cooperative").
		First(&batch, "id = ?", mux.Vars(req)["id"]).Error
	if err != nil {
		respondError(w, http.StatusNotFound, "Packaging batch not found")
		return
	}

	data := printer.CertificateData{
		BatchRef:     batch.BatchRef,
		TraceURL:     utils.TraceURL(r.cfg.PublicOrigin, batch.BatchRef),
		Grade:        batch.Grade,
		QuantityEggs: batch.QuantityEggs,
		PackageDate:  batch.PackageDate.Format("2006-01-02"),
		OnssaNumber:  batch.OnssaNumber,
	}
	if batch.ExpiryDate != nil {
		data.ExpiryDate = batch.ExpiryDate.Format("2006-01-02")
	}

	switch kind, _, _ := batch.Source(); kind {
	case models.SourceFlock:
		if batch.Flock != nil {
			data.Breed = batch.Flock.Breed
			data.SourceLabel = "Lot d'élevage"
			if batch.Flock.Cooperative != nil {
				data.CooperativeName = batch.Flock.Cooperative.Name
				data.Location = batch.Flock.Cooperative.Location
				data.CertNumber = batch.Flock.Cooperative.CertificationNumber
			}
		}
	case models.SourceLivestock:
		if batch.Livestock != nil {
			data.Breed = batch.Livestock.Breed
			data.SourceLabel = fmt.Sprintf("Troupeau (%s)", batch.Livestock.AnimalType)
			if batch.Livestock.Cooperative != nil {
				data.CooperativeName = batch.Livestock.Cooperative.Name
				data.Location = batch.Livestock.Cooperative.Location
				data.CertNumber = batch.Livestock.Cooperative.CertificationNumber
			}
		}
	}

	pdfBytes, err := printer.GenerateCertificatePDF(data)
	if err != nil {
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to generate PDF: %v", err))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=\"certificate_%s.pdf\"", batch.BatchRef))
	w.Header().Set("Content-Length", strconv.Itoa(len(pdfBytes)))
	w.Write(pdfBytes)
}
