package trace

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/biovolailles/bvugo/internal/models"
)

// NotAvailable marks provenance fields the chain has no data for
const NotAvailable = "n/a"

// accountingTimeout bounds the detached bookkeeping writes
const accountingTimeout = 10 * time.Second

// Provenance is the denormalized view behind one trace page: the full
// cooperative -> herd -> production -> batch chain for a reference.
type Provenance struct {
	BatchRef    string            `json:"batch_ref"`
	SourceKind  models.SourceKind `json:"source_kind"`
	Cooperative CooperativeView   `json:"cooperative"`
	Source      SourceView        `json:"source"`
	Production  ProductionView    `json:"production"`
	Batch       BatchView         `json:"batch"`
	ScanCount   int64             `json:"scan_count"`
}

// CooperativeView carries the cooperative identity shown on the trace page
type CooperativeView struct {
	Name                string   `json:"name"`
	Location            string   `json:"location,omitempty"`
	GpsLat              *float64 `json:"gps_lat,omitempty"`
	GpsLng              *float64 `json:"gps_lng,omitempty"`
	CertificationNumber string   `json:"certification_number,omitempty"`
	PhotoURL            string   `json:"photo_url,omitempty"`
}

// SourceView describes the herd the batch came from
type SourceView struct {
	Breed         string `json:"breed"`
	AnimalType    string `json:"animal_type,omitempty"`
	ArrivalDate   string `json:"arrival_date,omitempty"`
	FeedType      string `json:"feed_type"`
	BreedPhotoURL string `json:"breed_photo_url,omitempty"`
}

// ProductionView surfaces the most recent collection for the flock.
// For livestock sources, or flocks without logs, fields fall back to the
// herd's own feed type or the NotAvailable marker.
type ProductionView struct {
	CollectionDate string `json:"collection_date"`
	FeedType       string `json:"feed_type"`
	VetCheckPassed bool   `json:"vet_check_passed"`
	HasLog         bool   `json:"has_log"`
}

// BatchView carries the packaging facts
type BatchView struct {
	QuantityEggs int    `json:"quantity_eggs"`
	Grade        string `json:"grade,omitempty"`
	PackageDate  string `json:"package_date"`
	ExpiryDate   string `json:"expiry_date,omitempty"`
	OnssaNumber  string `json:"onssa_number,omitempty"`
}

// ScanOrigin is optional metadata recorded with each scan
type ScanOrigin struct {
	IPAddress string
	Region    string
}

// Resolver turns a batch reference into a full provenance chain and
// accounts for each successful public view.
type Resolver struct {
	store Store
}

// NewResolver creates a Resolver over the given store
func NewResolver(store Store) *Resolver {
	return &Resolver{store: store}
}

// Resolve looks up a reference and assembles its provenance chain.
// An empty or unknown reference returns ErrBatchNotFound and performs no
// side effects. On a hit, both accounting writes are dispatched without
// being awaited: the viewer never waits on bookkeeping.
func (r *Resolver) Resolve(ctx context.Context, ref string, origin ScanOrigin) (*Provenance, error) {
	if ref == "" {
		// Malformed route, same outcome as an unknown reference
		return nil, ErrBatchNotFound
	}

	batch, err := r.store.PackagingBatchByRef(ctx, ref)
	if err != nil {
		return nil, err
	}

	kind, _, err := batch.Source()
	if err != nil {
		return nil, fmt.Errorf("batch %s: %w", ref, err)
	}

	view := &Provenance{
		BatchRef:   batch.BatchRef,
		SourceKind: kind,
		ScanCount:  batch.ScanCount,
		Batch: BatchView{
			QuantityEggs: batch.QuantityEggs,
			Grade:        batch.Grade,
			PackageDate:  dateString(batch.PackageDate),
		},
	}
	if batch.ExpiryDate != nil {
		view.Batch.ExpiryDate = dateString(*batch.ExpiryDate)
	}
	view.Batch.OnssaNumber = batch.OnssaNumber

	var coop *models.Cooperative
	sourceFeed := ""

	switch kind {
	case models.SourceFlock:
		flock := batch.Flock
		if flock == nil {
			return nil, fmt.Errorf("batch %s: flock row missing", ref)
		}
		coop = flock.Cooperative
		sourceFeed = flock.FeedType
		view.Source = SourceView{
			Breed:         flock.Breed,
			ArrivalDate:   dateString(flock.ArrivalDate),
			FeedType:      fallback(flock.FeedType, NotAvailable),
			BreedPhotoURL: flock.BreedPhotoURL,
		}
		view.Production, err = r.productionView(ctx, flock.ID, sourceFeed, batch.PackageDate)
		if err != nil {
			return nil, err
		}

	case models.SourceLivestock:
		herd := batch.Livestock
		if herd == nil {
			return nil, fmt.Errorf("batch %s: livestock row missing", ref)
		}
		coop = herd.Cooperative
		sourceFeed = herd.FeedType
		view.Source = SourceView{
			Breed:       herd.Breed,
			AnimalType:  herd.AnimalType,
			ArrivalDate: dateString(herd.ArrivalDate),
			FeedType:    fallback(herd.FeedType, NotAvailable),
		}
		// Production logs are flock-only; livestock falls back directly.
		view.Production = ProductionView{
			CollectionDate: dateString(batch.PackageDate),
			FeedType:       fallback(sourceFeed, NotAvailable),
		}
	}

	if coop != nil {
		view.Cooperative = CooperativeView{
			Name:                coop.Name,
			Location:            coop.Location,
			GpsLat:              coop.GpsLat,
			GpsLng:              coop.GpsLng,
			CertificationNumber: coop.CertificationNumber,
			PhotoURL:            coop.PhotoURL,
		}
	}

	r.account(ctx, ref, origin)

	return view, nil
}

// productionView fetches the latest log for a flock and applies fallbacks
func (r *Resolver) productionView(ctx context.Context, flockID, sourceFeed string, packageDate time.Time) (ProductionView, error) {
	logRow, err := r.store.LatestProductionLog(ctx, flockID)
	if err != nil {
		return ProductionView{}, err
	}
	if logRow == nil {
		return ProductionView{
			CollectionDate: dateString(packageDate),
			FeedType:       fallback(sourceFeed, NotAvailable),
		}, nil
	}
	return ProductionView{
		CollectionDate: dateString(logRow.CollectionDate),
		FeedType:       fallback(logRow.FeedType, fallback(sourceFeed, NotAvailable)),
		VetCheckPassed: logRow.VetCheckPassed,
		HasLog:         true,
	}, nil
}

// account dispatches both bookkeeping writes fire-and-forget. They run on
// a context detached from the request: a navigating viewer abandoning the
// page must not cancel an in-flight count. Failures are logged and
// absorbed, never surfaced, so the counter and the log can drift.
func (r *Resolver) account(ctx context.Context, ref string, origin ScanOrigin) {
	detached := context.WithoutCancel(ctx)

	go func() {
		ctx, cancel := context.WithTimeout(detached, accountingTimeout)
		defer cancel()
		scan := &models.ScanLog{
			BatchRef:  ref,
			IPAddress: origin.IPAddress,
			Region:    origin.Region,
		}
		if err := r.store.InsertScanLog(ctx, scan); err != nil {
			log.Printf("⚠️  Scan log write failed for %s: %v", ref, err)
		}
	}()

	go func() {
		ctx, cancel := context.WithTimeout(detached, accountingTimeout)
		defer cancel()
		if _, err := r.store.IncrementScanCount(ctx, ref); err != nil {
			log.Printf("⚠️  Scan count increment failed for %s: %v", ref, err)
		}
	}()
}

func dateString(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

func fallback(value, marker string) string {
	if value == "" {
		return marker
	}
	return value
}
