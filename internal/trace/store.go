package trace

import (
	"context"
	"errors"
	"fmt"

	"github.com/biovolailles/bvugo/internal/database"
	"github.com/biovolailles/bvugo/internal/models"
	"gorm.io/gorm"
)

// Store is the persistence surface the resolver needs: one equality lookup
// with join expansion, one ordered read, an append, and an atomic increment.
type Store interface {
	// PackagingBatchByRef returns the batch with its source herd and
	// cooperative preloaded, or ErrBatchNotFound.
	PackagingBatchByRef(ctx context.Context, ref string) (*models.PackagingBatch, error)

	// LatestProductionLog returns the most recent log for a flock by
	// collection date, or nil when the flock has none.
	LatestProductionLog(ctx context.Context, flockID string) (*models.ProductionLog, error)

	// InsertScanLog appends one scan record
	InsertScanLog(ctx context.Context, scan *models.ScanLog) error

	// IncrementScanCount atomically bumps the batch scan counter
	// server-side and returns the updated value
	IncrementScanCount(ctx context.Context, ref string) (int64, error)
}

// ErrBatchNotFound signals that no packaging batch matches a reference
var ErrBatchNotFound = errors.New("batch not found")

type gormStore struct {
	db *database.DB
}

// NewStore builds the GORM-backed Store used in production
func NewStore(db *database.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) PackagingBatchByRef(ctx context.Context, ref string) (*models.PackagingBatch, error) {
	var batch models.PackagingBatch
	err := s.db.WithContext(ctx).
		Preload("Flock.Cooperative").
		Preload("Livestock.Cooperative").
		Where("batch_ref = ?", ref).
		First(&batch).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrBatchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("lookup batch %q: %w", ref, err)
	}
	return &batch, nil
}

func (s *gormStore) LatestProductionLog(ctx context.Context, flockID string) (*models.ProductionLog, error) {
	var logRow models.ProductionLog
	// Ties on collection_date break on id so repeated reads stay stable.
	err := s.db.WithContext(ctx).
		Where("flock_id = ?", flockID).
		Order("collection_date DESC, id DESC").
		First(&logRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest production log for flock %s: %w", flockID, err)
	}
	return &logRow, nil
}

func (s *gormStore) InsertScanLog(ctx context.Context, scan *models.ScanLog) error {
	return s.db.WithContext(ctx).Create(scan).Error
}

func (s *gormStore) IncrementScanCount(ctx context.Context, ref string) (int64, error) {
	// Single server-side increment; a read-modify-write from here would
	// lose updates under concurrent scans.
	var count int64
	err := s.db.WithContext(ctx).
		Raw("UPDATE packaging_batches SET scan_count = scan_count + 1 WHERE batch_ref = ? RETURNING scan_count", ref).
		Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("increment scan count for %q: %w", ref, err)
	}
	return count, nil
}
