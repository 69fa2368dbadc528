package models

import (
	"errors"
	"time"
)

// SourceKind tags which herd variant a batch was produced from.
// Exactly one of the two foreign keys is set on any batch row; the
// resolver branches on this tag, never on null-checking both fields.
type SourceKind string

const (
	SourceFlock     SourceKind = "flock"
	SourceLivestock SourceKind = "livestock"
)

var (
	// ErrNoSource means a batch row has neither flock_id nor livestock_id.
	ErrNoSource = errors.New("batch has no source herd")
	// ErrAmbiguousSource means a batch row has both foreign keys set.
	ErrAmbiguousSource = errors.New("batch references both flock and livestock")
)

func sourceKind(flockID, livestockID *string) (SourceKind, string, error) {
	switch {
	case flockID != nil && livestockID != nil:
		return "", "", ErrAmbiguousSource
	case flockID != nil:
		return SourceFlock, *flockID, nil
	case livestockID != nil:
		return SourceLivestock, *livestockID, nil
	default:
		return "", "", ErrNoSource
	}
}

// PackagingBatch represents one egg packaging run.
// BatchRef and the source foreign keys are immutable after creation.
type PackagingBatch struct {
	ID           string     `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	BatchRef     string     `gorm:"uniqueIndex;not null" json:"batch_ref"`
	FlockID      *string    `gorm:"type:uuid;index" json:"flock_id,omitempty"`
	LivestockID  *string    `gorm:"type:uuid;index" json:"livestock_id,omitempty"`
	QuantityEggs int        `gorm:"default:0" json:"quantity_eggs"`
	Grade        string     `json:"grade,omitempty"`
	PackageDate  time.Time  `gorm:"type:date" json:"package_date"`
	ExpiryDate   *time.Time `gorm:"type:date" json:"expiry_date,omitempty"`
	OnssaNumber  string     `json:"onssa_number,omitempty"`
	QrCodeURL    string     `json:"qr_code_url,omitempty"`
	ScanCount    int64      `gorm:"default:0" json:"scan_count"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Flock     *Flock     `gorm:"foreignKey:FlockID" json:"flock,omitempty"`
	Livestock *Livestock `gorm:"foreignKey:LivestockID" json:"livestock,omitempty"`
}

// TableName specifies the table name for PackagingBatch model
func (PackagingBatch) TableName() string {
	return "packaging_batches"
}

// Source returns the tagged source variant of the batch
func (b *PackagingBatch) Source() (SourceKind, string, error) {
	return sourceKind(b.FlockID, b.LivestockID)
}

// SlaughterBatch represents one slaughter run.
// Same immutability rule as PackagingBatch: reference and source are fixed.
type SlaughterBatch struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	BatchRef      string    `gorm:"uniqueIndex;not null" json:"batch_ref"`
	FlockID       *string   `gorm:"type:uuid;index" json:"flock_id,omitempty"`
	LivestockID   *string   `gorm:"type:uuid;index" json:"livestock_id,omitempty"`
	QuantityBirds int       `gorm:"default:0" json:"quantity_birds"`
	TotalKg       float64   `gorm:"default:0" json:"total_kg"`
	SlaughterDate time.Time `gorm:"type:date" json:"slaughter_date"`
	QrCodeURL     string    `json:"qr_code_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Flock     *Flock     `gorm:"foreignKey:FlockID" json:"flock,omitempty"`
	Livestock *Livestock `gorm:"foreignKey:LivestockID" json:"livestock,omitempty"`
}

// TableName specifies the table name for SlaughterBatch model
func (SlaughterBatch) TableName() string {
	return "slaughter_batches"
}

// Source returns the tagged source variant of the batch
func (b *SlaughterBatch) Source() (SourceKind, string, error) {
	return sourceKind(b.FlockID, b.LivestockID)
}
