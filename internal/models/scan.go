package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ScanLog is an append-only record of one public trace view.
// Rows are only ever inserted from the traceability path, never updated.
type ScanLog struct {
	ID        string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	BatchRef  string    `gorm:"not null;index" json:"batch_ref"`
	ScannedAt time.Time `gorm:"autoCreateTime" json:"scanned_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	Region    string    `json:"region,omitempty"`
}

// BeforeCreate assigns the row ID so inserts work the same with or
// without a pgcrypto default on the column.
func (s *ScanLog) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for ScanLog model
func (ScanLog) TableName() string {
	return "scan_logs"
}
