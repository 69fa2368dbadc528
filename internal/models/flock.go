package models

import "time"

// Flock represents a laying flock owned by one cooperative
type Flock struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CooperativeID string    `gorm:"type:uuid;not null;index" json:"cooperative_id"`
	Breed         string    `gorm:"not null" json:"breed"`
	BreedPhotoURL string    `json:"breed_photo_url,omitempty"`
	ArrivalDate   time.Time `gorm:"type:date" json:"arrival_date"`
	QuantityHens  int       `gorm:"default:0" json:"quantity_hens"`
	QuantityMales int       `gorm:"default:0" json:"quantity_males"`
	FeedType      string    `json:"feed_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Cooperative *Cooperative `gorm:"foreignKey:CooperativeID" json:"cooperative,omitempty"`
}

// TableName specifies the table name for Flock model
func (Flock) TableName() string {
	return "flocks"
}
