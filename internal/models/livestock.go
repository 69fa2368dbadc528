package models

import "time"

// Animal type classifications for meat herds
const (
	AnimalBovine  = "bovine"
	AnimalOvine   = "ovine"
	AnimalCaprine = "caprine"
)

// Livestock represents a meat-animal herd owned by one cooperative
type Livestock struct {
	ID            string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	CooperativeID string    `gorm:"type:uuid;not null;index" json:"cooperative_id"`
	AnimalType    string    `gorm:"type:varchar(20);not null" json:"animal_type"`
	Breed         string    `gorm:"not null" json:"breed"`
	Quantity      int       `gorm:"default:0" json:"quantity"`
	WeightAvgKg   *float64  `json:"weight_avg_kg,omitempty"`
	FeedType      string    `json:"feed_type,omitempty"`
	ArrivalDate   time.Time `gorm:"type:date" json:"arrival_date"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Cooperative *Cooperative `gorm:"foreignKey:CooperativeID" json:"cooperative,omitempty"`
}

// TableName specifies the table name for Livestock model
func (Livestock) TableName() string {
	return "livestock"
}

// ValidAnimalType reports whether t is a recognized herd classification
func ValidAnimalType(t string) bool {
	return t == AnimalBovine || t == AnimalOvine || t == AnimalCaprine
}
