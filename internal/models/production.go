package models

import "time"

// ProductionLog records one egg collection for a flock
type ProductionLog struct {
	ID             string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	FlockID        string    `gorm:"type:uuid;not null;index" json:"flock_id"`
	CollectionDate time.Time `gorm:"type:date;index" json:"collection_date"`
	FeedType       string    `json:"feed_type,omitempty"`
	VetCheckPassed bool      `gorm:"default:false" json:"vet_check_passed"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Flock *Flock `gorm:"foreignKey:FlockID" json:"flock,omitempty"`
}

// TableName specifies the table name for ProductionLog model
func (ProductionLog) TableName() string {
	return "production_logs"
}

// IncubationBatch records one hatchery run for a flock
type IncubationBatch struct {
	ID           string    `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	FlockID      string    `gorm:"type:uuid;not null;index" json:"flock_id"`
	HatchDate    time.Time `gorm:"type:date" json:"hatch_date"`
	PoussinCount *int      `json:"poussin_count,omitempty"`
	HatchRate    *float64  `json:"hatch_rate,omitempty"`

	CreatedAt time.Time `json:"created_at"`

	// Relations
	Flock *Flock `gorm:"foreignKey:FlockID" json:"flock,omitempty"`
}

// TableName specifies the table name for IncubationBatch model
func (IncubationBatch) TableName() string {
	return "incubation_batches"
}
