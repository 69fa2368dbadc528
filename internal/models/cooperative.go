package models

import "time"

// Cooperative represents a member cooperative of the union
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (snake_case)
type Cooperative struct {
	ID                  string   `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Name                string   `gorm:"not null" json:"name"`
	Location            string   `json:"location,omitempty"`
	GpsLat              *float64 `json:"gps_lat,omitempty"`
	GpsLng              *float64 `json:"gps_lng,omitempty"`
	ManagerName         string   `json:"manager_name,omitempty"`
	CertificationNumber string   `json:"certification_number,omitempty"`
	PhotoURL            string   `json:"photo_url,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for Cooperative model
func (Cooperative) TableName() string {
	return "cooperatives"
}
