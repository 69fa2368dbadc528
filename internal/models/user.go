package models

import (
	"time"

	"gorm.io/gorm"
)

// Staff roles, mirrored in JWT claims
const (
	RoleSuperAdmin           = "super_admin"
	RoleCooperativeManager   = "cooperative_manager"
	RoleHatcheryTech         = "hatchery_tech"
	RoleConditioningOperator = "conditioning_operator"
	RoleAbattoirOperator     = "abattoir_operator"
)

// UserAuth represents a staff account in the system
type UserAuth struct {
	ID            string  `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	Email         string  `gorm:"unique;not null" json:"email"`
	Password      string  `gorm:"not null" json:"-"`
	FullName      string  `json:"full_name,omitempty"`
	Approved      bool    `gorm:"default:false" json:"approved"`
	CooperativeID *string `gorm:"type:uuid;index" json:"cooperative_id,omitempty"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Cooperative *Cooperative `gorm:"foreignKey:CooperativeID" json:"cooperative,omitempty"`
	Roles       []UserRole   `gorm:"foreignKey:UserID" json:"roles,omitempty"`
}

// TableName specifies the table name for UserAuth model
func (UserAuth) TableName() string {
	return "user_auths"
}

// RoleNames flattens the role rows into plain role strings
func (u *UserAuth) RoleNames() []string {
	names := make([]string, 0, len(u.Roles))
	for _, r := range u.Roles {
		names = append(names, r.Role)
	}
	return names
}

// HasRole reports whether the user carries the given role
func (u *UserAuth) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r.Role == role {
			return true
		}
	}
	return false
}

// UserRole assigns one role to one user
type UserRole struct {
	ID     string `gorm:"primaryKey;type:uuid;default:gen_random_uuid()" json:"id"`
	UserID string `gorm:"type:uuid;not null;index:idx_user_role,unique" json:"user_id"`
	Role   string `gorm:"type:varchar(40);not null;index:idx_user_role,unique" json:"role"`
}

// TableName specifies the table name for UserRole model
func (UserRole) TableName() string {
	return "user_roles"
}

// ValidRole reports whether role is one of the defined staff roles
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleCooperativeManager, RoleHatcheryTech,
		RoleConditioningOperator, RoleAbattoirOperator:
		return true
	}
	return false
}
