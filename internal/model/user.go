package model

import "time"

// Role enumerates the access levels the builder API assigns to accounts.
type Role string

const (
	// RoleAdmin manages every website and every account.
	RoleAdmin Role = "Admin"
	// RoleEditor creates websites and manages the ones it owns.
	RoleEditor Role = "Editor"
	// RoleViewer only reads websites.
	RoleViewer Role = "Viewer"
)

// AssignableRoles lists the roles accepted by the role assignment endpoint.
var AssignableRoles = []Role{RoleAdmin, RoleEditor, RoleViewer}

// Known reports whether the role is one the builder API defines.
func (role Role) Known() bool {
	switch role {
	case RoleAdmin, RoleEditor, RoleViewer:
		return true
	default:
		return false
	}
}

// User is an account row returned by the admin listing.
type User struct {
	ID        string  `json:"_id"`
	Email     string  `json:"email"`
	Role      Role    `json:"role"`
	CreatedAt *string `json:"created_at"`
	LastLogin *string `json:"last_login"`
}

// StoredValue is a single named entry of the local keyed store.
type StoredValue struct {
	Key       string    `gorm:"primaryKey;size:128"`
	Value     string    `gorm:"not null;size:8192"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}
