package model

import (
	"github.com/google/uuid"
)

// Roles. Role checks are plain string comparisons against this closed set.
const (
	RoleEmployee  = "employee"
	RoleAdmin     = "admin"
	RoleSecretary = "secretary"
	RoleCaterer   = "caterer"
)

// Sites the cafeteria serves. Menus and orders are always scoped to one site.
const (
	SiteDanga  = "Danga"
	SiteCampus = "Campus"
)

// Sites lists every valid site, in display order.
var Sites = []string{SiteDanga, SiteCampus}

// Departments selectable at registration.
var Departments = []string{
	"Development", "Human Resources", "Accounting", "Marketing",
	"Data", "Cybersecurity", "Infrastructure", "Secretariat", "Other",
}

// User stores an employee record used by every other component for identity
// and authorization. Email is unique among non-deleted users (partial index,
// see infra.NewDatabase).
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	FirstName    string    `gorm:"not null"`
	LastName     string    `gorm:"not null"`
	Email        string    `gorm:"index;not null"`
	PasswordHash string    `gorm:"not null"`
	Role         string    `gorm:"type:varchar(20);not null;default:'employee'"`
	Site         string    `gorm:"type:varchar(50);not null;default:'Danga'"`
	Department   string    `gorm:"type:varchar(50);not null;default:'Other'"`
	DarkTheme    bool      `gorm:"not null;default:false"`

	Audit
}

// ValidRole reports whether r belongs to the closed role set.
func ValidRole(r string) bool {
	switch r {
	case RoleEmployee, RoleAdmin, RoleSecretary, RoleCaterer:
		return true
	}
	return false
}

// ValidSite reports whether s is a known cafeteria site.
func ValidSite(s string) bool {
	for _, site := range Sites {
		if s == site {
			return true
		}
	}
	return false
}

// FullName is used in notification emails and caterer sheets.
func (u *User) FullName() string { return u.FirstName + " " + u.LastName }
