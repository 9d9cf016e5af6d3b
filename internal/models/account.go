package models

import "time"

// Role values an Account may hold. The role is fixed at registration and
// never changes afterwards.
const (
	RoleDoctor  = "doctor"
	RolePatient = "patient"
)

// Account defines the structure for login credentials shared by both roles.
type Account struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"` // bcrypt hash
	Role      string    `json:"role" gorm:"index;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ValidRole reports whether role is one of the two supported roles.
func ValidRole(role string) bool {
	return role == RoleDoctor || role == RolePatient
}
