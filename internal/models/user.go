package models

// UserRole distinguishes end users from catalog administrators.
type UserRole string

const (
	RoleUser  UserRole = "USER"
	RoleAdmin UserRole = "ADMIN"
)

// User represents a registered account.
type User struct {
	Base
	Email            string   `gorm:"uniqueIndex;not null" json:"email"`
	Password         string   `gorm:"not null" json:"-"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	Role             UserRole `gorm:"not null;default:'USER'" json:"role"`
	IsActive         bool     `gorm:"default:true" json:"is_active"`
	RefreshTokenHash string   `gorm:"size:64" json:"-"`
}
