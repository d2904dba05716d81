package models

import "gorm.io/gorm"

const RoleAdmin = "admin"

// User is a dashboard account. Only the admin role may enter /admin routes.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Role         string `gorm:"default:''" json:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
