package models

import (
	"strings"

	"gorm.io/gorm"
)

// Roles assignable to catalog accounts. Editors can manage catalog content,
// admins additionally manage accounts.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"

	DefaultRole = RoleEditor
)

// User represents an account that can write to the catalog collections.
type User struct {
	gorm.Model
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Name         string
	Role         string `gorm:"type:varchar(16);default:editor"`
}

// ValidRole reports whether the supplied value is a recognized role.
func ValidRole(value string) bool {
	switch value {
	case RoleAdmin, RoleEditor:
		return true
	default:
		return false
	}
}

// NormalizeRole trims the supplied value and falls back to the default role
// when it is not recognized.
func NormalizeRole(value string) string {
	trimmed := strings.TrimSpace(value)
	if ValidRole(trimmed) {
		return trimmed
	}
	return DefaultRole
}
