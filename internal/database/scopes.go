package database

import (
	"gorm.io/gorm"
)

// Paginate applies page-based pagination to a GORM query. Non-positive
// values leave the query unpaginated.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page <= 0 || pageSize <= 0 {
			return db
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}

// ScopedToOrganization filters a query to one tenant. Every repository read
// and write goes through this so records never leak across organizations.
func ScopedToOrganization(organization string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("organization = ?", organization)
	}
}
