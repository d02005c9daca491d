package db

import (
	"gorm.io/gorm"
)

// NotDeleted filters out soft-deleted rows in queries that bypass the model
// callbacks, such as Table() or raw Count() chains.
func NotDeleted() func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("deleted_at IS NULL")
	}
}

// Paginate applies limit/offset for a 1-based page and page size.
func Paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * pageSize).Limit(pageSize)
	}
}
