package scope

import "gorm.io/gorm"

// Permanently removes rows instead of stamping deleted_at.
func HardDelete(db *gorm.DB) *gorm.DB {
	return db.Unscoped()
}
