package scope

import "gorm.io/gorm"

// OrderByCreatedAsc lists oldest first, so new tasks land at the bottom.
func OrderByCreatedAsc(db *gorm.DB) *gorm.DB {
	return db.Order("created_at ASC")
}

// OrderByTabPosition sorts notebooks by sort_order; created_at keeps ties stable.
func OrderByTabPosition(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("created_at ASC")
}
