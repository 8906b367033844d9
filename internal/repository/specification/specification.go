package specification

import "gorm.io/gorm"

// Specification narrows or orders a query.
type Specification interface {
	Apply(db *gorm.DB) *gorm.DB
}

// Chain applies specs in the order given.
func Chain(db *gorm.DB, specs ...Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}
