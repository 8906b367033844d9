package model

// All lists every table owned by the service, in dependency order, for AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Account{},
		&Notebook{},
		&Task{},
		&ActivityLog{},
	}
}
