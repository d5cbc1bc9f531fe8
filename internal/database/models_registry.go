package database

import "filmorate/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Genre{},
		&models.Film{},
		&models.Like{},
		&models.Friendship{},
	}
}
