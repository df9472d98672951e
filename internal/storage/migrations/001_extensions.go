package migrations

import "gorm.io/gorm"

// migration001Up enables the extensions used by later migrations
func migration001Up(db *gorm.DB) error {
	return db.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error
}

// migration001Down keeps uuid-ossp, other schemas may rely on it
func migration001Down(db *gorm.DB) error {
	return nil
}
