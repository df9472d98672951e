package migrations

import (
	"slices"

	"gorm.io/gorm"
)

// migration002Up creates all tables using GORM AutoMigrate
func migration002Up(db *gorm.DB) error {
	return db.AutoMigrate(AllModels()...)
}

// migration002Down drops the join tables and then the models in reverse order
func migration002Down(db *gorm.DB) error {
	for _, table := range joinTables {
		if err := db.Migrator().DropTable(table); err != nil {
			return err
		}
	}

	models := AllModels()
	slices.Reverse(models)
	for _, model := range models {
		if err := db.Migrator().DropTable(model); err != nil {
			return err
		}
	}
	return nil
}
