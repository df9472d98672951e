package migrations

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/gravadigital/orbitview-api/internal/logger"
)

// Migration represents a database migration
type Migration struct {
	ID   string
	Name string
	Up   func(*gorm.DB) error
	Down func(*gorm.DB) error
}

// GetMigrations returns all available migrations in order
func GetMigrations() []Migration {
	return []Migration{
		{
			ID:   "001",
			Name: "enable_extensions",
			Up:   migration001Up,
			Down: migration001Down,
		},
		{
			ID:   "002",
			Name: "create_core_tables",
			Up:   migration002Up,
			Down: migration002Down,
		},
		{
			ID:   "003",
			Name: "create_indexes",
			Up:   migration003Up,
			Down: migration003Down,
		},
		{
			ID:   "004",
			Name: "create_constraints_and_triggers",
			Up:   migration004Up,
			Down: migration004Down,
		},
		{
			ID:   "005",
			Name: "create_reporting_views",
			Up:   migration005Up,
			Down: migration005Down,
		},
		{
			ID:   "006",
			Name: "seed_skill_catalog",
			Up:   migration006Up,
			Down: migration006Down,
		},
	}
}

// RunMigrations applies every pending migration, each in its own transaction
func RunMigrations(db *gorm.DB) error {
	log := logger.Migration()

	pending, err := Pending(db)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		log.Info("Schema is up to date")
		return nil
	}

	for _, m := range pending {
		log.Info("Running migration", "id", m.ID, "name", m.Name)

		err := db.Transaction(func(tx *gorm.DB) error {
			if err := m.Up(tx); err != nil {
				return fmt.Errorf("failed to run migration %s: %w", m.ID, err)
			}
			return tx.Exec("INSERT INTO schema_migrations (id, name) VALUES (?, ?)", m.ID, m.Name).Error
		})
		if err != nil {
			return err
		}

		log.Info("Successfully applied migration", "id", m.ID)
	}

	log.Info("All migrations completed successfully", "applied", len(pending))
	return nil
}

func createMigrationsTable(db *gorm.DB) error {
	return db.Exec(`
        CREATE TABLE IF NOT EXISTS schema_migrations (
            id VARCHAR(10) PRIMARY KEY,
            name VARCHAR(255) NOT NULL,
            applied_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `).Error
}

// AppliedMigration is a row of schema_migrations
type AppliedMigration struct {
	ID        string
	Name      string
	AppliedAt time.Time
}

// Applied lists the migrations recorded in schema_migrations, oldest first
func Applied(db *gorm.DB) ([]AppliedMigration, error) {
	if err := createMigrationsTable(db); err != nil {
		return nil, fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []AppliedMigration
	err := db.Raw("SELECT id, name, applied_at FROM schema_migrations ORDER BY id").Scan(&applied).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list applied migrations: %w", err)
	}
	return applied, nil
}

// Pending returns the migrations not yet recorded, in order
func Pending(db *gorm.DB) ([]Migration, error) {
	applied, err := Applied(db)
	if err != nil {
		return nil, err
	}

	done := make(map[string]bool, len(applied))
	for _, a := range applied {
		done[a.ID] = true
	}

	var pending []Migration
	for _, m := range GetMigrations() {
		if !done[m.ID] {
			pending = append(pending, m)
		}
	}
	return pending, nil
}

// RollbackMigration reverts the most recently applied migration
func RollbackMigration(db *gorm.DB) error {
	log := logger.Migration()

	applied, err := Applied(db)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return fmt.Errorf("no migrations to rollback")
	}
	last := applied[len(applied)-1]

	var target *Migration
	for _, m := range GetMigrations() {
		if m.ID == last.ID {
			target = &m
			break
		}
	}
	if target == nil {
		return fmt.Errorf("migration %s not found", last.ID)
	}

	log.Info("Rolling back migration", "id", target.ID, "name", target.Name)

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := target.Down(tx); err != nil {
			return fmt.Errorf("failed to rollback migration %s: %w", target.ID, err)
		}
		return tx.Exec("DELETE FROM schema_migrations WHERE id = ?", target.ID).Error
	})
	if err != nil {
		return err
	}

	log.Info("Successfully rolled back migration", "id", target.ID)
	return nil
}
