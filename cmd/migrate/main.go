package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gravadigital/orbitview-api/internal/config"
	"github.com/gravadigital/orbitview-api/internal/logger"
	"github.com/gravadigital/orbitview-api/internal/storage/migrations"
	"github.com/gravadigital/orbitview-api/internal/storage/postgres"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	status := flag.Bool("status", false, "List applied migrations")
	flag.Parse()

	cfg := config.Load()

	logger.Initialize(cfg.Server.LogLevel)
	log := logger.Migration()

	log.Info("Starting migration process", "rollback", *rollback, "status", *status)

	db, err := postgres.Connect(cfg)
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer postgres.Close()

	switch {
	case *status:
		applied, err := migrations.Applied(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		pending, err := migrations.Pending(db)
		if err != nil {
			log.Error("Failed to read migration status", "error", err)
			os.Exit(1)
		}
		for _, m := range applied {
			fmt.Printf("[x] %s %s (%s)\n", m.ID, m.Name, m.AppliedAt.Format("2006-01-02 15:04:05"))
		}
		for _, m := range pending {
			fmt.Printf("[ ] %s %s\n", m.ID, m.Name)
		}
		return
	case *rollback:
		log.Info("Rolling back migrations...")
		if err := migrations.RollbackMigration(db); err != nil {
			log.Error("Migration rollback failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migration rollback completed successfully")
	default:
		log.Info("Running migrations...")
		if err := migrations.RunMigrations(db); err != nil {
			log.Error("Migration failed", "error", err)
			os.Exit(1)
		}
		log.Info("Migrations completed successfully")
	}

	fmt.Println("Migration process completed!")
}
