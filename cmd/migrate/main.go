package main

import (
	"errors"
	"flag"
	"fmt"
	"log"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/prudhivi99/shopsys-go/internal/config"
)

func main() {
	var migrationsPath string
	flag.StringVar(&migrationsPath, "path", "file://migrations", "migrations source path")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: migrate [-path file://migrations] <up|down|version>")
	}

	cfg := config.Load()
	postgresURL := fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.PostgresUser, cfg.PostgresPassword, cfg.PostgresHost, cfg.PostgresPort, cfg.PostgresDB,
	)

	m, err := migrate.New(migrationsPath, postgresURL)
	if err != nil {
		log.Fatalf("Failed to create migrate instance: %v", err)
	}
	defer func() { _, _ = m.Close() }()

	switch command := flag.Arg(0); command {
	case "up":
		err = m.Up()
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No pending migrations")
			return
		}
		if err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("✅ Migrations applied")

	case "down":
		err = m.Steps(-1)
		if errors.Is(err, migrate.ErrNoChange) {
			log.Println("No migrations to roll back")
			return
		}
		if err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("✅ Migration rolled back")

	case "version":
		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			log.Println("No migrations applied yet")
			return
		}
		if err != nil {
			log.Fatalf("Failed to get version: %v", err)
		}
		log.Printf("Current version: %d (dirty: %t)", version, dirty)

	default:
		log.Fatalf("Unknown command: %s", command)
	}
}
