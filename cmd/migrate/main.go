// Command migrate runs schema operations against the configured database.
package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"scribe/internal/config"
	"scribe/internal/database"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func usage() error {
	return fmt.Errorf("usage: go run ./cmd/migrate <up|status>")
}

func run() error {
	_ = godotenv.Load()
	flag.Parse()
	if flag.NArg() < 1 {
		return usage()
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	dialector, err := database.Dialector(cfg)
	if err != nil {
		return err
	}
	db, err := database.Open(dialector)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer func() { _ = database.Close(db) }()

	switch strings.ToLower(strings.TrimSpace(flag.Arg(0))) {
	case "up":
		if err := database.Migrate(db); err != nil {
			return err
		}
		log.Println("migrations applied")
	case "status":
		return printStatus(db)
	default:
		return usage()
	}
	return nil
}

func printStatus(db *gorm.DB) error {
	migrator := db.Migrator()
	pending := 0
	for _, model := range database.PersistentModels() {
		stmt := &gorm.Statement{DB: db}
		if err := stmt.Parse(model); err != nil {
			return fmt.Errorf("parse model: %w", err)
		}
		table := stmt.Schema.Table

		if !migrator.HasTable(model) {
			pending++
			log.Printf("missing table: %s", table)
			continue
		}
		for _, field := range stmt.Schema.Fields {
			if field.DBName == "" || field.IgnoreMigration || !fieldIsColumn(field) {
				continue
			}
			if !migrator.HasColumn(model, field.DBName) {
				pending++
				log.Printf("missing column: %s.%s", table, field.DBName)
			}
		}
	}
	log.Printf("driver=%s pending=%d", db.Dialector.Name(), pending)
	return nil
}

func fieldIsColumn(field *schema.Field) bool {
	return field.Creatable || field.Updatable || field.Readable
}
