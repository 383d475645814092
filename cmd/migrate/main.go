package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/pressly/goose/v3"

	"github.com/mentorhub/MH-BookingEngine/internal/config"
)

// Применение миграций схемы БД через goose
// Использование: migrate [-config config.toml] [-dir migrations] up|down|status
func main() {
	configPath := flag.String("config", "config.toml", "путь к конфигурации сервиса")
	migrationsDir := flag.String("dir", "migrations", "каталог с миграциями")
	flag.Parse()

	command := "up"
	if args := flag.Args(); len(args) > 0 {
		command = args[0]
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		fmt.Printf("Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := goose.SetDialect("postgres"); err != nil {
		fmt.Printf("Failed to set goose dialect: %v\n", err)
		os.Exit(1)
	}

	switch command {
	case "up":
		err = goose.Up(db, *migrationsDir)
	case "down":
		err = goose.Down(db, *migrationsDir)
	case "status":
		err = goose.Status(db, *migrationsDir)
	default:
		fmt.Printf("Unknown command: %s (expected up, down or status)\n", command)
		os.Exit(1)
	}

	if err != nil {
		fmt.Printf("Migration %s failed: %v\n", command, err)
		os.Exit(1)
	}

	fmt.Printf("Migration %s completed\n", command)
}
