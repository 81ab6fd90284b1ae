package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/factory-payroll/internal/config"
	"github.com/cmlabs-hris/factory-payroll/internal/pkg/migration"
)

const usage = "usage: migrate up|down|version"

func main() {
	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	m, err := migration.New(cfg.DatabaseURL(), cfg.Database.MigrationsPath)
	if err != nil {
		slog.Error("Error opening migrations", "error", err)
		os.Exit(1)
	}
	defer m.Close()

	switch os.Args[1] {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "version":
		var version uint
		var dirty bool
		version, dirty, err = m.Version()
		if err == nil {
			fmt.Printf("version=%d dirty=%t\n", version, dirty)
		}
	default:
		fmt.Println(usage)
		os.Exit(2)
	}

	if err != nil {
		slog.Error("Migration failed", "command", os.Args[1], "error", err)
		os.Exit(1)
	}
}
