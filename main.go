package main

import (
	"flag"
	"fmt"
	"os"

	"todolist-service/config"
	"todolist-service/server"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"
	"github.com/umakantv/go-utils/db/migrations"
)

func main() {
	commandFlag := flag.String("command", "start", "Command to run modules")
	configFlag := flag.String("config", "", "Path to a TOML config file (optional)")
	nameFlag := flag.String("name", "", "Migration name (alphanum+underscore only)")
	dirFlag := flag.String("dir", ".", "Target directory for the new .sql file (e.g. ./database/migrations/sqlite3)")
	flag.Parse()

	if *commandFlag == "" {
		fmt.Println("Usage: go run main.go --command <command-name> [... other options]")
		os.Exit(1)
	}

	switch *commandFlag {
	case "start":
		cfg, err := config.Load(*configFlag)
		if err != nil {
			fmt.Fprintln(os.Stderr, "config:", err)
			os.Exit(1)
		}
		server.StartServer(cfg)
	case "create-migration":
		migrations.CreateMigration(nameFlag, dirFlag)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q (start, create-migration)\n", *commandFlag)
		os.Exit(1)
	}
}
