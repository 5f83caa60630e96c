package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"statstore/cmd"
	"statstore/database"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: statstore [migrate|validate|schema] [args...]")
		os.Exit(2)
	}

	switch os.Args[1] {
	case "migrate":
		if err := handleMigrationCommand(); err != nil {
			log.Fatal("Migration error:", err)
		}
	case "validate":
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Handle graceful shutdown
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		go func() {
			<-sigChan
			log.Println("Received shutdown signal, shutting down gracefully...")
			cancel()
		}()

		if err := cmd.RunValidate(ctx); err != nil {
			log.Fatal("Validation error:", err)
		}
	case "schema":
		if err := cmd.PrintSchema(os.Stdout); err != nil {
			log.Fatal("Schema error:", err)
		}
	default:
		log.Fatalf("unknown command: %s", os.Args[1])
	}
}

func handleMigrationCommand() error {
	if len(os.Args) < 3 {
		return fmt.Errorf("usage: statstore migrate [up|down|status] [args...]")
	}

	command := os.Args[2]
	switch command {
	case "up":
		return database.MigrateUp()
	case "down":
		steps := "1"
		if len(os.Args) > 3 {
			steps = os.Args[3]
		}
		return database.MigrateDown(steps)
	case "status":
		return database.MigrateStatus()
	default:
		return fmt.Errorf("unknown migration command: %s", command)
	}
}
