package cmd

import (
	"context"
	"fmt"
	"io"

	"statstore/config"
	"statstore/database"
	"statstore/schema"

	log "github.com/sirupsen/logrus"
)

// RunValidate connects to the configured database and checks the live stats
// table against the canonical schema. Every mismatch is logged; a non-empty
// result is an error.
func RunValidate(ctx context.Context) error {
	cfg := config.Get()
	setupLogging(cfg)

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	mismatches, err := schema.Validate(ctx, db)
	if err != nil {
		return fmt.Errorf("failed to validate schema: %w", err)
	}

	if len(mismatches) == 0 {
		log.WithField("table", schema.TableName).Info("Schema matches canonical definition")
		return nil
	}

	for _, m := range mismatches {
		log.WithFields(log.Fields{
			"table":  schema.TableName,
			"column": m.Column,
			"want":   m.Want,
			"got":    m.Got,
		}).Error("Schema mismatch")
	}

	return fmt.Errorf("table %s deviates from the canonical schema in %d place(s)", schema.TableName, len(mismatches))
}

// PrintSchema writes the canonical catalog in CREATE TABLE-like form.
func PrintSchema(w io.Writer) error {
	cat, err := schema.Expected()
	if err != nil {
		return err
	}

	fmt.Fprintln(w, cat)
	return nil
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
