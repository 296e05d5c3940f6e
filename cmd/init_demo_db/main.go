package main

import (
	"context"
	"log"
	"os"

	"hospitaldb/config"
	"hospitaldb/logging"
	"hospitaldb/setup"
)

func main() {
	// Fixed paths, no flags or environment: hospital.db from healthcare_schema.sql
	logger, err := logging.New("warn")
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Failures are printed by setup.Run; the exit status stays zero.
	_ = setup.Run(context.Background(), setup.OptionsFromConfig(config.Default()), os.Stdout, logger)
}
