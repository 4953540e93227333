// Package main is the entry point for the dungeongen command.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"
	"github.com/joho/godotenv"

	"github.com/samdwyer/dungeongen/internal/telemetry"
)

func main() {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	setupOTelEnv()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx)
	if err != nil && !errors.Is(err, telemetry.ErrDisabled) {
		log.Printf("Warning: telemetry setup failed: %v", err)
	}

	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(&generateCmd{}, "")
	subcommands.Register(&viewCmd{}, "")
	subcommands.Register(&batchCmd{}, "archive")
	subcommands.Register(&showCmd{}, "archive")
	subcommands.Register(&listCmd{}, "archive")
	subcommands.Register(&serveCmd{}, "")

	flag.Parse()
	status := subcommands.Execute(ctx)

	// os.Exit skips deferred calls, so flush telemetry first.
	if shutdown != nil {
		if err := shutdown(ctx); err != nil {
			log.Printf("Error shutting down telemetry: %v", err)
		}
	}
	os.Exit(int(status))
}

// setupOTelEnv points the OTLP exporter at Honeycomb when an API key is configured.
func setupOTelEnv() {
	apiKey := os.Getenv("HONEYCOMB_DUNGEONGEN_API_KEY")
	if apiKey == "" {
		return
	}
	if os.Getenv(telemetry.EndpointEnv) == "" {
		os.Setenv(telemetry.EndpointEnv, "https://api.honeycomb.io")
	}
	dataset := os.Getenv("HONEYCOMB_DUNGEONGEN_DATASET")
	if dataset == "" {
		dataset = "dungeongen"
	}
	os.Setenv("OTEL_EXPORTER_OTLP_HEADERS",
		fmt.Sprintf("x-honeycomb-team=%s,x-honeycomb-dataset=%s", apiKey, dataset))
}
