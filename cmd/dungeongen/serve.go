package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"time"

	"github.com/google/subcommands"

	"github.com/samdwyer/dungeongen/internal/generate"
	"github.com/samdwyer/dungeongen/internal/server"
	"github.com/samdwyer/dungeongen/internal/store"
)

type serveCmd struct {
	store   storeFlags
	addr    string
	archive bool
	walls   bool
}

func (c *serveCmd) Name() string     { return "serve" }
func (c *serveCmd) Synopsis() string { return "serve level previews over WebSocket" }
func (c *serveCmd) Usage() string {
	return "dungeongen serve [-addr :8080] [-archive] [-walls]\n"
}
func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	c.store.register(f)
	f.StringVar(&c.addr, "addr", ":"+envOr("PORT", "8080"), "Listen address")
	f.BoolVar(&c.archive, "archive", false, "Allow clients to save levels to the archive")
	f.BoolVar(&c.walls, "walls", false, "Add walls to every served level")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	var storage store.Storage
	if c.archive {
		var err error
		if storage, err = c.store.open(ctx); err != nil {
			log.Printf("Failed to open archive: %v", err)
			return subcommands.ExitFailure
		}
		defer storage.Close()
		log.Printf("Using %s archive", c.store.kind)
	}

	defaults := generate.DefaultConfig()
	defaults.Walls = c.walls

	srv := &http.Server{
		Addr:              c.addr,
		Handler:           server.New(defaults, storage).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Printf("Server starting on %s", c.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Println(err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
