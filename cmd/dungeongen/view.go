package main

import (
	"context"
	"flag"
	"log"

	"github.com/google/subcommands"

	"github.com/samdwyer/dungeongen/internal/palette"
	"github.com/samdwyer/dungeongen/internal/ui"
)

type viewCmd struct {
	gen     genFlags
	palette string
}

func (c *viewCmd) Name() string     { return "view" }
func (c *viewCmd) Synopsis() string { return "preview levels in the terminal" }
func (c *viewCmd) Usage() string {
	return "dungeongen view [-s <seed> | -t <text>] [-a rooms|bsp] [-w]\n" +
		"Keys: r new seed, a switch algorithm, w toggle walls, arrows scroll, q quit.\n"
}
func (c *viewCmd) SetFlags(f *flag.FlagSet) {
	c.gen.register(f)
	f.StringVar(&c.palette, "palette", "default", "Tile palette (default, mono)")
}

func (c *viewCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	algo, s, cfg, err := c.gen.resolve()
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}
	pal, err := palette.LoadNamed(c.palette)
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	screen, err := ui.NewScreen()
	if err != nil {
		log.Printf("Failed to initialize screen: %v", err)
		return subcommands.ExitFailure
	}

	viewer := ui.NewViewer(screen, ui.Options{
		Config:    cfg,
		Algorithm: algo,
		Seed:      s,
		Palette:   pal,
	})
	if err := viewer.Run(ctx); err != nil {
		log.Printf("Viewer error: %v", err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
