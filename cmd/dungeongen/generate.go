package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/samdwyer/dungeongen/internal/palette"
	"github.com/samdwyer/dungeongen/internal/render"
)

type generateCmd struct {
	gen   genFlags
	store storeFlags

	json     bool
	csv      bool
	draw     bool
	imgDir   string
	palette  string
	tileSize int
	save     bool
}

func (c *generateCmd) Name() string     { return "generate" }
func (c *generateCmd) Synopsis() string { return "generate a level and print it" }
func (c *generateCmd) Usage() string {
	return "dungeongen generate [-s <seed> | -t <text>] [-a rooms|bsp] [-w] [-j] [-c] [-d] [-save]\n"
}
func (c *generateCmd) SetFlags(f *flag.FlagSet) {
	c.gen.register(f)
	c.store.register(f)
	boolFlag(f, &c.json, "json", "j", "Print the level as JSON")
	boolFlag(f, &c.csv, "csv", "c", "Print the tile codes as CSV")
	boolFlag(f, &c.draw, "draw", "d", "Draw the level as <img>/<seed>.png")
	f.StringVar(&c.imgDir, "img", "./img", "Directory for drawn images")
	f.StringVar(&c.palette, "palette", "default", "Image palette (default, mono)")
	f.IntVar(&c.tileSize, "tile", render.DefaultTileSize, "Pixels per tile in drawn images")
	f.BoolVar(&c.save, "save", false, "Archive the level")
}

func (c *generateCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	level, err := c.gen.generateLevel(ctx)
	if err != nil {
		log.Println(err)
		return subcommands.ExitUsageError
	}

	fmt.Println(level)

	if c.json {
		data, err := json.Marshal(level.Export())
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		fmt.Println(string(data))
	}

	if c.draw {
		pal, err := palette.LoadNamed(c.palette)
		if err != nil {
			log.Println(err)
			return subcommands.ExitUsageError
		}
		path, err := render.DrawFile(level, c.imgDir, pal, c.tileSize)
		if err != nil {
			log.Println("drawing failed:", err)
			return subcommands.ExitFailure
		}
		log.Printf("Wrote %s", path)
	}

	if c.csv {
		if err := level.WriteCSV(os.Stdout); err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
	}

	if c.save {
		storage, err := c.store.open(ctx)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		defer storage.Close()

		id, err := storage.Save(ctx, level)
		if err != nil {
			log.Println(err)
			return subcommands.ExitFailure
		}
		fmt.Println("saved", id)
	}

	return subcommands.ExitSuccess
}
