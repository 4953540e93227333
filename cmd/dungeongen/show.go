package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/google/subcommands"

	"github.com/samdwyer/dungeongen/internal/store"
)

type showCmd struct {
	store storeFlags
	json  bool
	rooms bool
}

func (c *showCmd) Name() string     { return "show" }
func (c *showCmd) Synopsis() string { return "print an archived level" }
func (c *showCmd) Usage() string {
	return "dungeongen show [-j] [-rooms] <id>\n"
}
func (c *showCmd) SetFlags(f *flag.FlagSet) {
	c.store.register(f)
	boolFlag(f, &c.json, "json", "j", "Print the level as JSON")
	f.BoolVar(&c.rooms, "rooms", false, "List rooms (in Hilbert order with the sqlite backend)")
}

func (c *showCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	id := f.Arg(0)

	storage, err := c.store.open(ctx)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer storage.Close()

	level, err := storage.Load(ctx, id)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
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

	if c.rooms {
		rooms := level.Rooms()
		if sq, ok := storage.(*store.SQLiteStore); ok {
			if rooms, err = sq.Rooms(ctx, id); err != nil {
				log.Println(err)
				return subcommands.ExitFailure
			}
		}
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "X\tY\tWIDTH\tHEIGHT")
		for _, r := range rooms {
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\n", r.X, r.Y, r.Width, r.Height)
		}
		w.Flush()
	}
	return subcommands.ExitSuccess
}

type listCmd struct {
	store storeFlags
}

func (c *listCmd) Name() string     { return "list" }
func (c *listCmd) Synopsis() string { return "list archived levels" }
func (c *listCmd) Usage() string    { return "dungeongen list\n" }
func (c *listCmd) SetFlags(f *flag.FlagSet) {
	c.store.register(f)
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...any) subcommands.ExitStatus {
	storage, err := c.store.open(ctx)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}
	defer storage.Close()

	summaries, err := storage.List(ctx)
	if err != nil {
		log.Println(err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tALGORITHM\tSIZE\tROOMS\tCREATED")
	for _, s := range summaries {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%d\t%s\n",
			s.ID, s.Algorithm, s.Width, s.Height, s.Rooms, s.CreatedAt.Format("2006-01-02 15:04"))
	}
	w.Flush()
	return subcommands.ExitSuccess
}
