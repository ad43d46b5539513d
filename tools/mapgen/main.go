package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"nuggets-server/pkg/dungeon"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts := dungeon.DefaultGenOptions()

	fs := flag.NewFlagSet("mapgen", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.IntVar(&opts.Width, "width", opts.Width, "map width")
	fs.IntVar(&opts.Height, "height", opts.Height, "map height")
	fs.IntVar(&opts.MaxRooms, "rooms", opts.MaxRooms, "maximum number of rooms")
	fs.Int64Var(&opts.Seed, "seed", 0, "random seed (0 for time based)")
	out := fs.String("out", "", "output file (stdout if empty)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, `Map Generator - случайная карта для сервера
Usage: mapgen [--width N] [--height N] [--rooms N] [--seed N] [--out file]`)
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if opts.Seed == 0 {
		opts.Seed = time.Now().UnixNano()
	}

	grid, err := dungeon.Generate(opts)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	text := dungeon.Format(grid)

	if *out == "" {
		fmt.Fprint(stdout, text)
		return 0
	}
	if err := os.WriteFile(*out, []byte(text), 0o644); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	fmt.Fprintf(stdout, "map %dx%d written to %s (seed %d)\n", grid.Width, grid.Height, *out, opts.Seed)
	return 0
}
