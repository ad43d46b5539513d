package main

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"nuggets-server/internal/engine"
)

// options - разобранная командная строка
type options struct {
	MapFile    string
	RulesFile  string
	ReplayFile string
	Rules      engine.Config
}

var errUsage = errors.New("usage: server mapfile [--gold N] [--minpiles N] [--maxpiles N] [--seed N] [--plain] [--config rules.yaml] [--replay file.ngrc]")

// parseArgs разбирает флаги в любом порядке относительно файла карты.
// Флаги, заданные явно, перекрывают значения из файла правил.
func parseArgs(args []string, stderr io.Writer) (options, error) {
	var opts options
	defaults := engine.NewConfig()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.SetOutput(stderr)
	gold := fs.Int("gold", defaults.GoldTotal, "total amount of gold")
	minPiles := fs.Int("minpiles", defaults.MinPiles, "minimum number of gold piles")
	maxPiles := fs.Int("maxpiles", defaults.MaxPiles, "maximum number of gold piles")
	seed := fs.Int64("seed", 0, "random seed (0 for time based)")
	plain := fs.Bool("plain", false, "plain mode: no capture, no gold drop on quit")
	fs.StringVar(&opts.RulesFile, "config", "", "YAML rules file")
	fs.StringVar(&opts.ReplayFile, "replay", "", "replay a recorded .ngrc game and exit")

	var positional []string
	rest := args
	for {
		if err := fs.Parse(rest); err != nil {
			return opts, err
		}
		rest = fs.Args()
		if len(rest) == 0 {
			break
		}
		positional = append(positional, rest[0])
		rest = rest[1:]
	}

	if len(positional) != 1 {
		return opts, errUsage
	}
	opts.MapFile = positional[0]

	rules := defaults
	if opts.RulesFile != "" {
		loaded, err := engine.LoadRules(opts.RulesFile, rules)
		if err != nil {
			return opts, err
		}
		rules = loaded
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "gold":
			rules.GoldTotal = *gold
		case "minpiles":
			rules.MinPiles = *minPiles
		case "maxpiles":
			rules.MaxPiles = *maxPiles
		case "seed":
			rules.Seed = *seed
		case "plain":
			rules.Plain = *plain
		}
	})

	if err := rules.Validate(); err != nil {
		return opts, fmt.Errorf("bad arguments: %w", err)
	}
	opts.Rules = rules
	return opts, nil
}
