package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

var (
	configPath = flag.String("config", os.Getenv("COINVAULT_CONFIG"), "YAML config file (defaults built in)")
	style      = flag.String("style", "dark", "terminal style: dark, light, notty")
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")

	for _, c := range commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

var commands = []subcommands.Command{
	&pricesCmd{},
	&dashboardCmd{},
	&historyCmd{},
	&addressCmd{},
}
