// Command sktc is the command-line driver for the skt compiler pipeline
// (§6.7): tokenize, parse, check, run and repl subcommands all go through
// skt/pipeline so the behavior behind each one matches exactly.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/subcommands"

	"skt/config"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")
	subcommands.Register(&tokensCmd{}, "")
	subcommands.Register(&parseCmd{}, "")
	subcommands.Register(&checkCmd{}, "")
	subcommands.Register(&runCmd{}, "")
	subcommands.Register(&replCmd{}, "")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

func readSource(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}

// loadConfigFor finds and loads the nearest .sktconfig.yaml to sourcePath
// (§10.3), falling back to config.Default() when none exists.
func loadConfigFor(sourcePath string) config.Config {
	cfg, err := config.LoadFromDir(filepath.Dir(sourcePath))
	if err != nil {
		return config.Default()
	}
	return cfg
}
