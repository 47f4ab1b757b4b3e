package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	animations "github.com/goliatone/go-cms-animations"
)

var moduleBuilder = buildModule

func main() {
	if err := runLoad(os.Args[1:]); err != nil {
		log.Fatalf("animations load: %v", err)
	}
}

func buildModule(configPath string) (*animations.Module, error) {
	cfg := animations.DefaultConfig()
	if strings.TrimSpace(configPath) != "" {
		loaded, err := animations.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}
	return animations.New(cfg)
}

type loadOptions struct {
	configPath string
	directory  string
	list       bool
}

func parseLoadFlags(args []string) (loadOptions, *flag.FlagSet, error) {
	var opts loadOptions
	fs := flag.NewFlagSet("animations-load", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "Path to a YAML configuration file (defaults to in-memory storage)")
	fs.StringVar(&opts.directory, "dir", "animations", "Directory holding definition files (.js / .anim.js with YAML front matter)")
	fs.BoolVar(&opts.list, "list", false, "Print the stored definitions after loading")
	err := fs.Parse(args)
	return opts, fs, err
}

func runLoad(args []string) error {
	opts, _, err := parseLoadFlags(args)
	if err != nil {
		return err
	}

	module, err := moduleBuilder(opts.configPath)
	if err != nil {
		return fmt.Errorf("bootstrap module: %w", err)
	}
	if module == nil || module.Commands() == nil || module.Commands().LoadDefinitionFiles == nil {
		return fmt.Errorf("animation commands not configured")
	}
	defer module.Close()

	ctx := context.Background()
	if err := module.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	cmd := animations.LoadDefinitionFilesCommand{Directory: opts.directory}
	if err := module.Commands().LoadDefinitionFiles.Execute(ctx, cmd); err != nil {
		return fmt.Errorf("execute load command: %w", err)
	}
	fmt.Fprintln(os.Stdout, "animation definitions loaded")

	if opts.list {
		definitions, err := module.Definitions().List(ctx)
		if err != nil {
			return fmt.Errorf("list definitions: %w", err)
		}
		for _, definition := range definitions {
			fmt.Fprintf(os.Stdout, "%s\t%s\t%s\n", definition.Key, definition.Status, definition.Label)
		}
	}
	return nil
}
