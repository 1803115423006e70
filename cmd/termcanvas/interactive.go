package main

import (
	"flag"
	"os"
	"path/filepath"

	"termcanvas/internal/events"
	"termcanvas/internal/tui"
)

func runInteractive(root rootArgs, args []string) {
	fs := flag.NewFlagSet("termcanvas", flag.ExitOnError)
	var (
		cfgPath   string
		workdir   string
		overrides stringSlice
	)
	fs.StringVar(&cfgPath, "config", "", "Path to config file (default ~/.termcanvas/config.toml)")
	fs.StringVar(&workdir, "cd", "", "Working directory for commands")
	fs.StringVar(&workdir, "C", "", "Alias for --cd")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	if err := fs.Parse(args); err != nil {
		log.Fatalf("parse args: %v", err)
	}

	cfg := loadConfig(cfgPath, root, overrides)
	opts := tui.Options{
		Config:  cfg,
		Workdir: resolveWorkdir(workdir),
	}
	if root.eventLog != "" {
		entry, closer := events.NewFileLogger(root.eventLog)
		if closer != nil {
			defer closer.Close()
		}
		opts.EventLog = entry
	}
	if err := tui.Run(opts); err != nil {
		log.Fatalf("tui: %v", err)
	}
}

func resolveWorkdir(dir string) string {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return ""
		}
		return wd
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return dir
	}
	return abs
}
