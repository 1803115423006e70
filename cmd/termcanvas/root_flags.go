package main

import (
	"flag"
	"io"
)

type rootArgs struct {
	overrides []string
	logLevel  string
	logPath   string
	eventLog  string
}

// parseRootArgs 解析子命令之前的全局参数，剩余参数原样返回。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("termcanvas", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var overrides stringSlice
	var root rootArgs
	fs.Var(&overrides, "c", "Override config value key=value (repeatable, applied before subcommand overrides)")
	fs.StringVar(&root.logLevel, "log-level", "", "Log level (debug|info|warn|error)")
	fs.StringVar(&root.logPath, "log", "", "Log file path (default logs/termcanvas.log)")
	fs.StringVar(&root.eventLog, "event-log", "", "Write every widget notification to this file")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}
	root.overrides = append([]string{}, overrides...)
	return root, fs.Args(), nil
}

func prependOverrides(root []string, overrides []string) []string {
	merged := append([]string{}, root...)
	return append(merged, overrides...)
}
