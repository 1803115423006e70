package main

import (
	"os"

	"termcanvas/internal/config"
	"termcanvas/internal/logger"
)

var log = logger.Named("cmd")

func main() {
	logger.Configure()
	root, rest, err := parseRootArgs(os.Args[1:])
	if err != nil {
		log.Fatalf("parse args: %v", err)
	}
	if logFile, _, err := logger.SetupFile(root.logPath); err != nil {
		log.Warnf("failed to initialize log file: %v", err)
	} else {
		defer logFile.Close()
	}

	if len(rest) > 0 {
		switch rest[0] {
		case "render":
			renderMain(root, rest[1:])
			return
		}
	}
	runInteractive(root, rest)
}

// loadConfig 读取配置文件并依次应用根参数与子命令的 -c 覆盖。
func loadConfig(path string, root rootArgs, overrides []string) config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg = config.ApplyKVOverrides(cfg, prependOverrides(root.overrides, overrides))

	level := cfg.LogLevel
	if root.logLevel != "" {
		level = root.logLevel
	}
	if err := logger.SetLevel(level); err != nil {
		log.Warnf("ignoring log level: %v", err)
	}
	return cfg
}
