// cmd/easel/main.go
package main

import (
	"errors"
	"flag"
	"fmt"
	stlog "log" // Standard log for fatal errors before logger is ready
	"os"

	"github.com/bethropolis/easel/internal/app"
	"github.com/bethropolis/easel/internal/config"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/gogpu/gg"
)

func main() {
	// --- Argument & Flag Parsing ---
	flags := config.NewFlags(config.AppName, os.Stderr)
	args, err := flags.Parse(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if *flags.Version {
		fmt.Printf("%s %s\n", config.AppName, config.Version)
		os.Exit(0)
	}

	var filePath string
	if len(args) > 0 {
		filePath = args[0]
	}

	// --- Configuration ---
	cfg, warnings, loadErr := config.Load(flags)

	// --- Logger Initialization ---
	logPath := cfg.Logger.LogFilePath
	if logPath == "" {
		logPath = config.DefaultLogFileName // stderr would draw over the canvas
	}
	output := os.Stderr
	if logPath != "-" {
		logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			stlog.Fatalf("Failed to open log file '%s': %v", logPath, err)
		}
		defer logFile.Close()
		output = logFile
	}

	logger.SetDebugFilter(*flags.DebugLog)
	logger.Init(cfg.Logger, output)
	gg.SetLogger(logger.Get())

	logger.Infof("Starting %s %s...", config.AppName, config.Version)
	if loadErr != nil {
		logger.Warnf("Config: %v, using defaults", loadErr)
	}
	for _, w := range warnings {
		logger.Warnf("Config: %s", w)
	}
	if filePath != "" {
		logger.Debugf("File path specified: %s", filePath)
	} else {
		logger.Debugf("No file specified, starting with an empty canvas.")
	}

	// --- Create and Run App ---
	easelApp, err := app.NewApp(cfg, filePath)
	if err != nil {
		logger.Errorf("Error initializing application: %v", err)
		fmt.Fprintf(os.Stderr, "%s: %v\n", config.AppName, err)
		os.Exit(1)
	}

	if err := easelApp.Run(); err != nil {
		logger.Errorf("Application exited with error: %v", err)
		os.Exit(1)
	}

	logger.Infof("%s finished.", config.AppName)
}
