// Package main is the entry point for the markpad editor.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/markpad/internal/app"
	"github.com/dshills/markpad/internal/export"
	"github.com/dshills/markpad/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	opts, exportFormat := parseFlags()

	application, err := app.New(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}

	// Ensure cleanup on all exit paths
	defer application.Shutdown()

	if exportFormat != nil {
		written, err := application.Export(*exportFormat)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Println(written)
		return 0
	}

	term, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}
	if err := application.SetBackend(term); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to set backend: %v\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := application.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func parseFlags() (app.Options, *export.Format) {
	opts := app.Options{Watch: true}
	var showVersion bool
	var showHelp bool
	var exportName string

	flag.StringVar(&opts.ConfigPath, "config", "", "Path to settings file")
	flag.StringVar(&opts.ConfigPath, "c", "", "Path to settings file (shorthand)")
	flag.BoolVar(&opts.Debug, "debug", false, "Enable debug mode")
	flag.BoolVar(&opts.Debug, "d", false, "Enable debug mode (shorthand)")
	flag.StringVar(&opts.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.StringVar(&opts.LogFile, "log-file", "", "Write the log to this file")
	flag.BoolVar(&opts.Watch, "watch", true, "Reload the settings file when it changes")
	flag.StringVar(&exportName, "export", "", "Export the file (md or html) and exit")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")
	flag.BoolVar(&showHelp, "help", false, "Show help message")
	flag.BoolVar(&showHelp, "h", false, "Show help message (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "markpad - Markdown editor with live preview\n\n")
		fmt.Fprintf(os.Stderr, "Usage: markpad [options] [file.md]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  markpad                     Open the welcome document\n")
		fmt.Fprintf(os.Stderr, "  markpad notes.md            Edit notes.md; Ctrl+S writes it back\n")
		fmt.Fprintf(os.Stderr, "  markpad -log-level debug    Verbose log in the state directory\n")
		fmt.Fprintf(os.Stderr, "  markpad -export html a.md   Write a.html without opening the editor\n")
	}

	flag.Parse()

	if showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if showVersion {
		fmt.Printf("markpad %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	switch opts.LogLevel {
	case "", "debug", "info", "warn", "error":
		// Valid
	default:
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.LogLevel)
		os.Exit(1)
	}

	switch flag.NArg() {
	case 0:
	case 1:
		opts.File = flag.Arg(0)
	default:
		fmt.Fprintf(os.Stderr, "Error: markpad edits one file at a time\n")
		os.Exit(1)
	}

	if exportName == "" {
		return opts, nil
	}
	format, err := export.ParseFormat(exportName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	return opts, &format
}
