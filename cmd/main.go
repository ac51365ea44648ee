// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"lgpd-triage/internal/config"
	"lgpd-triage/internal/core"
	"lgpd-triage/internal/detector"
	"lgpd-triage/internal/formatters"
	"lgpd-triage/internal/observability"
	"lgpd-triage/internal/version"

	"github.com/joho/godotenv"
	"golang.org/x/term"

	// Register output formatters
	_ "lgpd-triage/internal/formatters/csv"
	_ "lgpd-triage/internal/formatters/json"
	_ "lgpd-triage/internal/formatters/text"
)

func main() {
	inputText := flag.String("text", "", "Text of a single request to classify")
	inputFile := flag.String("file", "", "Path to a request file (.txt or .pdf) to classify")
	batchFile := flag.String("batch", "", "Path to a CSV batch file with one request per row")
	column := flag.String("column", "", "Name of the CSV column holding the request text (default: texto)")
	configFile := flag.String("config", "", "Path to configuration file (YAML)")
	profileName := flag.String("profile", "", "Profile name to use from config file")
	listProfiles := flag.Bool("list-profiles", false, "List available profiles in config file")
	modelPath := flag.String("model", "", "Path to context classifier model file (YAML)")
	outputFormat := flag.String("format", "", "Output format: text, json, csv (default: text)")
	outputFile := flag.String("output", "", "Path to output file (if not specified, output to stdout)")
	workers := flag.Int("workers", 0, "Number of concurrent workers for batch classification")
	verbose := flag.Bool("verbose", false, "Display detected evidence for each classification")
	showText := flag.Bool("show-text", false, "Include the classified text in the output")
	debug := flag.Bool("debug", false, "Enable debug logging of detection and decision flow")
	noColor := flag.Bool("no-color", false, "Disable colored output")
	failOnFinding := flag.Bool("fail-on-finding", false, "Exit with code 1 when any request is NOT_PUBLIC or NEEDS_REVIEW")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Best-effort: load .env from current directory
	_ = godotenv.Load()

	if *showVersion {
		fmt.Println(version.Info())
		return
	}

	// Auto-detect non-interactive environment
	if !term.IsTerminal(int(os.Stderr.Fd())) || os.Getenv("CI") != "" {
		*noColor = true
	}

	// Load configuration
	configPath := *configFile
	if configPath == "" {
		configPath = os.Getenv("LGPD_TRIAGE_CONFIG")
	}
	if configPath == "" {
		configPath = config.FindConfigFile()
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *listProfiles {
		printProfiles(cfg, configPath)
		return
	}

	// Apply profile before flag overrides so flags always win
	if *profileName != "" {
		profile := cfg.GetProfile(*profileName)
		if profile == nil {
			fmt.Fprintf(os.Stderr, "Error: profile %q not found. Available profiles: %s\n",
				*profileName, strings.Join(cfg.ListProfiles(), ", "))
			os.Exit(1)
		}
		applyProfile(cfg, profile)
	}

	if *outputFormat != "" {
		cfg.Defaults.Format = *outputFormat
	}
	if *column != "" {
		cfg.Defaults.Column = *column
	}
	if *workers > 0 {
		cfg.Defaults.Workers = *workers
	}
	if *noColor {
		cfg.Defaults.NoColor = true
	}
	if *debug {
		cfg.Defaults.Debug = true
	}
	if *failOnFinding {
		cfg.Defaults.FailOnFinding = true
	}
	if *modelPath != "" {
		cfg.Engine.ModelPath = *modelPath
	} else if cfg.Engine.ModelPath == "" {
		cfg.Engine.ModelPath = os.Getenv("LGPD_TRIAGE_MODEL")
	}

	var observer *observability.StandardObserver
	if cfg.Defaults.Debug {
		observer = observability.NewStandardObserver(observability.ObservabilityDebug, os.Stderr)
		observer.DebugObserver = observability.NewDebugObserver(os.Stderr)
	}

	triage, err := core.New(cfg, observer)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	var records []formatters.Record

	switch {
	case *inputText != "":
		records = []formatters.Record{triage.ClassifyText(ctx, *inputText)}
	case *inputFile != "":
		record, err := triage.ClassifyFile(ctx, *inputFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		records = []formatters.Record{record}
	case *batchFile != "":
		records, err = triage.ClassifyBatchFile(ctx, *batchFile, cfg.Defaults.Column)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	default:
		flag.Usage()
		os.Exit(2)
	}

	output, err := formatters.Export(cfg.Defaults.Format, records, formatters.FormatterOptions{
		Verbose:  *verbose,
		NoColor:  cfg.Defaults.NoColor,
		ShowText: *showText,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *outputFile != "" {
		if err := os.WriteFile(*outputFile, []byte(output+"\n"), 0o600); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Println(output)
	}

	if cfg.Defaults.FailOnFinding && hasFinding(records) {
		os.Exit(1)
	}
}

// applyProfile copies a profile's settings over the active defaults.
func applyProfile(cfg *config.Config, profile *config.Profile) {
	if profile.Format != "" {
		cfg.Defaults.Format = profile.Format
	}
	if profile.Column != "" {
		cfg.Defaults.Column = profile.Column
	}
	if profile.Workers > 0 {
		cfg.Defaults.Workers = profile.Workers
	}
	if profile.NoColor {
		cfg.Defaults.NoColor = true
	}
	if profile.Debug {
		cfg.Defaults.Debug = true
	}
	if profile.FailOnFinding {
		cfg.Defaults.FailOnFinding = true
	}
	if profile.ModelPath != "" {
		cfg.Engine.ModelPath = profile.ModelPath
	}
}

// hasFinding reports whether any record requires attention before release.
func hasFinding(records []formatters.Record) bool {
	for _, rec := range records {
		if rec.Result.Classification != detector.Public {
			return true
		}
	}
	return false
}

func printProfiles(cfg *config.Config, configPath string) {
	if configPath == "" {
		fmt.Println("No configuration file found; only built-in profiles are available.")
	}
	names := cfg.ListProfiles()
	if len(names) == 0 {
		fmt.Println("No profiles defined.")
		return
	}
	fmt.Println("Available profiles:")
	for _, name := range names {
		profile := cfg.GetProfile(name)
		if profile != nil && profile.Description != "" {
			fmt.Printf("  %s - %s\n", name, profile.Description)
		} else {
			fmt.Printf("  %s\n", name)
		}
	}
}
