package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"coursecal/internal/config"
	"coursecal/internal/ics"
	appLog "coursecal/internal/log"
	"coursecal/internal/schedule"
)

// flagConfig holds CLI flag values.
type flagConfig struct {
	schedulePath string
	outputPath   string
	stdout       bool
	verbose      bool
}

func main() {
	flags := parseFlags()
	if flags.verbose {
		appLog.SetLevel(appLog.LevelDebug)
	}

	appLog.Info("coursecal starting",
		"schedule", flags.schedulePath,
		"output", flags.outputPath,
		"stdout", flags.stdout,
	)

	doc, err := config.Load(flags.schedulePath)
	if err != nil {
		appLog.Error("failed to load schedule", err, "path", flags.schedulePath)
		os.Exit(1)
	}

	events, err := schedule.Generate(doc)
	if err != nil {
		appLog.Error("failed to generate events", err)
		os.Exit(1)
	}

	body := ics.Emit(events, ics.Options{
		Name: doc.Name,
		Now:  time.Now(),
	})

	if flags.stdout {
		fmt.Print(body)
		appLog.Info("coursecal done", "event_count", len(events))
		return
	}

	if err := ics.WriteFile(flags.outputPath, []byte(body)); err != nil {
		appLog.Error("failed to write calendar", err, "path", flags.outputPath)
		os.Exit(1)
	}

	appLog.Info("coursecal done", "event_count", len(events), "output", flags.outputPath)
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.schedulePath, "schedule", "schedule.yaml", "Path to the schedule document")
	flag.StringVar(&cfg.outputPath, "output", "output/schedule.ics", "Path of the calendar file to write")
	flag.BoolVar(&cfg.stdout, "stdout", false, "Print the calendar to stdout instead of writing a file")
	flag.BoolVar(&cfg.verbose, "v", false, "Enable debug logging")

	flag.Parse()

	return cfg
}
