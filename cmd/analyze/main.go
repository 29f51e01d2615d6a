package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"SheetSentinel/internal/collector"
	"SheetSentinel/internal/config"
	"SheetSentinel/internal/logger"
	"SheetSentinel/internal/notifier"
	"SheetSentinel/internal/report"
)

func main() {
	cfgPath := flag.String("config", "", "path to config.yaml")
	file := flag.String("file", "", "local CSV file (overrides config)")
	sheet := flag.String("sheet", "", "spreadsheet URL or id (overrides config)")
	gid := flag.Int("gid", -1, "sheet tab gid (overrides config)")
	format := flag.String("format", "text", "output format: text, json or csv")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(2)
	}
	log := logger.NewWithWriter(os.Stderr, cfg.Log.Level, true)

	if *file != "" {
		cfg.Source.File = *file
		cfg.Source.Sheet = ""
	}
	if *sheet != "" {
		cfg.Source.Sheet = *sheet
		cfg.Source.File = ""
	}
	if *gid >= 0 {
		cfg.Source.GID = *gid
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}

	fetcher, err := collector.NewFetcher(cfg.Source.File, cfg.Source.Sheet, cfg.Source.GID, cfg.Proxy, cfg.Source.Timeout)
	if err != nil {
		log.Fatal().Err(err).Msg("init fetcher")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Source.Timeout)
	defer cancel()
	r, err := collector.NewCollector(fetcher, cfg.PipelineOptions(), log).Collect(ctx)
	if err != nil {
		log.Error().Err(err).Msg("analysis failed")
		os.Exit(1)
	}

	switch *format {
	case "json":
		err = report.NewExport(r).WriteJSON(os.Stdout)
	case "csv":
		err = report.NewExport(r).WriteCSV(os.Stdout)
	case "text":
		_, err = fmt.Print(notifier.FormatText(r))
	default:
		err = fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		log.Error().Err(err).Msg("write output")
		os.Exit(1)
	}
}
