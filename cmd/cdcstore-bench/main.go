// Package main is the entry point for cdcstore-bench, a small harness
// that drives the dedup store over files and stdout and reports dedup-ratio
// statistics. It is not a network-facing API; it exists for routine
// benchmarking and manual exercising of the library.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dedupfs/cdcstore/internal/config"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:     "cdcstore-bench",
	Short:   "cdcstore-bench - exercise and benchmark the FastCDC dedup store",
	Long:    "cdcstore-bench writes and reads blobs through the content-defined chunking dedup pipeline and reports dedup-ratio statistics.",
	Version: fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
}

func init() {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to cdcstore.yaml (defaults to ./cdcstore.yaml)")
}

func loadConfig() *config.Config {
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}
	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
