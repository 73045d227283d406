package main

import (
	"context"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/dedupfs/cdcstore/internal/cdcsystem"
	"github.com/dedupfs/cdcstore/internal/metrics"
)

func init() {
	rootCmd.AddCommand(writeCmd())
}

func writeCmd() *cobra.Command {
	var key, backend, metricsOut string

	cmd := &cobra.Command{
		Use:   "write <file>",
		Short: "Chunk and store a file under a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runID := uuid.New()
			logger := log.With().Str("run_id", runID.String()).Logger()

			inputPath := args[0]
			if key == "" {
				key = inputPath
			}

			f, err := os.Open(inputPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", inputPath, err)
			}
			defer f.Close()

			cfg := loadConfig()
			ctx := context.Background()

			opened, metaKey, err := buildSystem(ctx, cfg, backend, key)
			if err != nil {
				return err
			}
			defer opened.Close()

			logger.Info().Str("key", key).Str("backend", backend).Msg("writing")

			if err := opened.sys.WriteStream(ctx, metaKey, f); err != nil {
				return fmt.Errorf("write %s: %w", key, err)
			}

			stats := opened.sys.Stats()
			fmt.Printf("wrote %q (run %s)\n", key, runID)
			fmt.Printf("  bytes written:   %d\n", stats.BytesWritten)
			fmt.Printf("  chunks emitted:  %d\n", stats.ChunksEmitted)
			fmt.Printf("  unique chunks:   %d\n", stats.UniqueFingerprintsSeen)
			fmt.Printf("  dedup ratio:     %.2fx\n", stats.DedupRatio(int64(cfg.Chunker.AvgSize)))

			if metricsOut != "" {
				if err := dumpMetrics(metricsOut, stats, int64(cfg.Chunker.AvgSize)); err != nil {
					return fmt.Errorf("write metrics: %w", err)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "store under this key (defaults to the input path)")
	cmd.Flags().StringVar(&backend, "backend", "memory", "chunk store backend: memory or redis")
	cmd.Flags().StringVar(&metricsOut, "metrics-out", "", "write Prometheus text-exposition metrics to this path")

	return cmd
}

// dumpMetrics renders stats as Prometheus text-exposition format to
// path, the offline equivalent of scraping a /metrics endpoint — this
// CLI has no network-facing API to serve one from.
func dumpMetrics(path string, stats cdcsystem.Stats, avgChunkSize int64) error {
	reg := prometheus.NewRegistry()
	metrics.NewRecorder(reg).Observe(stats, avgChunkSize)

	families, err := reg.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
