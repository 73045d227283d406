package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(readCmd())
}

func readCmd() *cobra.Command {
	var backend, outputPath string

	cmd := &cobra.Command{
		Use:   "read <key>",
		Short: "Reassemble the blob stored under key and write it out",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]

			cfg := loadConfig()
			ctx := context.Background()

			opened, metaKey, err := buildSystem(ctx, cfg, backend, key)
			if err != nil {
				return err
			}
			defer opened.Close()

			out := os.Stdout
			if outputPath != "" {
				f, err := os.Create(outputPath)
				if err != nil {
					return fmt.Errorf("create %s: %w", outputPath, err)
				}
				defer f.Close()
				out = f
			}

			if err := opened.sys.ReadInto(ctx, metaKey, out); err != nil {
				return fmt.Errorf("read %s: %w", key, err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", "memory", "chunk store backend: memory or redis")
	cmd.Flags().StringVar(&outputPath, "output", "", "write to this path instead of stdout")

	return cmd
}
