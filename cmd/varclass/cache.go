package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/varclass/internal/datasource/gnomad"
)

func newCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage checkpoint and frequency caches",
	}

	cmd.AddCommand(newCacheStatusCmd())
	cmd.AddCommand(newCacheClearCmd())
	cmd.AddCommand(newCacheLoadFrequencyCmd())

	return cmd
}

func newCacheStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show checkpoint cache contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultCheckpointDir()
			entries, err := os.ReadDir(dir)
			if err != nil {
				if os.IsNotExist(err) {
					fmt.Printf("No checkpoints in %s\n", dir)
					return nil
				}
				return fmt.Errorf("read checkpoint directory: %w", err)
			}
			if len(entries) == 0 {
				fmt.Printf("No checkpoints in %s\n", dir)
				return nil
			}

			fmt.Printf("Checkpoints in %s:\n", dir)
			for _, e := range entries {
				if !strings.HasSuffix(e.Name(), ".duckdb") {
					continue
				}
				info, err := e.Info()
				if err != nil {
					continue
				}
				fmt.Printf("  %-20s %10d bytes  %s\n",
					strings.TrimSuffix(e.Name(), ".duckdb"),
					info.Size(),
					info.ModTime().Format("2006-01-02 15:04:05"))
			}
			return nil
		},
	}
}

func newCacheClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all checkpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := defaultCheckpointDir()
			entries, err := os.ReadDir(dir)
			if os.IsNotExist(err) {
				return nil
			}
			if err != nil {
				return fmt.Errorf("read checkpoint directory: %w", err)
			}

			removed := 0
			for _, e := range entries {
				name := e.Name()
				if strings.HasSuffix(name, ".duckdb") || strings.HasSuffix(name, ".meta") ||
					strings.HasSuffix(name, ".tmp") {
					if err := os.Remove(filepath.Join(dir, name)); err == nil {
						removed++
					}
				}
			}
			fmt.Printf("Removed %d checkpoint files from %s\n", removed, dir)
			return nil
		},
	}
}

func newCacheLoadFrequencyCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "load-frequency <tsv-file>",
		Short: "Build the population frequency database from a TSV export",
		Example: `  varclass cache load-frequency gnomad_freq.tsv.gz
  varclass cache load-frequency gnomad_freq.tsv --db ~/.varclass/gnomad.duckdb`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("cannot determine home directory: %w", err)
				}
				dbPath = filepath.Join(home, ".varclass", "gnomad.duckdb")
			}

			store, err := gnomad.Open(dbPath)
			if err != nil {
				return fmt.Errorf("open frequency database: %w", err)
			}
			defer store.Close()

			if err := store.Load(args[0]); err != nil {
				return err
			}

			n, err := store.Count()
			if err != nil {
				return err
			}
			fmt.Printf("Loaded %d frequency rows into %s\n", n, dbPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "database path (default ~/.varclass/gnomad.duckdb)")
	return cmd
}
