package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// settableKeys are the configuration keys `config set` accepts.
// Threshold keys mirror the mapstructure tags on evidence.Thresholds.
var settableKeys = map[string]bool{
	"assembly":          true,
	"criteria.version":  true,
	"criteria.disabled": true,

	"criteria.thresholds.ba1_allele_frequency":     true,
	"criteria.thresholds.bs1_allele_frequency":     true,
	"criteria.thresholds.pm2_max_allele_frequency": true,
	"criteria.thresholds.bs2_min_homozygotes":      true,
	"criteria.thresholds.pp3_min_score":            true,
	"criteria.thresholds.bp4_max_score":            true,
	"criteria.thresholds.bp7_max_splice_score":     true,
	"criteria.thresholds.ps4_min_odds_ratio":       true,

	"genes.lof_intolerant":       true,
	"genes.missense_constrained": true,
	"genes.truncating_mechanism": true,
	"sources.frequency_db":       true,
	"sources.score_table":        true,
}

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage varclass configuration",
		Long:  "Show, get, or set configuration values. Config is stored in ~/.varclass.yaml.",
		Example: `  varclass config                                    # show all config
  varclass config set criteria.thresholds.ba1_allele_frequency 0.05
  varclass config set criteria.disabled PP5,BP6
  varclass config get genes.lof_intolerant`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigShow()
		},
	}

	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigGetCmd())

	return cmd
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(args[0], args[1])
		},
	}
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(args[0])
		},
	}
}

func runConfigShow() error {
	settings := viper.AllSettings()
	if len(settings) == 0 {
		fmt.Println("# No configuration set. Config file: ~/.varclass.yaml")
		return nil
	}

	out, err := yaml.Marshal(settings)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	fmt.Print(string(out))
	return nil
}

func runConfigSet(key, value string) error {
	if !settableKeys[key] {
		return fmt.Errorf("unknown configuration key %q (known keys: %s)",
			key, strings.Join(knownKeys(), ", "))
	}

	viper.Set(key, coerceValue(key, value))

	cfgPath := viper.ConfigFileUsed()
	if cfgPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("cannot determine home directory: %w", err)
		}
		cfgPath = filepath.Join(home, ".varclass.yaml")
	}

	if err := viper.WriteConfigAs(cfgPath); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	fmt.Printf("Set %s = %s in %s\n", key, value, cfgPath)
	return nil
}

// coerceValue converts the raw argument to the type the key expects:
// list keys split on commas, threshold keys parse as numbers, and
// everything else stays a string.
func coerceValue(key, value string) any {
	if key == "criteria.disabled" || strings.HasPrefix(key, "genes.") {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	if strings.HasPrefix(key, "criteria.thresholds.") {
		if n, err := strconv.ParseFloat(value, 64); err == nil {
			return n
		}
	}
	return value
}

func knownKeys() []string {
	keys := make([]string, 0, len(settableKeys))
	for k := range settableKeys {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func runConfigGet(key string) error {
	val := viper.Get(key)
	if val == nil {
		return fmt.Errorf("key %q is not set", key)
	}
	fmt.Println(val)
	return nil
}
