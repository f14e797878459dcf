package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/varclass/internal/datasource/gnomad"
	"github.com/inodb/varclass/internal/datasource/insilico"
	"github.com/inodb/varclass/internal/evidence"
	"github.com/inodb/varclass/internal/pipeline"
	"github.com/inodb/varclass/internal/variant"
)

func newClassifyCmd() *cobra.Command {
	var (
		assembly     string
		inputFormat  string
		outputFile   string
		noCheckpoint bool
		frequencyDB  string
		scoreTable   string
		quiet        bool
	)

	cmd := &cobra.Command{
		Use:   "classify <reference-vcf> <query-file>",
		Short: "Classify query variants against a reference table",
		Example: `  varclass classify clinvar.vcf.gz patient.vcf
  varclass classify clinvar.vcf.gz genotypes.txt --input-format pgs
  varclass classify clinvar.vcf.gz patient.vcf --frequency-db ~/.varclass/gnomad.duckdb -o calls.tsv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			refPath, queryPath := args[0], args[1]

			format, err := pipeline.ParseFormat(inputFormat)
			if err != nil {
				return err
			}

			if assembly == "" {
				assembly = viper.GetString("assembly")
			}
			if assembly == "" {
				assembly = "GRCh38"
			}
			asm, ok := variant.ParseAssembly(assembly)
			if !ok {
				return fmt.Errorf("unknown assembly %q (want GRCh37 or GRCh38)", assembly)
			}

			cfg, genes, err := loadCriteriaConfig()
			if err != nil {
				return err
			}

			p := pipeline.New(cfg, genes, asm)
			p.SetLogger(logger)
			if !noCheckpoint {
				if dir := defaultCheckpointDir(); dir != "" {
					p.SetCheckpointDir(dir)
				}
			}

			if frequencyDB == "" {
				frequencyDB = viper.GetString("sources.frequency_db")
			}
			if frequencyDB != "" {
				freq, err := gnomad.Open(frequencyDB)
				if err != nil {
					return fmt.Errorf("open frequency database: %w", err)
				}
				defer freq.Close()
				p.SetFrequencySource(freq)
			}

			if scoreTable == "" {
				scoreTable = viper.GetString("sources.score_table")
			}
			if scoreTable != "" {
				scores := insilico.New()
				if err := scores.Load(scoreTable); err != nil {
					return fmt.Errorf("load score table: %w", err)
				}
				p.SetScoreSource(scores)
			}

			out := os.Stdout
			if outputFile != "" {
				out, err = os.Create(outputFile)
				if err != nil {
					return fmt.Errorf("create output file: %w", err)
				}
				defer out.Close()
			}

			var summary io.Writer
			if !quiet {
				summary = os.Stderr
			}

			return p.Run(cmd.Context(), refPath, queryPath, format, out, summary)
		},
	}

	cmd.Flags().StringVar(&assembly, "assembly", "", "genome assembly: GRCh37 or GRCh38 (default GRCh38)")
	cmd.Flags().StringVar(&inputFormat, "input-format", "", "query input format: vcf or pgs (default vcf)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&noCheckpoint, "no-checkpoint", false, "disable the reference checkpoint cache")
	cmd.Flags().StringVar(&frequencyDB, "frequency-db", "", "population frequency DuckDB database")
	cmd.Flags().StringVar(&scoreTable, "scores", "", "computational score TSV table")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress the run summary")

	return cmd
}

// loadCriteriaConfig builds the evidence configuration and gene context
// from defaults overlaid with the config file.
func loadCriteriaConfig() (evidence.Config, evidence.GeneContext, error) {
	cfg := evidence.DefaultConfig()
	if viper.IsSet("criteria") {
		if err := viper.UnmarshalKey("criteria", &cfg); err != nil {
			return cfg, evidence.GeneContext{}, fmt.Errorf("decode criteria config: %w", err)
		}
	}

	genes := evidence.NewGeneContext(
		viper.GetStringSlice("genes.lof_intolerant"),
		viper.GetStringSlice("genes.missense_constrained"),
		viper.GetStringSlice("genes.truncating_mechanism"),
	)
	return cfg, genes, nil
}
