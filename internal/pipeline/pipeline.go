// Package pipeline wires normalization, matching, evidence evaluation
// and classification into one run.
package pipeline

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/inodb/varclass/internal/checkpoint"
	"github.com/inodb/varclass/internal/classify"
	"github.com/inodb/varclass/internal/datasource/gnomad"
	"github.com/inodb/varclass/internal/datasource/insilico"
	"github.com/inodb/varclass/internal/evidence"
	"github.com/inodb/varclass/internal/match"
	"github.com/inodb/varclass/internal/output"
	"github.com/inodb/varclass/internal/pgs"
	"github.com/inodb/varclass/internal/sched"
	"github.com/inodb/varclass/internal/variant"
	"github.com/inodb/varclass/internal/vcf"
)

// Format selects the query input parser.
type Format int

const (
	FormatVCF Format = iota
	FormatPGS
)

// ParseFormat maps a format name to a Format.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "vcf", "":
		return FormatVCF, nil
	case "pgs":
		return FormatPGS, nil
	}
	return FormatVCF, fmt.Errorf("unknown input format %q (want vcf or pgs)", s)
}

// Classified pairs a match with its classification.
type Classified struct {
	Match          match.Result
	Classification classify.Result
}

// Pipeline runs the full classification flow for one configuration.
type Pipeline struct {
	assembly      variant.Assembly
	engine        *evidence.Engine
	planner       *sched.Planner
	logger        *zap.Logger
	checkpointDir string
	freq          *gnomad.Store
	scores        *insilico.Store
}

// New creates a pipeline for the given criteria configuration, gene
// context and genome assembly.
func New(cfg evidence.Config, genes evidence.GeneContext, assembly variant.Assembly) *Pipeline {
	return &Pipeline{
		assembly: assembly,
		engine:   evidence.NewEngine(cfg, genes),
		planner:  sched.NewPlanner(),
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for the pipeline and its stages.
func (p *Pipeline) SetLogger(l *zap.Logger) {
	p.logger = l
	p.engine.SetLogger(l)
	p.planner.SetLogger(l)
}

// SetCheckpointDir enables checkpointing of the normalized reference
// table under dir. Empty disables checkpointing.
func (p *Pipeline) SetCheckpointDir(dir string) {
	p.checkpointDir = dir
}

// SetPlanner replaces the default work planner.
func (p *Pipeline) SetPlanner(planner *sched.Planner) {
	p.planner = planner
}

// SetFrequencySource attaches a population frequency provider.
func (p *Pipeline) SetFrequencySource(s *gnomad.Store) {
	p.freq = s
}

// SetScoreSource attaches a computational score provider.
func (p *Pipeline) SetScoreSource(s *insilico.Store) {
	p.scores = s
}

// LoadReference parses and normalizes the reference table, consulting
// the checkpoint cache when enabled. Drop stats are zero on a
// checkpoint hit since the cached table is already normalized.
func (p *Pipeline) LoadReference(ctx context.Context, path string) ([]variant.Record, variant.DropStats, error) {
	if p.checkpointDir == "" {
		return p.normalizeFile(ctx, path, FormatVCF)
	}

	fp, err := checkpoint.HashFile(path)
	if err != nil {
		return nil, variant.DropStats{}, fmt.Errorf("fingerprint reference: %w", err)
	}

	cache := checkpoint.New(p.checkpointDir, "reference")
	cache.SetLogger(p.logger)

	if cache.Valid(fp) {
		records, err := cache.Load()
		if err == nil {
			p.logger.Info("reference loaded from checkpoint",
				zap.String("path", path),
				zap.Int("rows", len(records)))
			return records, variant.DropStats{}, nil
		}
		p.logger.Warn("checkpoint load failed, regenerating", zap.Error(err))
		cache.Clear()
	}

	records, drops, err := p.normalizeFile(ctx, path, FormatVCF)
	if err != nil {
		return nil, drops, err
	}
	if err := cache.Write(records, fp); err != nil {
		return nil, drops, fmt.Errorf("write reference checkpoint: %w", err)
	}
	return records, drops, nil
}

// LoadQuery parses and normalizes the query table.
func (p *Pipeline) LoadQuery(ctx context.Context, path string, format Format) ([]variant.Record, variant.DropStats, error) {
	return p.normalizeFile(ctx, path, format)
}

// normOutcome carries the per-row normalization result through the
// scheduler.
type normOutcome struct {
	records []variant.Record
	drops   variant.DropStats
}

func (p *Pipeline) normalizeFile(ctx context.Context, path string, format Format) ([]variant.Record, variant.DropStats, error) {
	variants, err := p.parseAll(path, format)
	if err != nil {
		return nil, variant.DropStats{}, err
	}

	normalizer := variant.NewNormalizer(p.assembly)
	normalizer.SetLogger(p.logger)

	outcomes, err := sched.Execute(ctx, p.planner, variants,
		func(v *vcf.Variant) (normOutcome, error) {
			records, drops := normalizer.NormalizeBatch([]*vcf.Variant{v})
			return normOutcome{records: records, drops: drops}, nil
		})
	if err != nil {
		return nil, variant.DropStats{}, fmt.Errorf("normalize %s: %w", path, err)
	}

	var records []variant.Record
	var drops variant.DropStats
	for _, o := range outcomes {
		records = append(records, o.records...)
		drops.Add(o.drops)
	}

	p.logger.Info("normalized input",
		zap.String("path", path),
		zap.Int("rows", len(records)),
		zap.Int("dropped", drops.Total()))
	return records, drops, nil
}

func (p *Pipeline) parseAll(path string, format Format) ([]*vcf.Variant, error) {
	var parser vcf.VariantParser
	var err error
	switch format {
	case FormatPGS:
		parser, err = pgs.NewParser(path)
	default:
		parser, err = vcf.NewParser(path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer parser.Close()

	var variants []*vcf.Variant
	for {
		v, err := parser.Next()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		if v == nil {
			break
		}
		variants = append(variants, v)
	}
	return variants, nil
}

// Classify matches each query record against the reference and runs
// the evidence engine and combiner on every match result, including
// unmatched queries.
func (p *Pipeline) Classify(ctx context.Context, reference, query []variant.Record) ([]Classified, match.Stats, error) {
	matcher := match.NewMatcher(reference)
	matcher.SetLogger(p.logger)

	matches := matcher.MatchAll(query)

	classified, err := sched.Execute(ctx, p.planner, matches,
		func(m match.Result) (Classified, error) {
			a := evidence.Merge(m.Query, m.Reference)
			p.attachSources(m.Query, &a)
			verdicts := p.engine.Evaluate(&a)
			return Classified{Match: m, Classification: classify.Combine(verdicts)}, nil
		})
	if err != nil {
		return nil, match.Stats{}, fmt.Errorf("classify: %w", err)
	}

	return classified, matcher.Stats(), nil
}

// attachSources fills annotation fields from the configured providers.
// Merged reference annotations win; providers only fill gaps.
func (p *Pipeline) attachSources(q variant.Record, a *evidence.Annotations) {
	if q.Ref == "" && q.Alt == "" {
		return
	}

	if p.freq != nil && a.AlleleFrequency == nil {
		if r, ok := p.freq.Lookup(q.Chrom, q.Pos, q.Ref, q.Alt); ok {
			a.AlleleFrequency = evidence.Float(r.AlleleFrequency)
			if a.HomozygoteCount == nil {
				a.HomozygoteCount = evidence.Int(int(r.Homozygotes))
			}
		}
	}

	if p.scores != nil {
		if r, ok := p.scores.Lookup(q.Chrom, q.Pos, q.Ref, q.Alt); ok {
			if a.PathogenicityScore == nil && r.PathogenicityScore != nil {
				a.PathogenicityScore = evidence.Float(*r.PathogenicityScore)
			}
			if a.SpliceScore == nil && r.SpliceScore != nil {
				a.SpliceScore = evidence.Float(*r.SpliceScore)
			}
		}
	}
}

// Run executes the full flow and writes the classification table and
// run summary.
func (p *Pipeline) Run(ctx context.Context, refPath, queryPath string, format Format, out, summaryOut io.Writer) error {
	reference, refDrops, err := p.LoadReference(ctx, refPath)
	if err != nil {
		return err
	}

	query, drops, err := p.LoadQuery(ctx, queryPath, format)
	if err != nil {
		return err
	}

	classified, stats, err := p.Classify(ctx, reference, query)
	if err != nil {
		return err
	}

	tw := output.NewTabWriter(out)
	if err := tw.WriteHeader(); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	summary := output.NewRunSummary()
	summary.QueryRows = len(query) + drops.Total()
	summary.QueryDrops = drops
	summary.ReferenceDrops = refDrops
	summary.MatchStats = stats

	for _, c := range classified {
		if err := tw.Write(c.Match, c.Classification); err != nil {
			return fmt.Errorf("write result: %w", err)
		}
		summary.Record(c.Classification)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	if summaryOut != nil {
		if err := summary.Write(summaryOut); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	return nil
}
