package evidence

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Engine evaluates the criteria registry against annotation sets.
type Engine struct {
	config Config
	genes  GeneContext
	logger *zap.Logger
}

// NewEngine creates an engine with the given configuration and gene
// context. Both are treated as immutable.
func NewEngine(config Config, genes GeneContext) *Engine {
	return &Engine{
		config: config,
		genes:  genes,
		logger: zap.NewNop(),
	}
}

// SetLogger sets the logger for evaluation diagnostics.
func (e *Engine) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Config returns the engine's criteria configuration.
func (e *Engine) Config() Config {
	return e.config
}

// Evaluate runs every criterion against the annotation set and returns
// one verdict per criterion, in registry order. Criteria are
// independent and side-effect-free, so evaluation order cannot affect
// the result.
//
// A criterion reporting applied without data available would silently
// corrupt downstream classification, so that combination panics here
// rather than propagating.
func (e *Engine) Evaluate(a *Annotations) []Verdict {
	verdicts := make([]Verdict, 0, len(Rules))

	for _, rule := range Rules {
		if e.config.disabled(rule.Code) {
			verdicts = append(verdicts, Verdict{
				Code:          rule.Code,
				Applied:       false,
				DataAvailable: false,
				Strength:      rule.Strength,
				Polarity:      rule.Polarity,
				Rationale:     fmt.Sprintf("criterion disabled in profile %s", e.config.Version),
			})
			continue
		}

		applied, available, rationale := rule.eval(a, e.genes, e.config.Thresholds)
		if applied && !available {
			panic(fmt.Sprintf("evidence: criterion %s applied without available data", rule.Code))
		}

		verdicts = append(verdicts, Verdict{
			Code:          rule.Code,
			Applied:       applied,
			DataAvailable: available,
			Strength:      rule.Strength,
			Polarity:      rule.Polarity,
			Rationale:     rationale,
		})
	}

	return verdicts
}

// normalizeClinSig lowers case and maps separator characters so ClinVar
// style values ("Likely_pathogenic", "Benign/Likely_benign") compare
// uniformly.
func normalizeClinSig(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "/", " ")
	return s
}
