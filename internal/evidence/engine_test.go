package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_DisabledCriterion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Version = "acmg-2015-no-pp5"
	cfg.Disabled = []string{"PP5", "BP6"}

	engine := NewEngine(cfg, testGenes())
	verdicts := engine.Evaluate(&Annotations{ClinicalSignificance: Str("Pathogenic")})

	pp5 := findVerdict(t, verdicts, "PP5")
	assert.False(t, pp5.Applied)
	assert.Contains(t, pp5.Rationale, "disabled in profile acmg-2015-no-pp5")

	// Other criteria are unaffected.
	require.Len(t, verdicts, 28)
}

func TestEngine_OrderIndependence(t *testing.T) {
	engine := NewEngine(DefaultConfig(), testGenes())

	a := allFieldsNegative()
	a.Consequence = Str("frameshift_variant")
	a.Gene = Str("BRCA1")

	first := engine.Evaluate(a)
	second := engine.Evaluate(a)
	assert.Equal(t, first, second, "evaluation must be deterministic and side-effect-free")
}

func TestEngine_InvariantViolationPanics(t *testing.T) {
	bad := Rule{
		Code: "XX1", Name: "broken",
		Polarity: Pathogenic, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			return true, false, "applied without data"
		},
	}

	Rules = append(Rules, bad)
	defer func() { Rules = Rules[:len(Rules)-1] }()

	engine := NewEngine(DefaultConfig(), testGenes())
	assert.Panics(t, func() {
		engine.Evaluate(&Annotations{})
	})
}

func TestNormalizeClinSig(t *testing.T) {
	assert.Equal(t, "benign likely benign", normalizeClinSig("Benign/Likely_benign"))
	assert.Equal(t, "pathogenic", normalizeClinSig("Pathogenic"))
}
