package evidence

// Default numeric thresholds. These are the documented defaults for the
// corresponding Thresholds fields; runtime configuration may override
// any of them.
const (
	// DefaultBA1AlleleFrequency: allele frequency at or above which a
	// variant is stand-alone benign evidence.
	DefaultBA1AlleleFrequency = 0.05
	// DefaultBS1AlleleFrequency: allele frequency greater than expected
	// for the disorder (strong benign).
	DefaultBS1AlleleFrequency = 0.01
	// DefaultPM2MaxAlleleFrequency: frequency at or below which a
	// variant counts as absent/extremely rare in population databases.
	DefaultPM2MaxAlleleFrequency = 0.0001
	// DefaultBS2MinHomozygotes: homozygous observations in healthy
	// adults needed for strong benign evidence.
	DefaultBS2MinHomozygotes = 5
	// DefaultPP3MinScore: computational ensemble score at or above
	// which in-silico evidence supports pathogenicity.
	DefaultPP3MinScore = 0.7
	// DefaultBP4MaxScore: computational ensemble score at or below
	// which in-silico evidence supports a benign impact.
	DefaultBP4MaxScore = 0.15
	// DefaultBP7MaxSpliceScore: splice-impact score at or below which a
	// synonymous variant is predicted to leave splicing unaffected.
	DefaultBP7MaxSpliceScore = 0.1
	// DefaultPS4MinOddsRatio: case-control odds ratio at or above which
	// prevalence evidence is strong.
	DefaultPS4MinOddsRatio = 5.0
)

// Thresholds holds every named numeric cutoff used by the criteria.
type Thresholds struct {
	BA1AlleleFrequency    float64 `mapstructure:"ba1_allele_frequency" yaml:"ba1_allele_frequency"`
	BS1AlleleFrequency    float64 `mapstructure:"bs1_allele_frequency" yaml:"bs1_allele_frequency"`
	PM2MaxAlleleFrequency float64 `mapstructure:"pm2_max_allele_frequency" yaml:"pm2_max_allele_frequency"`
	BS2MinHomozygotes     int     `mapstructure:"bs2_min_homozygotes" yaml:"bs2_min_homozygotes"`
	PP3MinScore           float64 `mapstructure:"pp3_min_score" yaml:"pp3_min_score"`
	BP4MaxScore           float64 `mapstructure:"bp4_max_score" yaml:"bp4_max_score"`
	BP7MaxSpliceScore     float64 `mapstructure:"bp7_max_splice_score" yaml:"bp7_max_splice_score"`
	PS4MinOddsRatio       float64 `mapstructure:"ps4_min_odds_ratio" yaml:"ps4_min_odds_ratio"`
}

// Config is the versioned criteria configuration: thresholds plus the
// enabled-criteria set. New criteria variants are expressed as new
// configuration entries, not forked engine code.
type Config struct {
	// Version names the threshold/criteria profile in reports.
	Version string `mapstructure:"version" yaml:"version"`
	// Disabled lists criterion codes excluded from evaluation. A
	// disabled criterion still yields a verdict, marked not applied
	// with its rationale naming the configuration.
	Disabled []string `mapstructure:"disabled" yaml:"disabled"`

	Thresholds Thresholds `mapstructure:"thresholds" yaml:"thresholds"`
}

// DefaultConfig returns the built-in criteria profile.
func DefaultConfig() Config {
	return Config{
		Version: "acmg-2015",
		Thresholds: Thresholds{
			BA1AlleleFrequency:    DefaultBA1AlleleFrequency,
			BS1AlleleFrequency:    DefaultBS1AlleleFrequency,
			PM2MaxAlleleFrequency: DefaultPM2MaxAlleleFrequency,
			BS2MinHomozygotes:     DefaultBS2MinHomozygotes,
			PP3MinScore:           DefaultPP3MinScore,
			BP4MaxScore:           DefaultBP4MaxScore,
			BP7MaxSpliceScore:     DefaultBP7MaxSpliceScore,
			PS4MinOddsRatio:       DefaultPS4MinOddsRatio,
		},
	}
}

func (c Config) disabled(code string) bool {
	for _, d := range c.Disabled {
		if d == code {
			return true
		}
	}
	return false
}
