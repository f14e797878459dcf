package evidence

import (
	"fmt"
	"strings"
)

// Rule is one independently evaluated evidence criterion. Strength is
// fixed per criterion by the guideline; numeric cutoffs come from the
// Thresholds configuration.
type Rule struct {
	Code     string
	Name     string
	Polarity Polarity
	Strength Strength

	// eval returns (applied, dataAvailable, rationale). It must be a
	// pure function of its arguments and must never panic on malformed
	// input; validation failures degrade to dataAvailable=false.
	eval func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string)
}

// Rules is the ordered registry of all 28 criteria. Evaluation order is
// fixed for stable output, but criteria are independent: no criterion
// reads another's verdict.
var Rules = []Rule{
	// Pathogenic, very strong
	{
		Code: "PVS1", Name: "Null variant in LoF-intolerant gene",
		Polarity: Pathogenic, Strength: VeryStrong,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Consequence == nil {
				return false, false, "molecular consequence not available"
			}
			if a.Gene == nil {
				return false, false, "gene symbol not available"
			}
			if !isNullVariant(*a.Consequence) {
				return false, true, fmt.Sprintf("consequence %q is not a null variant", *a.Consequence)
			}
			if !genes.LoFIntolerant(*a.Gene) {
				return false, true, fmt.Sprintf("loss of function is not an established mechanism for %s", *a.Gene)
			}
			return true, true, fmt.Sprintf("%s in %s, where loss of function causes disease", *a.Consequence, *a.Gene)
		},
	},

	// Pathogenic, strong
	{
		Code: "PS1", Name: "Same amino acid change as established pathogenic variant",
		Polarity: Pathogenic, Strength: Strong,
		eval: boolRule(func(a *Annotations) *bool { return a.SameAAChangePathogenic },
			"same-amino-acid-change assertion",
			"amino acid change matches an established pathogenic variant",
			"no established pathogenic variant with the same amino acid change"),
	},
	{
		Code: "PS2", Name: "De novo, confirmed",
		Polarity: Pathogenic, Strength: Strong,
		eval: boolRule(func(a *Annotations) *bool { return a.DeNovoConfirmed },
			"parentage-confirmed de novo status",
			"confirmed de novo occurrence with maternity and paternity verified",
			"not a confirmed de novo occurrence"),
	},
	{
		Code: "PS3", Name: "Functional studies show damaging effect",
		Polarity: Pathogenic, Strength: Strong,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.FunctionalImpact == nil {
				return false, false, "functional study data not available"
			}
			if *a.FunctionalImpact != "damaging" {
				return false, true, fmt.Sprintf("functional studies report %q, not damaging", *a.FunctionalImpact)
			}
			return true, true, "well-established functional studies show a damaging effect"
		},
	},
	{
		Code: "PS4", Name: "Prevalence in affected individuals significantly increased",
		Polarity: Pathogenic, Strength: Strong,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.CaseControlOddsRatio == nil {
				return false, false, "case-control odds ratio not available"
			}
			if *a.CaseControlOddsRatio < t.PS4MinOddsRatio {
				return false, true, fmt.Sprintf("odds ratio %.2f below cutoff %.2f", *a.CaseControlOddsRatio, t.PS4MinOddsRatio)
			}
			return true, true, fmt.Sprintf("odds ratio %.2f at or above cutoff %.2f", *a.CaseControlOddsRatio, t.PS4MinOddsRatio)
		},
	},

	// Pathogenic, moderate
	{
		Code: "PM1", Name: "Located in mutational hotspot or critical domain",
		Polarity: Pathogenic, Strength: Moderate,
		eval: boolRule(func(a *Annotations) *bool { return a.HotspotDomain },
			"domain/hotspot annotation",
			"located in a mutational hotspot or critical functional domain",
			"not in a known hotspot or critical domain"),
	},
	{
		Code: "PM2", Name: "Absent or extremely rare in population databases",
		Polarity: Pathogenic, Strength: Moderate,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.AlleleFrequency == nil {
				return false, false, "population allele frequency not available"
			}
			if *a.AlleleFrequency > t.PM2MaxAlleleFrequency {
				return false, true, fmt.Sprintf("allele frequency %.6f above rarity cutoff %.6f", *a.AlleleFrequency, t.PM2MaxAlleleFrequency)
			}
			return true, true, fmt.Sprintf("allele frequency %.6f at or below rarity cutoff %.6f", *a.AlleleFrequency, t.PM2MaxAlleleFrequency)
		},
	},
	{
		Code: "PM3", Name: "Detected in trans with pathogenic variant (recessive)",
		Polarity: Pathogenic, Strength: Moderate,
		eval: boolRule(func(a *Annotations) *bool { return a.InTransPathogenic },
			"phase data",
			"in trans with a pathogenic variant in a recessive gene",
			"not observed in trans with a pathogenic variant"),
	},
	{
		Code: "PM4", Name: "Protein length change outside repeat region",
		Polarity: Pathogenic, Strength: Moderate,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Consequence == nil {
				return false, false, "molecular consequence not available"
			}
			if !isProteinLengthChanging(*a.Consequence) {
				return false, true, fmt.Sprintf("consequence %q does not change protein length", *a.Consequence)
			}
			if a.RepeatRegion == nil {
				return false, false, "repeat-region annotation not available"
			}
			if *a.RepeatRegion {
				return false, true, "length change lies in a repetitive region"
			}
			return true, true, fmt.Sprintf("%s outside repeat regions changes protein length", *a.Consequence)
		},
	},
	{
		Code: "PM5", Name: "Novel missense at codon with established pathogenic change",
		Polarity: Pathogenic, Strength: Moderate,
		eval: boolRule(func(a *Annotations) *bool { return a.SameCodonPathogenic },
			"same-codon assertion",
			"different pathogenic missense change established at this codon",
			"no established pathogenic missense change at this codon"),
	},
	{
		Code: "PM6", Name: "De novo, assumed",
		Polarity: Pathogenic, Strength: Moderate,
		eval: boolRule(func(a *Annotations) *bool { return a.DeNovoAssumed },
			"assumed de novo status",
			"assumed de novo occurrence without parentage confirmation",
			"not an assumed de novo occurrence"),
	},

	// Pathogenic, supporting
	{
		Code: "PP1", Name: "Cosegregation with disease",
		Polarity: Pathogenic, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Segregation == nil {
				return false, false, "segregation data not available"
			}
			if *a.Segregation != "cosegregation" {
				return false, true, fmt.Sprintf("segregation data reports %q", *a.Segregation)
			}
			return true, true, "variant cosegregates with disease in affected family members"
		},
	},
	{
		Code: "PP2", Name: "Missense in missense-constrained gene",
		Polarity: Pathogenic, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Consequence == nil {
				return false, false, "molecular consequence not available"
			}
			if a.Gene == nil {
				return false, false, "gene symbol not available"
			}
			if !isMissense(*a.Consequence) {
				return false, true, fmt.Sprintf("consequence %q is not missense", *a.Consequence)
			}
			if !genes.MissenseConstrained(*a.Gene) {
				return false, true, fmt.Sprintf("%s is not missense-constrained", *a.Gene)
			}
			return true, true, fmt.Sprintf("missense change in missense-constrained gene %s", *a.Gene)
		},
	},
	{
		Code: "PP3", Name: "Computational evidence supports deleterious effect",
		Polarity: Pathogenic, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.PathogenicityScore == nil {
				return false, false, "computational pathogenicity score not available"
			}
			if *a.PathogenicityScore < t.PP3MinScore {
				return false, true, fmt.Sprintf("score %.3f below deleterious cutoff %.3f", *a.PathogenicityScore, t.PP3MinScore)
			}
			return true, true, fmt.Sprintf("score %.3f at or above deleterious cutoff %.3f", *a.PathogenicityScore, t.PP3MinScore)
		},
	},
	{
		Code: "PP4", Name: "Phenotype highly specific for the gene",
		Polarity: Pathogenic, Strength: Supporting,
		eval: boolRule(func(a *Annotations) *bool { return a.PhenotypeMatch },
			"phenotype specificity data",
			"patient phenotype is highly specific for this gene",
			"phenotype is not specific for this gene"),
	},
	{
		Code: "PP5", Name: "Reputable source reports pathogenic",
		Polarity: Pathogenic, Strength: Supporting,
		eval: clinSigRule("pathogenic"),
	},

	// Benign, stand-alone
	{
		Code: "BA1", Name: "Allele frequency above stand-alone benign cutoff",
		Polarity: Benign, Strength: StandAlone,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.AlleleFrequency == nil {
				return false, false, "population allele frequency not available"
			}
			if *a.AlleleFrequency < t.BA1AlleleFrequency {
				return false, true, fmt.Sprintf("allele frequency %.6f below stand-alone cutoff %.3f", *a.AlleleFrequency, t.BA1AlleleFrequency)
			}
			return true, true, fmt.Sprintf("allele frequency %.4f at or above stand-alone cutoff %.3f", *a.AlleleFrequency, t.BA1AlleleFrequency)
		},
	},

	// Benign, strong
	{
		Code: "BS1", Name: "Allele frequency greater than expected for disorder",
		Polarity: Benign, Strength: Strong,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.AlleleFrequency == nil {
				return false, false, "population allele frequency not available"
			}
			if *a.AlleleFrequency < t.BS1AlleleFrequency {
				return false, true, fmt.Sprintf("allele frequency %.6f below disorder cutoff %.3f", *a.AlleleFrequency, t.BS1AlleleFrequency)
			}
			return true, true, fmt.Sprintf("allele frequency %.4f exceeds expectation for the disorder", *a.AlleleFrequency)
		},
	},
	{
		Code: "BS2", Name: "Observed homozygous in healthy adults",
		Polarity: Benign, Strength: Strong,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.HomozygoteCount == nil {
				return false, false, "homozygote count not available"
			}
			if *a.HomozygoteCount < t.BS2MinHomozygotes {
				return false, true, fmt.Sprintf("%d homozygotes below cutoff %d", *a.HomozygoteCount, t.BS2MinHomozygotes)
			}
			return true, true, fmt.Sprintf("%d homozygous observations in healthy adults", *a.HomozygoteCount)
		},
	},
	{
		Code: "BS3", Name: "Functional studies show no damaging effect",
		Polarity: Benign, Strength: Strong,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.FunctionalImpact == nil {
				return false, false, "functional study data not available"
			}
			if *a.FunctionalImpact != "no_effect" {
				return false, true, fmt.Sprintf("functional studies report %q, not no_effect", *a.FunctionalImpact)
			}
			return true, true, "well-established functional studies show no damaging effect"
		},
	},
	{
		Code: "BS4", Name: "Lack of segregation in affected family members",
		Polarity: Benign, Strength: Strong,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Segregation == nil {
				return false, false, "segregation data not available"
			}
			if *a.Segregation != "nonsegregation" {
				return false, true, fmt.Sprintf("segregation data reports %q", *a.Segregation)
			}
			return true, true, "variant fails to segregate with disease"
		},
	},

	// Benign, supporting
	{
		Code: "BP1", Name: "Missense where truncating variants cause disease",
		Polarity: Benign, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Consequence == nil {
				return false, false, "molecular consequence not available"
			}
			if a.Gene == nil {
				return false, false, "gene symbol not available"
			}
			if !isMissense(*a.Consequence) {
				return false, true, fmt.Sprintf("consequence %q is not missense", *a.Consequence)
			}
			if !genes.TruncatingMechanism(*a.Gene) {
				return false, true, fmt.Sprintf("truncating variants are not the sole mechanism for %s", *a.Gene)
			}
			return true, true, fmt.Sprintf("missense change in %s, where only truncating variants cause disease", *a.Gene)
		},
	},
	{
		Code: "BP2", Name: "Observed in cis with pathogenic variant",
		Polarity: Benign, Strength: Supporting,
		eval: boolRule(func(a *Annotations) *bool { return a.InCisPathogenic },
			"phase data",
			"in cis with a pathogenic variant",
			"not observed in cis with a pathogenic variant"),
	},
	{
		Code: "BP3", Name: "Inframe indel in repeat region",
		Polarity: Benign, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Consequence == nil {
				return false, false, "molecular consequence not available"
			}
			if !isInframeIndel(*a.Consequence) {
				return false, true, fmt.Sprintf("consequence %q is not an inframe indel", *a.Consequence)
			}
			if a.RepeatRegion == nil {
				return false, false, "repeat-region annotation not available"
			}
			if !*a.RepeatRegion {
				return false, true, "indel lies outside repetitive regions"
			}
			return true, true, "inframe indel in a repetitive region without known function"
		},
	},
	{
		Code: "BP4", Name: "Computational evidence suggests no impact",
		Polarity: Benign, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.PathogenicityScore == nil {
				return false, false, "computational pathogenicity score not available"
			}
			if *a.PathogenicityScore > t.BP4MaxScore {
				return false, true, fmt.Sprintf("score %.3f above benign cutoff %.3f", *a.PathogenicityScore, t.BP4MaxScore)
			}
			return true, true, fmt.Sprintf("score %.3f at or below benign cutoff %.3f", *a.PathogenicityScore, t.BP4MaxScore)
		},
	},
	{
		Code: "BP5", Name: "Alternate molecular cause found",
		Polarity: Benign, Strength: Supporting,
		eval: boolRule(func(a *Annotations) *bool { return a.AlternateCause },
			"alternate-cause observation",
			"case has an alternate molecular basis for disease",
			"no alternate molecular cause identified"),
	},
	{
		Code: "BP6", Name: "Reputable source reports benign",
		Polarity: Benign, Strength: Supporting,
		eval: clinSigRule("benign"),
	},
	{
		Code: "BP7", Name: "Synonymous with no predicted splice impact",
		Polarity: Benign, Strength: Supporting,
		eval: func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
			if a.Consequence == nil {
				return false, false, "molecular consequence not available"
			}
			if !isSynonymous(*a.Consequence) {
				return false, true, fmt.Sprintf("consequence %q is not synonymous", *a.Consequence)
			}
			if a.SpliceScore == nil {
				return false, false, "splice-impact score not available"
			}
			if *a.SpliceScore > t.BP7MaxSpliceScore {
				return false, true, fmt.Sprintf("splice score %.3f above cutoff %.3f", *a.SpliceScore, t.BP7MaxSpliceScore)
			}
			return true, true, "synonymous change with no predicted splice impact"
		},
	},
}

// boolRule builds an eval func for criteria driven by a single optional
// boolean observation.
func boolRule(field func(a *Annotations) *bool, fieldName, appliedMsg, negativeMsg string) func(*Annotations, GeneContext, Thresholds) (bool, bool, string) {
	return func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
		v := field(a)
		if v == nil {
			return false, false, fieldName + " not available"
		}
		if !*v {
			return false, true, negativeMsg
		}
		return true, true, appliedMsg
	}
}

// clinSigRule builds an eval func for the reputable-source criteria
// (PP5/BP6). Conflicting assertions never apply.
func clinSigRule(direction string) func(*Annotations, GeneContext, Thresholds) (bool, bool, string) {
	return func(a *Annotations, genes GeneContext, t Thresholds) (bool, bool, string) {
		if a.ClinicalSignificance == nil {
			return false, false, "clinical significance assertion not available"
		}
		sig := normalizeClinSig(*a.ClinicalSignificance)
		if strings.Contains(sig, "conflicting") {
			return false, true, "clinical assertions conflict"
		}
		if !strings.Contains(sig, direction) {
			return false, true, fmt.Sprintf("reported significance %q is not %s", *a.ClinicalSignificance, direction)
		}
		return true, true, fmt.Sprintf("reputable source reports %q", *a.ClinicalSignificance)
	}
}
