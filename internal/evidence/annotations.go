package evidence

import (
	"strings"

	"github.com/inodb/varclass/internal/variant"
)

// Annotations is the fixed set of annotation fields the criteria read.
// Every field is independently optional: a nil pointer means the field
// was never observed, which is distinct from any present value
// (including zero). Criteria must check presence before reading.
type Annotations struct {
	// Population data
	AlleleFrequency *float64 // highest population allele frequency
	HomozygoteCount *int     // homozygous observations in healthy adults

	// Computational predictions
	PathogenicityScore *float64 // ensemble missense pathogenicity score, 0..1
	SpliceScore        *float64 // splice-impact score, 0..1

	// Variant effect
	Consequence *string // molecular consequence term
	Gene        *string // gene symbol

	// Clinical assertions from the reference set
	ClinicalSignificance *string // clinical significance text
	ReviewStatus         *string // review confidence tier

	// Established-variant context
	SameAAChangePathogenic *bool // pathogenic variant with the same amino acid change
	SameCodonPathogenic    *bool // different pathogenic missense change at the same codon

	// Inheritance and observation data
	DeNovoConfirmed      *bool
	DeNovoAssumed        *bool
	InTransPathogenic    *bool    // recessive: in trans with a pathogenic variant
	InCisPathogenic      *bool    // in cis with a pathogenic variant
	AlternateCause       *bool    // case has an alternate molecular explanation
	Segregation          *string  // "cosegregation" or "nonsegregation"
	FunctionalImpact     *string  // "damaging" or "no_effect"
	CaseControlOddsRatio *float64 // prevalence in affecteds vs controls
	PhenotypeMatch       *bool    // phenotype highly specific for the gene

	// Positional context
	HotspotDomain *bool // in a mutational hotspot or critical functional domain
	RepeatRegion  *bool // in a repetitive region without known function
}

// Pointer helpers for building Annotations literals.

func Float(v float64) *float64 { return &v }
func Int(v int) *int           { return &v }
func Bool(v bool) *bool        { return &v }
func Str(v string) *string     { return &v }

// Reference-set INFO keys consumed by Merge.
const (
	infoClinSig      = "CLNSIG"
	infoReviewStatus = "CLNREVSTAT"
	infoConsequence  = "MC"
	infoAF           = "AF"
)

// Merge builds the annotation set for a matched pair. The reference
// record contributes clinical assertions; either side contributes gene
// and consequence; missing fields stay nil. Population frequencies and
// computational scores come from the data providers and are attached by
// the caller afterwards.
func Merge(query variant.Record, ref *variant.Record) Annotations {
	var a Annotations

	if gene := firstGene(query, ref); gene != "" {
		a.Gene = Str(gene)
	}

	if c, ok := consequence(query); ok {
		a.Consequence = Str(c)
	} else if ref != nil {
		if c, ok := consequence(*ref); ok {
			a.Consequence = Str(c)
		}
	}

	if ref != nil {
		if sig, ok := ref.InfoString(infoClinSig); ok {
			a.ClinicalSignificance = Str(sig)
		}
		if rev, ok := ref.InfoString(infoReviewStatus); ok {
			a.ReviewStatus = Str(rev)
		}
		if af, ok := ref.InfoFloat(infoAF); ok {
			a.AlleleFrequency = Float(af)
		}
	}

	return a
}

func firstGene(query variant.Record, ref *variant.Record) string {
	if query.Gene != "" {
		return query.Gene
	}
	if ref != nil {
		return ref.Gene
	}
	return ""
}

// consequence extracts a molecular consequence term from a record's MC
// field ("SO:0001589|frameshift_variant" style, possibly multi-valued).
func consequence(r variant.Record) (string, bool) {
	mc, ok := r.InfoString(infoConsequence)
	if !ok {
		return "", false
	}
	first := mc
	if i := strings.IndexByte(first, ','); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, '|'); i >= 0 {
		first = first[i+1:]
	}
	if first == "" {
		return "", false
	}
	return first, true
}

// Consequence groups used by the criteria.

var nullConsequences = map[string]bool{
	"frameshift_variant":      true,
	"frameshift":              true,
	"stop_gained":             true,
	"nonsense":                true,
	"splice_acceptor_variant": true,
	"splice_donor_variant":    true,
	"start_lost":              true,
	"initiator_codon_variant": true,
}

func isNullVariant(c string) bool {
	return nullConsequences[c]
}

func isMissense(c string) bool {
	return c == "missense_variant" || c == "missense"
}

func isSynonymous(c string) bool {
	return c == "synonymous_variant" || c == "synonymous"
}

func isProteinLengthChanging(c string) bool {
	switch c {
	case "inframe_insertion", "inframe_deletion", "inframe_indel", "stop_lost":
		return true
	}
	return false
}

func isInframeIndel(c string) bool {
	switch c {
	case "inframe_insertion", "inframe_deletion", "inframe_indel":
		return true
	}
	return false
}
