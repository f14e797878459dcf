// Package classify combines evidence verdicts into a categorical
// pathogenicity classification.
package classify

import (
	"fmt"

	"github.com/inodb/varclass/internal/evidence"
)

// Category is the five-tier classification.
type Category int

const (
	Uncertain Category = iota
	Pathogenic
	LikelyPathogenic
	LikelyBenign
	Benign
)

// String returns the reporting label for a category.
func (c Category) String() string {
	switch c {
	case Pathogenic:
		return "Pathogenic"
	case LikelyPathogenic:
		return "Likely pathogenic"
	case LikelyBenign:
		return "Likely benign"
	case Benign:
		return "Benign"
	}
	return "Uncertain significance"
}

// Confidence qualifies how firmly the category is supported.
type Confidence int

const (
	ConfidenceLow Confidence = iota
	ConfidenceMedium
	ConfidenceHigh
)

// String returns the reporting label for a confidence tier.
func (c Confidence) String() string {
	switch c {
	case ConfidenceHigh:
		return "High"
	case ConfidenceMedium:
		return "Medium"
	}
	return "Low"
}

// Result is the final classification for one variant. It is created
// once from the full evidence set and immutable thereafter.
type Result struct {
	Category   Category
	Confidence Confidence
	Evidence   []evidence.Verdict // all verdicts, in registry order
	Rationale  string             // which combination fired, or why not
}

// tally counts applied verdicts by polarity and strength.
type tally struct {
	pvs, ps, pm, pp int // pathogenic: very strong, strong, moderate, supporting
	ba, bs, bp      int // benign: stand-alone, strong, supporting
	missing         int // criteria with no data available
}

func tallyVerdicts(verdicts []evidence.Verdict) tally {
	var t tally
	for _, v := range verdicts {
		if !v.DataAvailable {
			t.missing++
		}
		if !v.Applied {
			continue
		}
		if v.Polarity == evidence.Pathogenic {
			switch v.Strength {
			case evidence.VeryStrong:
				t.pvs++
			case evidence.Strong:
				t.ps++
			case evidence.Moderate:
				t.pm++
			case evidence.Supporting:
				t.pp++
			}
		} else {
			switch v.Strength {
			case evidence.StandAlone:
				t.ba++
			case evidence.Strong:
				t.bs++
			case evidence.Supporting:
				t.bp++
			}
		}
	}
	return t
}

// pathogenicMet reports whether the tally satisfies the Pathogenic
// combination table.
func (t tally) pathogenicMet() bool {
	if t.pvs >= 1 {
		if t.ps >= 1 || t.pm >= 2 || (t.pm == 1 && t.pp >= 1) || t.pp >= 2 {
			return true
		}
	}
	if t.ps >= 2 {
		return true
	}
	if t.ps == 1 {
		if t.pm >= 3 || (t.pm == 2 && t.pp >= 2) || (t.pm == 1 && t.pp >= 4) {
			return true
		}
	}
	return false
}

// likelyPathogenicMet reports whether the tally satisfies the Likely
// Pathogenic combination table.
func (t tally) likelyPathogenicMet() bool {
	// A single very-strong criterion clears the likely-pathogenic floor
	// even without corroboration.
	if t.pvs >= 1 {
		return true
	}
	if t.ps == 1 && t.pm >= 1 && t.pm <= 2 {
		return true
	}
	if t.ps == 1 && t.pp >= 2 {
		return true
	}
	if t.pm >= 3 {
		return true
	}
	if t.pm == 2 && t.pp >= 2 {
		return true
	}
	if t.pm == 1 && t.pp >= 4 {
		return true
	}
	return false
}

func (t tally) benignMet() bool {
	return t.ba >= 1 || t.bs >= 2
}

func (t tally) likelyBenignMet() bool {
	return (t.bs == 1 && t.bp >= 1) || t.bp >= 2
}

// Combine applies the evidence-combination table to the full verdict
// set and returns the classification with its confidence tier.
func Combine(verdicts []evidence.Verdict) Result {
	t := tallyVerdicts(verdicts)

	pathCat := Uncertain
	switch {
	case t.pathogenicMet():
		pathCat = Pathogenic
	case t.likelyPathogenicMet():
		pathCat = LikelyPathogenic
	}

	benignCat := Uncertain
	switch {
	case t.benignMet():
		benignCat = Benign
	case t.likelyBenignMet():
		benignCat = LikelyBenign
	}

	var category Category
	var rationale string
	conflict := false

	switch {
	case pathCat != Uncertain && benignCat != Uncertain:
		// Conflicting evidence is flagged, never silently resolved.
		conflict = true
		category = Uncertain
		rationale = fmt.Sprintf(
			"conflicting evidence: pathogenic combination (%s) and benign combination (%s) both satisfied",
			pathCat, benignCat)
	case pathCat != Uncertain:
		category = pathCat
		rationale = fmt.Sprintf("%s combination satisfied (%dx very strong, %dx strong, %dx moderate, %dx supporting)",
			pathCat, t.pvs, t.ps, t.pm, t.pp)
	case benignCat != Uncertain:
		category = benignCat
		rationale = fmt.Sprintf("%s combination satisfied (%dx stand-alone, %dx strong, %dx supporting)",
			benignCat, t.ba, t.bs, t.bp)
	default:
		category = Uncertain
		rationale = "no combination threshold met"
	}

	return Result{
		Category:   category,
		Confidence: confidence(category, t, len(verdicts), conflict),
		Evidence:   verdicts,
		Rationale:  rationale,
	}
}

// confidence derives the tier from the margin above the minimum
// combination threshold and from the proportion of criteria lacking
// data. Heavy missing data lowers confidence even when a threshold is
// nominally met.
func confidence(category Category, t tally, total int, conflict bool) Confidence {
	if conflict {
		return ConfidenceLow
	}

	missingFrac := 0.0
	if total > 0 {
		missingFrac = float64(t.missing) / float64(total)
	}

	if category == Uncertain {
		// An Uncertain call backed by mostly-present data is a firmer
		// statement than one made in the dark.
		if missingFrac >= 0.5 {
			return ConfidenceLow
		}
		return ConfidenceMedium
	}

	margin := 0
	switch category {
	case Pathogenic:
		// Margin beyond the weakest qualifying combination.
		margin = t.pvs + t.ps - 1 + (t.pm+t.pp)/3
	case LikelyPathogenic:
		margin = t.pvs + t.ps + (t.pm+t.pp)/3 - 1
	case Benign:
		margin = t.ba + t.bs - 1
	case LikelyBenign:
		margin = (t.bs + t.bp) - 2
	}

	switch {
	case missingFrac >= 0.75:
		return ConfidenceLow
	case missingFrac >= 0.5:
		if margin >= 1 {
			return ConfidenceMedium
		}
		return ConfidenceLow
	case margin >= 1:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}
