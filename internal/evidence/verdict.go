// Package evidence evaluates the 28 ACMG/AMP evidence criteria against
// a variant's available annotation fields.
package evidence

// Strength is the categorical weight of an applied criterion, fixed per
// criterion by the governing guideline.
type Strength int

const (
	VeryStrong Strength = iota
	Strong
	Moderate
	Supporting
	StandAlone
)

// String returns the guideline label for a strength tier.
func (s Strength) String() string {
	switch s {
	case VeryStrong:
		return "VeryStrong"
	case Strong:
		return "Strong"
	case Moderate:
		return "Moderate"
	case Supporting:
		return "Supporting"
	case StandAlone:
		return "StandAlone"
	}
	return "Unknown"
}

// Polarity is the direction a criterion argues in.
type Polarity int

const (
	Pathogenic Polarity = iota
	Benign
)

// String returns the polarity label.
func (p Polarity) String() string {
	if p == Benign {
		return "benign"
	}
	return "pathogenic"
}

// Verdict is one evaluated criterion outcome.
//
// DataAvailable distinguishes "evidence checked and negative" from
// "required field absent". When DataAvailable is false, Applied is
// always false: absence of data is never treated as a signal in either
// direction.
type Verdict struct {
	Code          string
	Applied       bool
	DataAvailable bool
	Strength      Strength
	Polarity      Polarity
	Rationale     string
}
