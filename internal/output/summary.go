package output

import (
	"fmt"
	"io"

	"github.com/inodb/varclass/internal/classify"
	"github.com/inodb/varclass/internal/match"
	"github.com/inodb/varclass/internal/variant"
)

// RunSummary accumulates per-run counters for the end-of-run report.
// ReferenceDrops is zero when the reference came from a checkpoint,
// since the cached table is already normalized.
type RunSummary struct {
	QueryRows      int
	ReferenceDrops variant.DropStats
	QueryDrops     variant.DropStats
	MatchStats     match.Stats
	Categories     map[classify.Category]int
	LowConfidence  int
}

// NewRunSummary creates an empty summary.
func NewRunSummary() *RunSummary {
	return &RunSummary{Categories: make(map[classify.Category]int)}
}

// Record counts one classified variant.
func (rs *RunSummary) Record(r classify.Result) {
	rs.Categories[r.Category]++
	if r.Confidence == classify.ConfidenceLow {
		rs.LowConfidence++
	}
}

// Write renders the summary as a human-readable report.
func (rs *RunSummary) Write(w io.Writer) error {
	lines := []string{
		fmt.Sprintf("Query rows:            %d", rs.QueryRows),
		fmt.Sprintf("Dropped query rows:    %d (unknown chrom %d, out of range %d, bad allele %d)",
			rs.QueryDrops.Total(), rs.QueryDrops.UnknownChrom, rs.QueryDrops.OutOfRange, rs.QueryDrops.BadAllele),
		fmt.Sprintf("Dropped reference rows: %d (unknown chrom %d, out of range %d, bad allele %d)",
			rs.ReferenceDrops.Total(), rs.ReferenceDrops.UnknownChrom, rs.ReferenceDrops.OutOfRange, rs.ReferenceDrops.BadAllele),
		fmt.Sprintf("Matched by identifier: %d", rs.MatchStats.Identifier),
		fmt.Sprintf("Matched by coordinate: %d", rs.MatchStats.Coordinate),
		fmt.Sprintf("Unmatched:             %d", rs.MatchStats.Unmatched),
		"",
	}

	for _, c := range []classify.Category{
		classify.Pathogenic, classify.LikelyPathogenic, classify.Uncertain,
		classify.LikelyBenign, classify.Benign,
	} {
		lines = append(lines, fmt.Sprintf("%-22s %d", c.String()+":", rs.Categories[c]))
	}
	lines = append(lines, "", fmt.Sprintf("Low confidence calls:  %d", rs.LowConfidence))

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}
