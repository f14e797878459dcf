package variant

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/inodb/varclass/internal/vcf"
)

// DropReason classifies why a row was rejected during normalization.
type DropReason int

const (
	DropUnknownChrom DropReason = iota
	DropOutOfRange
	DropBadAllele
)

// RowError is a per-row validation failure. Rows failing validation are
// dropped with a warning count; they never abort a batch.
type RowError struct {
	Reason  DropReason
	Message string
}

func (e *RowError) Error() string {
	return e.Message
}

// DropStats counts rows rejected during normalization, by reason.
type DropStats struct {
	UnknownChrom int
	OutOfRange   int
	BadAllele    int
}

// Total returns the total number of dropped rows.
func (d DropStats) Total() int {
	return d.UnknownChrom + d.OutOfRange + d.BadAllele
}

// Add accumulates counts from another DropStats.
func (d *DropStats) Add(o DropStats) {
	d.UnknownChrom += o.UnknownChrom
	d.OutOfRange += o.OutOfRange
	d.BadAllele += o.BadAllele
}

func (d *DropStats) count(r DropReason) {
	switch r {
	case DropUnknownChrom:
		d.UnknownChrom++
	case DropOutOfRange:
		d.OutOfRange++
	case DropBadAllele:
		d.BadAllele++
	}
}

// Normalizer canonicalizes raw variant rows into Records.
type Normalizer struct {
	assembly Assembly
	logger   *zap.Logger
}

// NewNormalizer creates a normalizer for the given assembly.
func NewNormalizer(assembly Assembly) *Normalizer {
	return &Normalizer{
		assembly: assembly,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for per-row warnings.
func (n *Normalizer) SetLogger(l *zap.Logger) {
	n.logger = l
}

// Normalize canonicalizes a single raw variant row. The input must
// already be split to a single alternate allele.
func (n *Normalizer) Normalize(v *vcf.Variant) (Record, *RowError) {
	chrom, ok := CanonicalChrom(v.Chrom)
	if !ok {
		return Record{}, &RowError{DropUnknownChrom, fmt.Sprintf("unknown chromosome token %q", v.Chrom)}
	}

	if v.Pos < 1 {
		return Record{}, &RowError{DropOutOfRange, fmt.Sprintf("position %d below 1", v.Pos)}
	}
	if maxPos, ok := ChromLength(n.assembly, chrom); ok && v.Pos > maxPos {
		return Record{}, &RowError{DropOutOfRange,
			fmt.Sprintf("position %d exceeds %s length %d on %s", v.Pos, chrom, maxPos, n.assembly)}
	}

	ref := strings.ToUpper(v.Ref)
	alt := strings.ToUpper(v.Alt)

	// Genotype-only rows carry no alleles; they keep their position and
	// identifier and are matched by identifier key alone.
	if ref != "" || alt != "" {
		if !validAllele(ref) || !validAllele(alt) {
			return Record{}, &RowError{DropBadAllele,
				fmt.Sprintf("allele not over {A,C,G,T}: ref=%q alt=%q", v.Ref, v.Alt)}
		}
	}

	pos, ref, alt := LeftAlign(v.Pos, ref, alt)

	externalID := v.ID
	if externalID == "." {
		externalID = ""
	}

	gene, _ := v.GeneSymbol()

	return Record{
		Chrom:      chrom,
		Pos:        pos,
		Ref:        ref,
		Alt:        alt,
		ExternalID: externalID,
		Gene:       gene,
		Info:       v.Info,
	}, nil
}

// NormalizeBatch splits multiallelic rows, normalizes every resulting
// row, and drops (with counts) rows that fail validation.
func (n *Normalizer) NormalizeBatch(vs []*vcf.Variant) ([]Record, DropStats) {
	var stats DropStats
	records := make([]Record, 0, len(vs))

	for _, raw := range vs {
		for _, v := range vcf.SplitMultiAllelic(raw) {
			rec, rerr := n.Normalize(v)
			if rerr != nil {
				stats.count(rerr.Reason)
				n.logger.Warn("dropped variant row",
					zap.String("chrom", v.Chrom),
					zap.Int64("pos", v.Pos),
					zap.Error(rerr))
				continue
			}
			records = append(records, rec)
		}
	}

	return records, stats
}

// LeftAlign reduces an allele pair to its minimal representation:
// shared trailing bases are stripped first, then shared leading bases,
// advancing pos by one per stripped leading base. Both alleles always
// retain at least one base. Running LeftAlign on its own output is a
// no-op.
func LeftAlign(pos int64, ref, alt string) (int64, string, string) {
	for len(ref) > 1 && len(alt) > 1 && ref[len(ref)-1] == alt[len(alt)-1] {
		ref = ref[:len(ref)-1]
		alt = alt[:len(alt)-1]
	}
	for len(ref) > 1 && len(alt) > 1 && ref[0] == alt[0] {
		ref = ref[1:]
		alt = alt[1:]
		pos++
	}
	return pos, ref, alt
}

func validAllele(a string) bool {
	if a == "" {
		return false
	}
	for i := 0; i < len(a); i++ {
		switch a[i] {
		case 'A', 'C', 'G', 'T':
		default:
			return false
		}
	}
	return true
}
