// Package vcf provides VCF file parsing functionality.
package vcf

import (
	"strconv"
	"strings"
)

// Variant represents a single raw variant row from a VCF file,
// before coordinate normalization.
type Variant struct {
	Chrom  string                 // Chromosome name (e.g., "17", "chr17")
	Pos    int64                  // 1-based genomic position
	ID     string                 // Variant identifier (e.g., rs ID), "." when absent
	Ref    string                 // Reference allele
	Alt    string                 // Alternate allele (may be comma-separated before splitting)
	Qual   float64                // Quality score
	Filter string                 // Filter status (PASS or filter name)
	Info   map[string]interface{} // INFO field key-value pairs
}

// IsSNV returns true if the variant is a single nucleotide variant.
func (v *Variant) IsSNV() bool {
	return len(v.Ref) == 1 && len(v.Alt) == 1
}

// IsIndel returns true if the variant is an insertion or deletion.
func (v *Variant) IsIndel() bool {
	return len(v.Ref) != len(v.Alt)
}

// InfoString returns a string-valued INFO field and whether it was present.
func (v *Variant) InfoString(key string) (string, bool) {
	raw, ok := v.Info[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" || s == "." {
		return "", false
	}
	return s, true
}

// InfoFloat returns a float-valued INFO field and whether it was present
// and parseable. Missing or malformed values report false, never zero.
func (v *Variant) InfoFloat(key string) (float64, bool) {
	s, ok := v.InfoString(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// GeneSymbol extracts the gene symbol from a ClinVar-style GENEINFO
// INFO field ("BRCA1:672" or "BRCA1:672|NBR2:10230").
func (v *Variant) GeneSymbol() (string, bool) {
	s, ok := v.InfoString("GENEINFO")
	if !ok {
		return "", false
	}
	first := s
	if i := strings.IndexByte(first, '|'); i >= 0 {
		first = first[:i]
	}
	if i := strings.IndexByte(first, ':'); i >= 0 {
		first = first[:i]
	}
	if first == "" {
		return "", false
	}
	return first, true
}
