// Package variant provides coordinate normalization and identity keys
// for genomic variant records.
package variant

import (
	"strconv"
	"strings"
)

// Record is a single normalized variant observation. Chrom is canonical
// (1..22, X, Y, MT), Pos is 1-based and bounds-checked against the
// assembly, and Ref/Alt are left-aligned.
type Record struct {
	Chrom      string
	Pos        int64
	Ref        string
	Alt        string
	ExternalID string                 // stable cross-reference identifier (rs ID), "" when absent
	Gene       string                 // gene symbol, "" when absent
	Info       map[string]interface{} // source annotation fields, each independently optional
}

// InfoString returns a string-valued annotation field and whether it was present.
func (r *Record) InfoString(key string) (string, bool) {
	raw, ok := r.Info[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" || s == "." {
		return "", false
	}
	return s, true
}

// InfoFloat returns a float-valued annotation field and whether it was
// present and parseable. Absence is never reported as zero.
func (r *Record) InfoFloat(key string) (float64, bool) {
	s, ok := r.InfoString(key)
	if !ok {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// CoordinateKey returns the deterministic identity key built from
// chromosome, position and alleles. The key is the literal
// "chrom:pos:ref:alt" encoding, so distinct normalized variants can
// never collide. Returns "" when either allele is unknown (e.g. rows
// from genotype-only input).
func (r *Record) CoordinateKey() string {
	if r.Ref == "" || r.Alt == "" {
		return ""
	}
	return r.Chrom + ":" + strconv.FormatInt(r.Pos, 10) + ":" + r.Ref + ":" + r.Alt
}

// IdentifierKey returns the normalized external identifier key, or ""
// when the record has no identifier.
func (r *Record) IdentifierKey() string {
	return strings.ToLower(r.ExternalID)
}
