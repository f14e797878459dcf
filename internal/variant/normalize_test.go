package variant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/varclass/internal/vcf"
)

func TestLeftAlign(t *testing.T) {
	tests := []struct {
		name     string
		pos      int64
		ref, alt string
		wantPos  int64
		wantRef  string
		wantAlt  string
	}{
		{"snv untouched", 100, "G", "A", 100, "G", "A"},
		{"padded insertion", 500, "CAT", "CATAT", 500, "C", "CAT"},
		{"padded deletion", 500, "CATAT", "CAT", 500, "CAT", "C"},
		{"shared prefix deletion", 200, "TGGA", "TGA", 200, "TG", "T"},
		{"shared prefix snv", 300, "AAC", "AAT", 302, "C", "T"},
		{"already minimal insertion", 500, "C", "CAT", 500, "C", "CAT"},
		{"pad both sides", 100, "GACCA", "GATTACCA", 100, "G", "GATT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, ref, alt := LeftAlign(tt.pos, tt.ref, tt.alt)
			assert.Equal(t, tt.wantPos, pos)
			assert.Equal(t, tt.wantRef, ref)
			assert.Equal(t, tt.wantAlt, alt)
		})
	}
}

func TestLeftAlign_Idempotent(t *testing.T) {
	cases := []struct {
		pos      int64
		ref, alt string
	}{
		{100, "G", "A"},
		{500, "CAT", "CATAT"},
		{200, "TGGA", "TG"},
		{1, "ATATAT", "AT"},
	}

	for _, c := range cases {
		p1, r1, a1 := LeftAlign(c.pos, c.ref, c.alt)
		p2, r2, a2 := LeftAlign(p1, r1, a1)
		assert.Equal(t, p1, p2, "%s/%s position changed on second pass", c.ref, c.alt)
		assert.Equal(t, r1, r2)
		assert.Equal(t, a1, a2)
	}
}

func TestCanonicalChrom(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"chr1", "1", true},
		{"1", "1", true},
		{"chr17", "17", true},
		{"X", "X", true},
		{"chrX", "X", true},
		{"M", "MT", true},
		{"chrM", "MT", true},
		{"MT", "MT", true},
		{"chr23", "", false},
		{"scaffold_1", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := CanonicalChrom(tt.in)
		assert.Equal(t, tt.ok, ok, "token %q", tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, "token %q", tt.in)
		}
	}
}

func TestNormalizer_Normalize(t *testing.T) {
	n := NewNormalizer(GRCh38)

	rec, rerr := n.Normalize(&vcf.Variant{
		Chrom: "chr17",
		Pos:   43094692,
		ID:    "rs80357713",
		Ref:   "g",
		Alt:   "a",
		Info:  map[string]interface{}{"GENEINFO": "BRCA1:672"},
	})
	require.Nil(t, rerr)

	assert.Equal(t, "17", rec.Chrom)
	assert.Equal(t, int64(43094692), rec.Pos)
	assert.Equal(t, "G", rec.Ref)
	assert.Equal(t, "A", rec.Alt)
	assert.Equal(t, "rs80357713", rec.ExternalID)
	assert.Equal(t, "BRCA1", rec.Gene)
}

func TestNormalizer_Idempotent(t *testing.T) {
	n := NewNormalizer(GRCh38)

	v := &vcf.Variant{Chrom: "chr12", Pos: 25245350, ID: ".", Ref: "CAT", Alt: "CATAT"}
	first, rerr := n.Normalize(v)
	require.Nil(t, rerr)

	again, rerr := n.Normalize(&vcf.Variant{
		Chrom: first.Chrom, Pos: first.Pos, ID: ".", Ref: first.Ref, Alt: first.Alt,
	})
	require.Nil(t, rerr)
	assert.Equal(t, first.Chrom, again.Chrom)
	assert.Equal(t, first.Pos, again.Pos)
	assert.Equal(t, first.Ref, again.Ref)
	assert.Equal(t, first.Alt, again.Alt)
}

func TestNormalizer_Drops(t *testing.T) {
	n := NewNormalizer(GRCh38)

	tests := []struct {
		name   string
		v      *vcf.Variant
		reason DropReason
	}{
		{"unknown chrom", &vcf.Variant{Chrom: "scaffold_1", Pos: 100, Ref: "A", Alt: "G"}, DropUnknownChrom},
		{"position beyond chr17", &vcf.Variant{Chrom: "17", Pos: 90000000, Ref: "A", Alt: "G"}, DropOutOfRange},
		{"position zero", &vcf.Variant{Chrom: "1", Pos: 0, Ref: "A", Alt: "G"}, DropOutOfRange},
		{"ambiguity code", &vcf.Variant{Chrom: "1", Pos: 100, Ref: "N", Alt: "G"}, DropBadAllele},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, rerr := n.Normalize(tt.v)
			require.NotNil(t, rerr)
			assert.Equal(t, tt.reason, rerr.Reason)
		})
	}
}

func TestNormalizer_NormalizeBatch(t *testing.T) {
	n := NewNormalizer(GRCh38)

	batch := []*vcf.Variant{
		{Chrom: "chr12", Pos: 25245350, ID: "rs121913530", Ref: "C", Alt: "A,T",
			Info: map[string]interface{}{"CLNSIG": "Pathogenic"}},
		{Chrom: "bad_contig", Pos: 1, Ref: "A", Alt: "G"},
		{Chrom: "17", Pos: 99999999, Ref: "A", Alt: "G"},
	}

	records, stats := n.NormalizeBatch(batch)

	// The multiallelic row splits into two records, both annotated.
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, "12", r.Chrom)
		sig, ok := r.InfoString("CLNSIG")
		assert.True(t, ok)
		assert.Equal(t, "Pathogenic", sig)
	}
	assert.Equal(t, "A", records[0].Alt)
	assert.Equal(t, "T", records[1].Alt)

	assert.Equal(t, 1, stats.UnknownChrom)
	assert.Equal(t, 1, stats.OutOfRange)
	assert.Equal(t, 2, stats.Total())
}

func TestRecord_Keys(t *testing.T) {
	r := Record{Chrom: "17", Pos: 43094692, Ref: "G", Alt: "A", ExternalID: "RS80357713"}
	assert.Equal(t, "17:43094692:G:A", r.CoordinateKey())
	assert.Equal(t, "rs80357713", r.IdentifierKey())

	// Deterministic: identical normalized records produce identical keys.
	r2 := Record{Chrom: "17", Pos: 43094692, Ref: "G", Alt: "A"}
	assert.Equal(t, r.CoordinateKey(), r2.CoordinateKey())

	// Genotype-only rows have no coordinate key.
	noAllele := Record{Chrom: "1", Pos: 100, ExternalID: "rs42"}
	assert.Equal(t, "", noAllele.CoordinateKey())
	assert.Equal(t, "rs42", noAllele.IdentifierKey())

	// No identifier.
	anon := Record{Chrom: "1", Pos: 100, Ref: "A", Alt: "G"}
	assert.Equal(t, "", anon.IdentifierKey())
}
