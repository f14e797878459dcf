package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/varclass/internal/variant"
)

func refBatch() []variant.Record {
	return []variant.Record{
		{Chrom: "17", Pos: 43094692, Ref: "G", Alt: "A", ExternalID: "rs80357713", Gene: "BRCA1"},
		{Chrom: "12", Pos: 25245350, Ref: "C", Alt: "A", ExternalID: "rs121913530", Gene: "KRAS"},
		{Chrom: "7", Pos: 140753336, Ref: "A", Alt: "T", Gene: "BRAF"}, // no identifier
	}
}

func TestMatcher_IdentifierPreferred(t *testing.T) {
	m := NewMatcher(refBatch())

	// Query with both keys valid: identifier tier wins.
	r := m.MatchOne(variant.Record{
		Chrom: "17", Pos: 43094692, Ref: "G", Alt: "A", ExternalID: "rs80357713",
	})
	require.NotNil(t, r.Reference)
	assert.Equal(t, ProvenanceIdentifier, r.Provenance)
	assert.Equal(t, "BRCA1", r.Reference.Gene)
}

func TestMatcher_CoordinateFallback(t *testing.T) {
	m := NewMatcher(refBatch())

	// No identifier on the query side: coordinate tier.
	r := m.MatchOne(variant.Record{Chrom: "7", Pos: 140753336, Ref: "A", Alt: "T"})
	require.NotNil(t, r.Reference)
	assert.Equal(t, ProvenanceCoordinate, r.Provenance)
	assert.Equal(t, "BRAF", r.Reference.Gene)

	// Identifier present on the query but absent from the reference:
	// still falls through to the coordinate tier.
	r = m.MatchOne(variant.Record{
		Chrom: "12", Pos: 25245350, Ref: "C", Alt: "A", ExternalID: "rs0000001",
	})
	require.NotNil(t, r.Reference)
	assert.Equal(t, ProvenanceCoordinate, r.Provenance)
	assert.Equal(t, "KRAS", r.Reference.Gene)
}

func TestMatcher_Unmatched(t *testing.T) {
	m := NewMatcher(refBatch())

	r := m.MatchOne(variant.Record{Chrom: "1", Pos: 12345, Ref: "A", Alt: "C"})
	assert.Nil(t, r.Reference)
	assert.Equal(t, ProvenanceNone, r.Provenance)
	assert.Equal(t, "none", r.Provenance.String())
}

func TestMatcher_BothKeysAgree(t *testing.T) {
	// For a pair sharing identifier and coordinate keys, either tier
	// alone resolves to the same reference row.
	ref := refBatch()

	q := variant.Record{Chrom: "17", Pos: 43094692, Ref: "G", Alt: "A", ExternalID: "rs80357713"}

	byID := NewMatcher(ref).MatchOne(q)

	noID := q
	noID.ExternalID = ""
	byCoord := NewMatcher(ref).MatchOne(noID)

	require.NotNil(t, byID.Reference)
	require.NotNil(t, byCoord.Reference)
	assert.Equal(t, byID.Reference.CoordinateKey(), byCoord.Reference.CoordinateKey())
}

func TestMatcher_DuplicateIdentifierFirstWins(t *testing.T) {
	ref := []variant.Record{
		{Chrom: "2", Pos: 100, Ref: "A", Alt: "G", ExternalID: "rs1", Gene: "FIRST"},
		{Chrom: "2", Pos: 200, Ref: "C", Alt: "T", ExternalID: "rs1", Gene: "SECOND"},
	}
	m := NewMatcher(ref)

	r := m.MatchOne(variant.Record{ExternalID: "rs1", Chrom: "2", Pos: 100, Ref: "A", Alt: "G"})
	require.NotNil(t, r.Reference)
	assert.Equal(t, "FIRST", r.Reference.Gene)
	assert.Equal(t, 1, m.Stats().DuplicateIdentifiers)
}

func TestMatcher_MatchAllStats(t *testing.T) {
	m := NewMatcher(refBatch())

	query := []variant.Record{
		{Chrom: "17", Pos: 43094692, Ref: "G", Alt: "A", ExternalID: "rs80357713"},
		{Chrom: "12", Pos: 25245350, Ref: "C", Alt: "A"},
		{Chrom: "1", Pos: 555, Ref: "G", Alt: "C"},
	}

	results := m.MatchAll(query)
	require.Len(t, results, 3)

	stats := m.Stats()
	assert.Equal(t, 1, stats.Identifier)
	assert.Equal(t, 1, stats.Coordinate)
	assert.Equal(t, 1, stats.Unmatched)
}

func TestMatcher_GenotypeOnlyQuery(t *testing.T) {
	m := NewMatcher(refBatch())

	// Personal-genome rows have no alleles: identifier tier only.
	r := m.MatchOne(variant.Record{Chrom: "17", Pos: 43094692, ExternalID: "rs80357713"})
	require.NotNil(t, r.Reference)
	assert.Equal(t, ProvenanceIdentifier, r.Provenance)

	r = m.MatchOne(variant.Record{Chrom: "17", Pos: 43094692, ExternalID: "rs_unknown"})
	assert.Nil(t, r.Reference)
}
