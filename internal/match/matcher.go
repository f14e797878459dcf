// Package match joins query variants to reference annotations using a
// two-tier identifier/coordinate strategy.
package match

import (
	"go.uber.org/zap"

	"github.com/inodb/varclass/internal/variant"
)

// Provenance records which key tier produced a match.
type Provenance int

const (
	ProvenanceNone Provenance = iota
	ProvenanceIdentifier
	ProvenanceCoordinate
)

// String returns the provenance label used in output and summaries.
func (p Provenance) String() string {
	switch p {
	case ProvenanceIdentifier:
		return "identifier"
	case ProvenanceCoordinate:
		return "coordinate"
	}
	return "none"
}

// Result pairs one query record with zero or one reference record.
type Result struct {
	Query      variant.Record
	Reference  *variant.Record
	Provenance Provenance
}

// Stats aggregates match outcomes over a batch.
type Stats struct {
	Identifier           int // matched via identifier key
	Coordinate           int // matched via coordinate key
	Unmatched            int
	DuplicateIdentifiers int // reference rows sharing an identifier key (first wins)
	DuplicateCoordinates int // reference rows sharing a coordinate key (first wins)
}

// Matcher joins normalized query batches against a normalized reference
// batch. Identifier matches are preferred; coordinate matches cover the
// remainder. Both sides must already be normalized, or formatting
// differences produce false negatives on the coordinate tier.
type Matcher struct {
	byIdentifier map[string]int
	byCoordinate map[string]int
	reference    []variant.Record
	stats        Stats
	logger       *zap.Logger
}

// NewMatcher creates a matcher over the given reference batch. The
// reference index is built on first use.
func NewMatcher(reference []variant.Record) *Matcher {
	return &Matcher{
		reference: reference,
		logger:    zap.NewNop(),
	}
}

// SetLogger sets the logger for duplicate-key warnings.
func (m *Matcher) SetLogger(l *zap.Logger) {
	m.logger = l
}

// index builds the identifier and coordinate lookup tables. Duplicate
// keys keep the first encountered reference row and are counted, never
// silently merged.
func (m *Matcher) index() {
	if m.byIdentifier != nil {
		return
	}
	m.byIdentifier = make(map[string]int, len(m.reference))
	m.byCoordinate = make(map[string]int, len(m.reference))

	for i := range m.reference {
		if key := m.reference[i].IdentifierKey(); key != "" {
			if _, exists := m.byIdentifier[key]; exists {
				m.stats.DuplicateIdentifiers++
				m.logger.Warn("duplicate reference identifier, keeping first",
					zap.String("identifier", key))
				continue
			}
			m.byIdentifier[key] = i
		}
	}
	for i := range m.reference {
		if key := m.reference[i].CoordinateKey(); key != "" {
			if _, exists := m.byCoordinate[key]; exists {
				m.stats.DuplicateCoordinates++
				m.logger.Warn("duplicate reference coordinate key, keeping first",
					zap.String("key", key))
				continue
			}
			m.byCoordinate[key] = i
		}
	}
}

// MatchOne resolves a single query record.
func (m *Matcher) MatchOne(q variant.Record) Result {
	m.index()

	if key := q.IdentifierKey(); key != "" {
		if i, ok := m.byIdentifier[key]; ok {
			m.stats.Identifier++
			return Result{Query: q, Reference: &m.reference[i], Provenance: ProvenanceIdentifier}
		}
	}
	if key := q.CoordinateKey(); key != "" {
		if i, ok := m.byCoordinate[key]; ok {
			m.stats.Coordinate++
			return Result{Query: q, Reference: &m.reference[i], Provenance: ProvenanceCoordinate}
		}
	}
	m.stats.Unmatched++
	return Result{Query: q, Provenance: ProvenanceNone}
}

// MatchAll resolves every query record and returns one Result per row.
func (m *Matcher) MatchAll(query []variant.Record) []Result {
	results := make([]Result, len(query))
	for i, q := range query {
		results[i] = m.MatchOne(q)
	}
	return results
}

// Stats returns the aggregate match counts so far.
func (m *Matcher) Stats() Stats {
	return m.stats
}
