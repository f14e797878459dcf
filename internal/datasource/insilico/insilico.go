// Package insilico provides computational pathogenicity and splice
// score lookups from tab-delimited score tables held in memory.
package insilico

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Result holds the scores for one variant. Either score may be absent
// in the source table.
type Result struct {
	PathogenicityScore *float64
	SpliceScore        *float64
}

// Store holds scores keyed by chrom:pos:ref:alt.
type Store struct {
	scores map[string]Result
}

// New creates an empty score store.
func New() *Store {
	return &Store{scores: make(map[string]Result)}
}

// Len returns the number of loaded variants.
func (s *Store) Len() int {
	return len(s.scores)
}

// Load reads a score table from a plain or gzipped TSV file. Expected
// columns, with a header line:
//
//	chrom  pos  ref  alt  pathogenicity_score  splice_score
//
// A "." in a score column means no score for that variant.
func (s *Store) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open score table: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	br := bufio.NewReader(f)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return fmt.Errorf("open gzip score table: %w", err)
		}
		defer gz.Close()
		r = gz
	} else {
		r = br
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1024*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if lineNum == 1 || line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) < 6 {
			return fmt.Errorf("score table line %d: expected 6 columns, got %d", lineNum, len(fields))
		}

		pos, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return fmt.Errorf("score table line %d: bad position %q", lineNum, fields[1])
		}

		result := Result{
			PathogenicityScore: parseScore(fields[4]),
			SpliceScore:        parseScore(fields[5]),
		}
		key := lookupKey(fields[0], pos, fields[2], fields[3])
		s.scores[key] = result
	}
	return scanner.Err()
}

// Add inserts scores for a variant directly. Intended for tests.
func (s *Store) Add(chrom string, pos int64, ref, alt string, pathogenicity, splice *float64) {
	s.scores[lookupKey(chrom, pos, ref, alt)] = Result{
		PathogenicityScore: pathogenicity,
		SpliceScore:        splice,
	}
}

// Lookup returns the scores for a variant. The boolean is false when
// the variant has no entry at all; a present entry may still carry nil
// scores.
func (s *Store) Lookup(chrom string, pos int64, ref, alt string) (Result, bool) {
	r, ok := s.scores[lookupKey(chrom, pos, ref, alt)]
	return r, ok
}

func lookupKey(chrom string, pos int64, ref, alt string) string {
	return chrom + ":" + strconv.FormatInt(pos, 10) + ":" + ref + ":" + alt
}

func parseScore(field string) *float64 {
	if field == "" || field == "." {
		return nil
	}
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return nil
	}
	return &v
}
