// Package gnomad provides population allele-frequency lookups backed by
// DuckDB. Frequency tables are loaded from tab-delimited exports with
// one row per (chrom, pos, ref, alt).
package gnomad

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "github.com/marcboeker/go-duckdb"
)

// Store provides allele-frequency lookups backed by DuckDB. Lookup is
// safe for concurrent use.
type Store struct {
	db       *sql.DB
	prepOnce sync.Once
	lookupPS *sql.Stmt // prepared statement for Lookup, initialized on first use
}

// Result holds a single frequency lookup result.
type Result struct {
	AlleleFrequency float64
	Homozygotes     int64
}

// Open opens or creates a DuckDB database for frequency data at the
// given path. Use an empty string for an in-memory database.
func Open(dbPath string) (*Store, error) {
	if dbPath != "" {
		if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
			return nil, fmt.Errorf("create directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS population_frequency (
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		af DOUBLE,
		nhomalt BIGINT
	)`); err != nil {
		return err
	}
	s.db.Exec(`CREATE INDEX IF NOT EXISTS idx_freq_lookup ON population_frequency (chrom, pos, ref, alt)`)
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.lookupPS != nil {
		s.lookupPS.Close()
	}
	return s.db.Close()
}

// Loaded returns true if the frequency table has data.
func (s *Store) Loaded() bool {
	var count int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM population_frequency").Scan(&count)
	return err == nil && count > 0
}

// Count returns the number of rows in the frequency table.
func (s *Store) Count() (int64, error) {
	var count int64
	if err := s.db.QueryRow("SELECT COUNT(*) FROM population_frequency").Scan(&count); err != nil {
		return 0, fmt.Errorf("count frequency rows: %w", err)
	}
	return count, nil
}

// Load bulk-loads frequency data from a (possibly gzipped) TSV file
// using DuckDB's read_csv. Expected columns, with a header line:
//
//	chrom  pos  ref  alt  af  nhomalt
func (s *Store) Load(tsvPath string) error {
	// Idempotent reload.
	s.db.Exec(`DELETE FROM population_frequency`)

	query := fmt.Sprintf(`INSERT INTO population_frequency
		SELECT chrom, pos, ref, alt,
			CAST(af AS DOUBLE), CAST(nhomalt AS BIGINT)
		FROM read_csv('%s', delim='\t', header=true,
			columns={
				'chrom': 'VARCHAR',
				'pos': 'BIGINT',
				'ref': 'VARCHAR',
				'alt': 'VARCHAR',
				'af': 'VARCHAR',
				'nhomalt': 'VARCHAR'
			})`, tsvPath)

	if _, err := s.db.Exec(query); err != nil {
		return fmt.Errorf("loading frequency data: %w", err)
	}
	return nil
}

// Insert adds frequency rows directly. Intended for tests and small
// curated tables; bulk data goes through Load.
func (s *Store) Insert(chrom string, pos int64, ref, alt string, af float64, nhomalt int64) error {
	_, err := s.db.Exec(
		"INSERT INTO population_frequency VALUES (?, ?, ?, ?, ?, ?)",
		chrom, pos, ref, alt, af, nhomalt)
	return err
}

// Lookup queries the population frequency for a specific variant.
// The boolean is false when the variant is absent from the table, which
// callers must keep distinct from an observed frequency of zero.
func (s *Store) Lookup(chrom string, pos int64, ref, alt string) (Result, bool) {
	s.prepOnce.Do(func() {
		ps, err := s.db.Prepare(
			"SELECT af, nhomalt FROM population_frequency WHERE chrom=? AND pos=? AND ref=? AND alt=? LIMIT 1",
		)
		if err == nil {
			s.lookupPS = ps
		}
	})
	if s.lookupPS == nil {
		return Result{}, false
	}

	var r Result
	if err := s.lookupPS.QueryRow(chrom, pos, ref, alt).Scan(&r.AlleleFrequency, &r.Homozygotes); err != nil {
		return Result{}, false
	}
	return r, true
}
