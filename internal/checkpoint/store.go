package checkpoint

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	goduckdb "github.com/marcboeker/go-duckdb"

	"github.com/inodb/varclass/internal/variant"
)

// store manages a DuckDB database holding one normalized record table.
// The seq column preserves input order so repeated loads reproduce the
// original record sequence exactly.
type store struct {
	db   *sql.DB
	path string
}

func openStore(path string) (*store, error) {
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create checkpoint directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &store{db: db, path: path}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}
	return s, nil
}

func (s *store) Close() error {
	return s.db.Close()
}

func (s *store) ensureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS normalized_records (
		seq BIGINT,
		chrom VARCHAR,
		pos BIGINT,
		ref VARCHAR,
		alt VARCHAR,
		external_id VARCHAR,
		gene VARCHAR,
		info VARCHAR
	)`)
	return err
}

// writeRecords batch-inserts normalized records using the Appender API.
func (s *store) writeRecords(records []variant.Record) error {
	if len(records) == 0 {
		return nil
	}

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "normalized_records")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for i, r := range records {
		info := ""
		if len(r.Info) > 0 {
			b, err := json.Marshal(r.Info)
			if err != nil {
				return fmt.Errorf("encode info for %s: %w", r.CoordinateKey(), err)
			}
			info = string(b)
		}
		if err := appender.AppendRow(
			int64(i), r.Chrom, r.Pos, r.Ref, r.Alt, r.ExternalID, r.Gene, info,
		); err != nil {
			return fmt.Errorf("append record: %w", err)
		}
	}

	return appender.Flush()
}

// readRecords loads all records back in their original order.
func (s *store) readRecords() ([]variant.Record, error) {
	rows, err := s.db.Query(`SELECT chrom, pos, ref, alt, external_id, gene, info
		FROM normalized_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	defer rows.Close()

	var records []variant.Record
	for rows.Next() {
		var r variant.Record
		var info string
		if err := rows.Scan(&r.Chrom, &r.Pos, &r.Ref, &r.Alt, &r.ExternalID, &r.Gene, &info); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		if info != "" {
			if err := json.Unmarshal([]byte(info), &r.Info); err != nil {
				return nil, fmt.Errorf("decode info: %w", err)
			}
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return records, nil
}

func (s *store) countRecords() (int64, error) {
	var n int64
	err := s.db.QueryRow("SELECT COUNT(*) FROM normalized_records").Scan(&n)
	return n, err
}
