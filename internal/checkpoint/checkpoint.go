// Package checkpoint persists normalized record tables keyed by a
// content hash of their source file, so repeat runs over an unchanged
// input skip normalization entirely.
//
// Each checkpoint is a DuckDB file plus a sidecar fingerprint file:
//
//	{dir}/{name}.duckdb       (normalized record table)
//	{dir}/{name}.duckdb.meta  (source fingerprint and row count)
package checkpoint

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/inodb/varclass/internal/variant"
)

// Cache manages checkpoints under a single directory.
type Cache struct {
	dir    string
	name   string
	logger *zap.Logger
}

// New creates a checkpoint cache for the named table in dir.
func New(dir, name string) *Cache {
	return &Cache{dir: dir, name: name, logger: zap.NewNop()}
}

// SetLogger sets the logger for checkpoint diagnostics.
func (c *Cache) SetLogger(l *zap.Logger) {
	c.logger = l
}

func (c *Cache) dbPath() string {
	return filepath.Join(c.dir, c.name+".duckdb")
}

func (c *Cache) metaPath() string {
	return filepath.Join(c.dir, c.name+".duckdb.meta")
}

// Valid reports whether a checkpoint exists for the given source
// fingerprint. A hash mismatch or unreadable sidecar invalidates the
// checkpoint; it is never trusted on path or modtime alone.
func (c *Cache) Valid(fp Fingerprint) bool {
	meta, err := c.readMeta()
	if err != nil {
		return false
	}

	if meta["source_hash"] != fp.SHA256 {
		c.logger.Info("checkpoint hash mismatch, will regenerate",
			zap.String("name", c.name),
			zap.String("source", fp.Path))
		return false
	}

	if _, err := os.Stat(c.dbPath()); err != nil {
		return false
	}

	want, err := strconv.ParseInt(meta["row_count"], 10, 64)
	if err != nil {
		return false
	}
	s, err := openStore(c.dbPath())
	if err != nil {
		return false
	}
	defer s.Close()
	got, err := s.countRecords()
	if err != nil || got != want {
		c.logger.Info("checkpoint row count mismatch, will regenerate",
			zap.String("name", c.name),
			zap.Int64("meta_rows", want),
			zap.Int64("table_rows", got))
		return false
	}
	return true
}

// Load reads all records from the checkpoint in their original order.
func (c *Cache) Load() ([]variant.Record, error) {
	s, err := openStore(c.dbPath())
	if err != nil {
		return nil, fmt.Errorf("open checkpoint %s: %w", c.name, err)
	}
	defer s.Close()

	records, err := s.readRecords()
	if err != nil {
		return nil, fmt.Errorf("load checkpoint %s: %w", c.name, err)
	}

	meta, err := c.readMeta()
	if err != nil {
		return nil, fmt.Errorf("read checkpoint meta %s: %w", c.name, err)
	}
	if want, err := strconv.ParseInt(meta["row_count"], 10, 64); err != nil || want != int64(len(records)) {
		return nil, fmt.Errorf("checkpoint %s: row count mismatch (meta %s, table %d)",
			c.name, meta["row_count"], len(records))
	}

	return records, nil
}

// Write persists records for the given source fingerprint. The table is
// written to a temporary file and renamed into place, so a crash
// mid-write never leaves a checkpoint that Valid would accept.
func (c *Cache) Write(records []variant.Record, fp Fingerprint) error {
	if err := os.MkdirAll(c.dir, 0755); err != nil {
		return fmt.Errorf("create checkpoint directory: %w", err)
	}

	tmp := c.dbPath() + ".tmp"
	os.Remove(tmp)

	s, err := openStore(tmp)
	if err != nil {
		return fmt.Errorf("create checkpoint %s: %w", c.name, err)
	}
	if err := s.writeRecords(records); err != nil {
		s.Close()
		os.Remove(tmp)
		return fmt.Errorf("write checkpoint %s: %w", c.name, err)
	}
	if err := s.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close checkpoint %s: %w", c.name, err)
	}

	if err := os.Rename(tmp, c.dbPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit checkpoint %s: %w", c.name, err)
	}

	if err := c.writeMeta(fp, len(records)); err != nil {
		// Without a sidecar the checkpoint reads as invalid, which is
		// the safe failure mode.
		os.Remove(c.dbPath())
		return err
	}

	c.logger.Info("checkpoint written",
		zap.String("name", c.name),
		zap.Int("rows", len(records)),
		zap.String("source_hash", fp.SHA256))
	return nil
}

// Clear removes the checkpoint files.
func (c *Cache) Clear() {
	os.Remove(c.dbPath())
	os.Remove(c.dbPath() + ".tmp")
	os.Remove(c.metaPath())
}

func (c *Cache) writeMeta(fp Fingerprint, rows int) error {
	lines := []string{
		"source_path=" + fp.Path,
		"source_hash=" + fp.SHA256,
		"source_size=" + strconv.FormatInt(fp.Size, 10),
		"row_count=" + strconv.Itoa(rows),
		"created_at=" + time.Now().UTC().Format(time.RFC3339),
		"",
	}

	tmp := c.metaPath() + ".tmp"
	if err := os.WriteFile(tmp, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return fmt.Errorf("write checkpoint meta: %w", err)
	}
	if err := os.Rename(tmp, c.metaPath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("commit checkpoint meta: %w", err)
	}
	return nil
}

func (c *Cache) readMeta() (map[string]string, error) {
	data, err := os.ReadFile(c.metaPath())
	if err != nil {
		return nil, err
	}

	meta := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		if k, v, ok := strings.Cut(line, "="); ok {
			meta[k] = v
		}
	}
	return meta, nil
}
