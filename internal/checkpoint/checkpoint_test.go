package checkpoint

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/varclass/internal/variant"
)

func testRecords() []variant.Record {
	return []variant.Record{
		{
			Chrom: "17", Pos: 43094692, Ref: "G", Alt: "A",
			ExternalID: "rs80357713", Gene: "BRCA1",
			Info: map[string]interface{}{"CLNSIG": "Pathogenic"},
		},
		{Chrom: "12", Pos: 25245350, Ref: "C", Alt: "A", Gene: "KRAS"},
		{Chrom: "1", Pos: 100, Ref: "A", Alt: "T"},
	}
}

func writeSource(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "source.vcf")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestCheckpoint_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "reference data v1")

	fp, err := HashFile(src)
	require.NoError(t, err)
	assert.Len(t, fp.SHA256, 64)

	c := New(dir, "reference")
	assert.False(t, c.Valid(fp), "no checkpoint yet")

	records := testRecords()
	require.NoError(t, c.Write(records, fp))
	require.True(t, c.Valid(fp))

	loaded, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, records, loaded, "records must survive a round trip in order")

	// Repeat loads are byte-identical.
	again, err := c.Load()
	require.NoError(t, err)
	assert.Equal(t, loaded, again)
}

func TestCheckpoint_HashMismatchInvalidates(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "reference data v1")

	fp, err := HashFile(src)
	require.NoError(t, err)

	c := New(dir, "reference")
	require.NoError(t, c.Write(testRecords(), fp))
	require.True(t, c.Valid(fp))

	// Changed source content: same path, new hash.
	require.NoError(t, os.WriteFile(src, []byte("reference data v2"), 0644))
	fp2, err := HashFile(src)
	require.NoError(t, err)
	assert.NotEqual(t, fp.SHA256, fp2.SHA256)

	assert.False(t, c.Valid(fp2), "stale checkpoint must be rejected")

	// Regenerating with the new fingerprint makes it valid again.
	require.NoError(t, c.Write(testRecords()[:1], fp2))
	assert.True(t, c.Valid(fp2))
	loaded, err := c.Load()
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestCheckpoint_MissingSidecarInvalidates(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "data")

	fp, err := HashFile(src)
	require.NoError(t, err)

	c := New(dir, "reference")
	require.NoError(t, c.Write(testRecords(), fp))

	require.NoError(t, os.Remove(c.metaPath()))
	assert.False(t, c.Valid(fp))
}

func TestCheckpoint_Clear(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "data")

	fp, err := HashFile(src)
	require.NoError(t, err)

	c := New(dir, "reference")
	require.NoError(t, c.Write(testRecords(), fp))
	require.True(t, c.Valid(fp))

	c.Clear()
	assert.False(t, c.Valid(fp))
	_, err = os.Stat(c.dbPath())
	assert.True(t, os.IsNotExist(err))
}

func TestCheckpoint_RowCountMismatchFailsLoad(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "data")

	fp, err := HashFile(src)
	require.NoError(t, err)

	c := New(dir, "reference")
	require.NoError(t, c.Write(testRecords(), fp))

	// Corrupt the recorded row count.
	meta, err := os.ReadFile(c.metaPath())
	require.NoError(t, err)
	corrupted := []byte(string(meta) + "row_count=99\n")
	require.NoError(t, os.WriteFile(c.metaPath(), corrupted, 0644))

	// Valid spots the mismatch without loading the full table.
	assert.False(t, c.Valid(fp))

	_, err = c.Load()
	assert.ErrorContains(t, err, "row count mismatch")
}

func TestCheckpoint_EmptyTable(t *testing.T) {
	dir := t.TempDir()
	src := writeSource(t, dir, "data")

	fp, err := HashFile(src)
	require.NoError(t, err)

	c := New(dir, "empty")
	require.NoError(t, c.Write(nil, fp))
	require.True(t, c.Valid(fp))

	loaded, err := c.Load()
	require.NoError(t, err)
	assert.Empty(t, loaded)
}
