package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/inodb/varclass/internal/classify"
	"github.com/inodb/varclass/internal/datasource/gnomad"
	"github.com/inodb/varclass/internal/datasource/insilico"
	"github.com/inodb/varclass/internal/evidence"
	"github.com/inodb/varclass/internal/match"
	"github.com/inodb/varclass/internal/variant"
)

const referenceVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
chr17	43094692	rs80357713	G	A	.	.	CLNSIG=Pathogenic;GENEINFO=BRCA1:672;MC=SO:0001589|frameshift_variant
chr1	200	rs111	C	T	.	.	CLNSIG=Benign;GENEINFO=GENEX:1;MC=SO:0001819|synonymous_variant;AF=0.2
`

const queryVCF = `##fileformat=VCFv4.2
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO
17	43094692	rs80357713	G	A	.	.	.
1	200	.	C	T	.	.	.
2	300	rs999	G	C	.	.	.
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func testPipeline() *Pipeline {
	genes := evidence.NewGeneContext([]string{"BRCA1"}, nil, nil)
	return New(evidence.DefaultConfig(), genes, variant.GRCh38)
}

func TestPipeline_FrameshiftScenario(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "ref.vcf", referenceVCF)
	queryPath := writeFile(t, dir, "query.vcf", queryVCF)

	p := testPipeline()
	ctx := context.Background()

	reference, _, err := p.LoadReference(ctx, refPath)
	require.NoError(t, err)
	require.Len(t, reference, 2)
	assert.Equal(t, "17", reference[0].Chrom, "chr prefix is canonicalized")

	query, drops, err := p.LoadQuery(ctx, queryPath, FormatVCF)
	require.NoError(t, err)
	require.Len(t, query, 3)
	assert.Zero(t, drops.Total())

	classified, stats, err := p.Classify(ctx, reference, query)
	require.NoError(t, err)
	require.Len(t, classified, 3)
	assert.Equal(t, 1, stats.Identifier)
	assert.Equal(t, 1, stats.Coordinate)
	assert.Equal(t, 1, stats.Unmatched)

	// BRCA1 frameshift: PVS1 applies, never Benign.
	brca1 := classified[0]
	assert.Equal(t, match.ProvenanceIdentifier, brca1.Match.Provenance)
	pvs1 := findVerdict(t, brca1.Classification.Evidence, "PVS1")
	assert.True(t, pvs1.Applied)
	assert.Contains(t,
		[]classify.Category{classify.LikelyPathogenic, classify.Pathogenic},
		brca1.Classification.Category)
	assert.NotEqual(t, classify.Benign, brca1.Classification.Category)

	// Common synonymous variant with a benign assertion: BA1 stand-alone.
	common := classified[1]
	assert.Equal(t, match.ProvenanceCoordinate, common.Match.Provenance)
	assert.Equal(t, classify.Benign, common.Classification.Category)

	// Unmatched query: no data, uncertain.
	unmatched := classified[2]
	assert.Equal(t, match.ProvenanceNone, unmatched.Match.Provenance)
	assert.Equal(t, classify.Uncertain, unmatched.Classification.Category)
}

func TestPipeline_CheckpointReuse(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "ref.vcf", referenceVCF)

	p := testPipeline()
	p.SetCheckpointDir(filepath.Join(dir, "checkpoints"))
	ctx := context.Background()

	first, _, err := p.LoadReference(ctx, refPath)
	require.NoError(t, err)

	// Second load must come from the checkpoint and be identical.
	second, drops, err := p.LoadReference(ctx, refPath)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Zero(t, drops.Total())

	// A changed source invalidates the checkpoint.
	require.NoError(t, os.WriteFile(refPath, []byte(referenceVCF+
		"chr2	300	rs999	G	C	.	.	.\n"), 0644))
	third, _, err := p.LoadReference(ctx, refPath)
	require.NoError(t, err)
	assert.Len(t, third, 3)
}

func TestPipeline_ProviderFillsGaps(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "ref.vcf", referenceVCF)
	queryPath := writeFile(t, dir, "query.vcf",
		"##fileformat=VCFv4.2\n#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO\n"+
			"3	500	rs555	A	G	.	.	.\n")

	freq, err := gnomad.Open("")
	require.NoError(t, err)
	defer freq.Close()
	require.NoError(t, freq.Insert("3", 500, "A", "G", 0.3, 1200))

	scores := insilico.New()
	scores.Add("3", 500, "A", "G", evidence.Float(0.1), nil)

	p := testPipeline()
	p.SetFrequencySource(freq)
	p.SetScoreSource(scores)

	ctx := context.Background()
	reference, _, err := p.LoadReference(ctx, refPath)
	require.NoError(t, err)
	query, _, err := p.LoadQuery(ctx, queryPath, FormatVCF)
	require.NoError(t, err)

	classified, _, err := p.Classify(ctx, reference, query)
	require.NoError(t, err)
	require.Len(t, classified, 1)

	// Unmatched in the reference, but the frequency provider supplies
	// a common allele frequency: BA1 applies.
	ba1 := findVerdict(t, classified[0].Classification.Evidence, "BA1")
	assert.True(t, ba1.Applied, ba1.Rationale)
	assert.Equal(t, classify.Benign, classified[0].Classification.Category)
}

func TestPipeline_RunWritesOutput(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "ref.vcf", referenceVCF)
	queryPath := writeFile(t, dir, "query.vcf", queryVCF)

	p := testPipeline()

	var out, summary strings.Builder
	err := p.Run(context.Background(), refPath, queryPath, FormatVCF, &out, &summary)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
	require.Len(t, lines, 4, "header plus one row per query")
	assert.Contains(t, lines[1], "PVS1")
	assert.Contains(t, summary.String(), "Matched by identifier: 1")
	assert.Contains(t, summary.String(), "Unmatched:             1")
}

func TestPipeline_RunReportsReferenceDrops(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "ref.vcf", referenceVCF+
		"chrUn_gl000220	100	rs777	A	G	.	.	.\n")
	queryPath := writeFile(t, dir, "query.vcf", queryVCF)

	p := testPipeline()

	var out, summary strings.Builder
	err := p.Run(context.Background(), refPath, queryPath, FormatVCF, &out, &summary)
	require.NoError(t, err)
	assert.Contains(t, summary.String(), "Dropped reference rows: 1")
	assert.Contains(t, summary.String(), "Dropped query rows:    0")
}

func TestPipeline_RunWithoutSummary(t *testing.T) {
	dir := t.TempDir()
	refPath := writeFile(t, dir, "ref.vcf", referenceVCF)
	queryPath := writeFile(t, dir, "query.vcf", queryVCF)

	p := testPipeline()

	var out strings.Builder
	err := p.Run(context.Background(), refPath, queryPath, FormatVCF, &out, nil)
	require.NoError(t, err)
	assert.NotEmpty(t, out.String())
}

func TestParseAllReachesEndOfInput(t *testing.T) {
	dir := t.TempDir()
	p := testPipeline()

	vcfPath := writeFile(t, dir, "query.vcf", queryVCF)
	variants, err := p.parseAll(vcfPath, FormatVCF)
	require.NoError(t, err)
	require.Len(t, variants, 3)
	for i, v := range variants {
		require.NotNil(t, v, "variant %d", i)
	}

	pgsPath := writeFile(t, dir, "genotypes.txt",
		"# comment\nrs80357713\t17\t43094692\tAG\nrs999\t2\t300\t--\n")
	variants, err = p.parseAll(pgsPath, FormatPGS)
	require.NoError(t, err)
	require.Len(t, variants, 1, "no-call rows are skipped")
	assert.Equal(t, "rs80357713", variants[0].ID)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("pgs")
	require.NoError(t, err)
	assert.Equal(t, FormatPGS, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatVCF, f)

	_, err = ParseFormat("bed")
	assert.ErrorContains(t, err, "unknown input format")
}

func findVerdict(t *testing.T, verdicts []evidence.Verdict, code string) evidence.Verdict {
	t.Helper()
	for _, v := range verdicts {
		if v.Code == code {
			return v
		}
	}
	t.Fatalf("verdict %s not found", code)
	return evidence.Verdict{}
}
