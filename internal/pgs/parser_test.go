package pgs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testGenome = `# rsid	chromosome	position	genotype
rs4477212	1	82154	AA
rs3094315	1	752566	AG
rs9999999	3	123456	--
rs80357713	17	43094692	GA
`

func TestParser_Next(t *testing.T) {
	p := NewParserFromReader(strings.NewReader(testGenome))

	v, err := p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "rs4477212", v.ID)
	assert.Equal(t, "1", v.Chrom)
	assert.Equal(t, int64(82154), v.Pos)
	assert.Empty(t, v.Ref)
	assert.Empty(t, v.Alt)
	assert.Equal(t, "AA", v.Info["GT"])

	v, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "rs3094315", v.ID)

	// The no-call row is skipped.
	v, err = p.Next()
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, "rs80357713", v.ID)
	assert.Equal(t, 1, p.Skipped())

	v, err = p.Next()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestParser_BadRow(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("rs1\t1\n"))
	_, err := p.Next()
	require.Error(t, err)

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 1, perr.Line)
}

func TestParser_BadPosition(t *testing.T) {
	p := NewParserFromReader(strings.NewReader("rs1\t1\tabc\tAA\n"))
	_, err := p.Next()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid position")
}
