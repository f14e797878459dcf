// Package pgs provides parsing for four-column personal-genome files
// (identifier, chromosome, position, genotype).
package pgs

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/inodb/varclass/internal/vcf"
)

// Parser reads variants from a personal-genome file. Rows are
// tab-delimited: identifier, chromosome, position, genotype. Lines
// starting with '#' are comments. No-call genotypes ("--") are skipped.
type Parser struct {
	reader     *bufio.Reader
	file       *os.File
	gzipReader *gzip.Reader
	lineNumber int
	skipped    int
}

// NewParser creates a new parser for the given file.
// Supports both plain and gzipped files.
func NewParser(path string) (*Parser, error) {
	if path == "-" {
		return NewParserFromReader(os.Stdin), nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open genome file: %w", err)
	}

	p := &Parser{file: file}

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	_, err = file.Read(buf)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("read genome file: %w", err)
	}
	if _, err := file.Seek(0, 0); err != nil {
		file.Close()
		return nil, fmt.Errorf("seek genome file: %w", err)
	}

	if buf[0] == 0x1f && buf[1] == 0x8b {
		p.gzipReader, err = gzip.NewReader(file)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("create gzip reader: %w", err)
		}
		p.reader = bufio.NewReader(p.gzipReader)
	} else {
		p.reader = bufio.NewReader(file)
	}

	return p, nil
}

// NewParserFromReader creates a parser from an io.Reader (e.g., stdin).
func NewParserFromReader(r io.Reader) *Parser {
	return &Parser{reader: bufio.NewReader(r)}
}

// Next reads the next variant. Returns nil, nil when there are no more.
func (p *Parser) Next() (*vcf.Variant, error) {
	for {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return nil, nil
			}
			return nil, fmt.Errorf("read genome line: %w", err)
		}
		p.lineNumber++

		line = strings.TrimRight(line, "\r\n")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		v, err := p.parseLine(line)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue // no-call genotype
		}
		return v, nil
	}
}

// parseLine parses a single data row. The genotype is carried verbatim
// in the GT annotation field; these rows have no reference allele and
// are matched downstream by identifier key alone.
func (p *Parser) parseLine(line string) (*vcf.Variant, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 4 {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("expected 4 columns, found %d", len(fields)),
		}
	}

	pos, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return nil, &ParseError{
			Line:    p.lineNumber,
			Message: fmt.Sprintf("invalid position: %s", fields[2]),
		}
	}

	genotype := strings.ToUpper(strings.TrimSpace(fields[3]))
	if genotype == "" || genotype == "--" {
		p.skipped++
		return nil, nil
	}

	return &vcf.Variant{
		Chrom:  fields[1],
		Pos:    pos,
		ID:     fields[0],
		Ref:    "",
		Alt:    "",
		Filter: ".",
		Info:   map[string]interface{}{"GT": genotype},
	}, nil
}

// Skipped returns the number of no-call rows skipped so far.
func (p *Parser) Skipped() int {
	return p.skipped
}

// LineNumber returns the current line number being processed.
func (p *Parser) LineNumber() int {
	return p.lineNumber
}

// Close closes the parser and underlying file.
func (p *Parser) Close() error {
	if p.gzipReader != nil {
		p.gzipReader.Close()
	}
	if p.file != nil {
		return p.file.Close()
	}
	return nil
}

// ParseError represents an error during parsing with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("genome parse error at line %d: %s", e.Line, e.Message)
}
