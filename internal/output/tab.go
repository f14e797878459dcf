// Package output provides classification output formatters.
package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/inodb/varclass/internal/classify"
	"github.com/inodb/varclass/internal/evidence"
	"github.com/inodb/varclass/internal/match"
)

// TabWriter writes classification results in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Variant",
			"Identifier",
			"Gene",
			"Match",
			"Classification",
			"Confidence",
			"Applied_criteria",
			"Missing_data",
			"Rationale",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes one classified variant.
func (tw *TabWriter) Write(m match.Result, r classify.Result) error {
	q := m.Query

	variant := fmt.Sprintf("%s:%d", q.Chrom, q.Pos)
	if q.Ref != "" || q.Alt != "" {
		variant = fmt.Sprintf("%s:%d:%s:%s", q.Chrom, q.Pos, q.Ref, q.Alt)
	}

	id := dash(q.ExternalID)
	gene := dash(q.Gene)

	applied := appliedCodes(r.Evidence)
	missing := missingCount(r.Evidence)

	fields := []string{
		variant,
		id,
		gene,
		m.Provenance.String(),
		r.Category.String(),
		r.Confidence.String(),
		applied,
		fmt.Sprintf("%d/%d", missing, len(r.Evidence)),
		r.Rationale,
	}

	_, err := tw.w.WriteString(strings.Join(fields, "\t") + "\n")
	return err
}

// Flush flushes buffered output.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// appliedCodes joins the codes of applied criteria in registry order.
func appliedCodes(verdicts []evidence.Verdict) string {
	var codes []string
	for _, v := range verdicts {
		if v.Applied {
			codes = append(codes, v.Code)
		}
	}
	if len(codes) == 0 {
		return "-"
	}
	return strings.Join(codes, ",")
}

func missingCount(verdicts []evidence.Verdict) int {
	n := 0
	for _, v := range verdicts {
		if !v.DataAvailable {
			n++
		}
	}
	return n
}
