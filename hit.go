package amrtime

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// HitFields is the minimum number of columns in a blast 6 out row.
const HitFields = 12

// Container for blast 6 out result.
type Hit struct {
	QSeqid   string
	SSeqid   string
	PIdent   float64
	Length   int
	Mismatch int
	GapOpen  int
	QStart   int
	QEnd     int
	SStart   int
	SEnd     int
	EValue   float64
	BitScore float64
}

// ARO returns the ARO accession embedded in the subject label,
// e.g. "ARO:3000873" for "gb|AAA16354.1|ARO:3000873|TEM-1".
func (h Hit) ARO() (string, bool) {
	return LabelARO(h.SSeqid)
}

// LabelARO returns the third "|" token of a CARD sequence label.
func LabelARO(label string) (string, bool) {
	fields := strings.Split(label, "|")
	if len(fields) < 3 || fields[2] == "" {
		return "", false
	}
	return fields[2], true
}

// HitReader streams hits from a tab separated alignment report.
type HitReader struct {
	name string
	rd   *csv.Reader
	line int // line of the last record read.
}

// NewHitReader returns a HitReader reading from r.
// The name is only used for error messages.
func NewHitReader(r io.Reader, name string) *HitReader {
	csvRd := csv.NewReader(r)
	csvRd.Comma = '\t'
	csvRd.FieldsPerRecord = -1
	csvRd.LazyQuotes = true
	csvRd.ReuseRecord = true
	return &HitReader{name: name, rd: csvRd}
}

// Read returns the next hit, or io.EOF at the end of the report.
func (hr *HitReader) Read() (Hit, error) {
	fields, err := hr.rd.Read()
	if err != nil {
		if err == io.EOF {
			return Hit{}, io.EOF
		}
		line := hr.line + 1
		var csvErr *csv.ParseError
		if errors.As(err, &csvErr) {
			line = csvErr.StartLine
		}
		return Hit{}, &ParseError{Path: hr.name, Line: line, Reason: err.Error()}
	}
	// A quoted field may span lines, so take the physical line of
	// the record start.
	hr.line, _ = hr.rd.FieldPos(0)
	h, err := parseHit(fields)
	if err != nil {
		return Hit{}, &ParseError{Path: hr.name, Line: hr.line, Reason: err.Error()}
	}
	return h, nil
}

// Parse and return a Hit struct.
func parseHit(fields []string) (h Hit, err error) {
	if len(fields) < HitFields {
		return h, fmt.Errorf("expected at least %d columns, got %d", HitFields, len(fields))
	}
	p := fieldParser{fields: fields}
	h.QSeqid = strings.TrimSpace(fields[0])
	h.SSeqid = strings.TrimSpace(fields[1])
	h.PIdent = p.atof(2)
	h.Length = p.atoi(3)
	h.Mismatch = p.atoi(4)
	h.GapOpen = p.atoi(5)
	h.QStart = p.atoi(6)
	h.QEnd = p.atoi(7)
	h.SStart = p.atoi(8)
	h.SEnd = p.atoi(9)
	h.EValue = p.atof(10)
	h.BitScore = p.atof(11)

	return h, p.err
}

// fieldParser keeps the first conversion error.
type fieldParser struct {
	fields []string
	err    error
}

// String to float64 helper.
func (p *fieldParser) atof(i int) float64 {
	s := strings.TrimSpace(p.fields[i])
	if s == "*" {
		return math.NaN()
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %d: %v", i+1, err)
	}
	return f
}

// String to int helper.
func (p *fieldParser) atoi(i int) int {
	s := strings.TrimSpace(p.fields[i])
	if s == "*" {
		return 0
	}

	n, err := strconv.Atoi(s)
	if err != nil && p.err == nil {
		p.err = fmt.Errorf("column %d: %v", i+1, err)
	}
	return n
}
