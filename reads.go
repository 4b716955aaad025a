package amrtime

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxLineSize bounds a single read file line.
const maxLineSize = 16 << 20

// ReadRecord is one 4-line record of a read file.
type ReadRecord struct {
	Acc  string // accession as reported by the aligners.
	Seq  string // raw sequence line.
	Line int    // 1-based line number of the header.
}

// ReadAccession converts a read header line to the accession the
// aligners report as query id: the leading '@' is dropped
// ("@gb|..." becomes "gb|...") and the description after the
// first whitespace is cut.
func ReadAccession(header string) string {
	h := strings.TrimSpace(header)
	h = strings.TrimPrefix(h, "@")
	if i := strings.IndexAny(h, " \t"); i >= 0 {
		h = h[:i]
	}
	return h
}

// ReadScanner walks a FASTQ-like file, four lines per record,
// header on the first line and sequence on the second.
type ReadScanner struct {
	name string
	sc   *bufio.Scanner
	line int
	rec  ReadRecord
	err  error
}

func NewReadScanner(r io.Reader, name string) *ReadScanner {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineSize)
	return &ReadScanner{name: name, sc: sc}
}

// Scan advances to the next record.
func (s *ReadScanner) Scan() bool {
	if s.err != nil {
		return false
	}
	var lines [4]string
	n := 0
	for n < 4 && s.sc.Scan() {
		lines[n] = s.sc.Text()
		n++
	}
	s.line += n
	if err := s.sc.Err(); err != nil {
		s.err = &ParseError{Path: s.name, Line: s.line + 1, Reason: err.Error()}
		return false
	}
	switch {
	case n == 0:
		return false
	case n < 4:
		s.err = &ParseError{Path: s.name, Line: s.line - n + 1, Reason: fmt.Sprintf("truncated record: %d of 4 lines", n)}
		return false
	}

	header := s.line - n + 1
	acc := ReadAccession(lines[0])
	if acc == "" {
		s.err = &ParseError{Path: s.name, Line: header, Reason: "empty read header"}
		return false
	}
	s.rec = ReadRecord{Acc: acc, Seq: strings.TrimSpace(lines[1]), Line: header}
	return true
}

func (s *ReadScanner) Record() ReadRecord { return s.rec }

func (s *ReadScanner) Err() error { return s.err }
