package amrtime

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
)

// KmerAlphabet is the k-mer alphabet in column enumeration order.
const KmerAlphabet = "ATGCN"

// MaxKmerWidth bounds k; the matrix has 5^k columns.
const MaxKmerWidth = 10

// baseCode maps an upper-case base to its digit in KmerAlphabet.
// Ambiguity codes collapse to N; -1 marks bytes outside the alphabet.
var baseCode [256]int8

func init() {
	for i := range baseCode {
		baseCode[i] = -1
	}
	for i := 0; i < len(KmerAlphabet); i++ {
		baseCode[KmerAlphabet[i]] = int8(i)
	}
	for _, c := range []byte("MXRSYKWBDHV") {
		baseCode[c] = 4
	}
}

// KmerColumns returns the 5^k k-mers in column order: the
// lexicographic product of KmerAlphabet, so "AA..A" comes first
// and "NN..N" last.
func KmerColumns(k int) []string {
	n := pow5(k)
	cols := make([]string, n)
	buf := make([]byte, k)
	for i := 0; i < n; i++ {
		x := i
		for p := k - 1; p >= 0; p-- {
			buf[p] = KmerAlphabet[x%5]
			x /= 5
		}
		cols[i] = string(buf)
	}
	return cols
}

func pow5(k int) int {
	n := 1
	for i := 0; i < k; i++ {
		n *= 5
	}
	return n
}

// KmerEncoder counts k-mers per read.
type KmerEncoder struct {
	ReadsPath string
	K         int
}

func NewKmerEncoder(reads string, k int) *KmerEncoder {
	return &KmerEncoder{ReadsPath: reads, K: k}
}

// Encode returns a read x 5^k matrix of k-mer counts, rows in
// read file order.
func (e *KmerEncoder) Encode() (*Matrix, error) {
	if e.K < 1 || e.K > MaxKmerWidth {
		return nil, &ConfigError{Option: "k", Reason: fmt.Sprintf("k-mer width %d out of range [1, %d]", e.K, MaxKmerWidth)}
	}

	f, err := os.Open(e.ReadsPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		rows   []string
		counts [][]float64
		seen   = make(map[string]bool)
	)
	sc := NewReadScanner(f, e.ReadsPath)
	for sc.Scan() {
		rec := sc.Record()
		if seen[rec.Acc] {
			return nil, &ParseError{Path: e.ReadsPath, Line: rec.Line, Reason: fmt.Sprintf("duplicated read accession %q", rec.Acc)}
		}
		seen[rec.Acc] = true

		vec, err := CountKmers(rec.Seq, e.K)
		if err != nil {
			return nil, &ParseError{Path: e.ReadsPath, Line: rec.Line + 1, Reason: err.Error()}
		}
		rows = append(rows, rec.Acc)
		counts = append(counts, vec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	m := NewMatrix(rows, KmerColumns(e.K))
	for i, vec := range counts {
		m.data.SetRow(i, vec)
	}

	Log.WithFields(logrus.Fields{
		"reads": len(rows),
		"k":     e.K,
	}).Info("k-mer encoding done")

	return m, nil
}

// CountKmers slides a width k window over seq and counts each
// k-mer at its KmerColumns position. Sequences shorter than k
// give an all-zero vector.
func CountKmers(seq string, k int) ([]float64, error) {
	vec := make([]float64, pow5(k))
	if len(seq) < k {
		return vec, nil
	}

	codes := make([]int, len(seq))
	for i := 0; i < len(seq); i++ {
		c := seq[i]
		if 'a' <= c && c <= 'z' {
			c -= 'a' - 'A'
		}
		code := baseCode[c]
		if code < 0 {
			return nil, fmt.Errorf("invalid base %q at position %d", seq[i], i+1)
		}
		codes[i] = int(code)
	}

	// Rolling base-5 value of the current window.
	top := pow5(k - 1)
	x := 0
	for i, c := range codes {
		if i >= k {
			x -= codes[i-k] * top
		}
		x = x*5 + c
		if i >= k-1 {
			vec[x]++
		}
	}
	return vec, nil
}
