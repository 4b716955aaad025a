package amrtime

import (
	"fmt"
	"io"
	"math"
	"os"
	"sort"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gopkg.in/cheggaaa/pb.v1"
)

// Metric selects the alignment score column used for the encoding.
type Metric string

const (
	BitScore Metric = "bitscore"
	EValue   Metric = "evalue"
	PIdent   Metric = "pident"
)

// ParseMetric validates a metric name.
func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case BitScore, EValue, PIdent:
		return m, nil
	}
	return "", &ConfigError{Option: "metric", Reason: fmt.Sprintf("unknown metric %q, want bitscore, evalue or pident", s)}
}

// score extracts the metric from a hit. E-values are compared on
// a log scale; zero is clamped so the log stays finite.
func (m Metric) score(h Hit) float64 {
	switch m {
	case EValue:
		return math.Log(math.Max(h.EValue, math.SmallestNonzeroFloat64))
	case PIdent:
		return h.PIdent
	}
	return h.BitScore
}

// better reports whether a beats b.
func (m Metric) better(a, b float64) bool {
	if m == EValue {
		return a < b
	}
	return a > b
}

// Catalog is the reference data the homology encoding needs.
type Catalog interface {
	AROs() []string
	Families() []string
	Family(aro string) (string, bool)
	MaxFamilyBitscore(family string) (float64, bool)
	MaxAROBitscore(aro string) (float64, bool)
}

// EncodeOptions controls post-processing of the homology encoding.
type EncodeOptions struct {
	Metric        Metric
	Normalize     bool // divide by the catalog maximum bitscores.
	Dissimilarity bool // 1 - normalized score; requires Normalize.
	ShowProgress  bool
}

// Validate rejects option combinations that cannot be honored.
func (o EncodeOptions) Validate() error {
	if _, err := ParseMetric(string(o.Metric)); err != nil {
		return err
	}
	if o.Normalize && o.Metric != BitScore {
		return &ConfigError{Option: "normalize", Reason: "only bitscore can be normalized, set metric to bitscore"}
	}
	if o.Dissimilarity && !o.Normalize {
		return &ConfigError{Option: "dissimilarity", Reason: "dissimilarity needs normalized bitscores, set normalize too"}
	}
	return nil
}

// HomologyEncoder turns an alignment report of reads against
// the reference catalog into per-read similarity vectors.
type HomologyEncoder struct {
	ReadsPath      string
	AlignmentsPath string
	Catalog        Catalog
}

func NewHomologyEncoder(reads, alignments string, cat Catalog) *HomologyEncoder {
	return &HomologyEncoder{ReadsPath: reads, AlignmentsPath: alignments, Catalog: cat}
}

// Encode returns the read x family and read x ARO matrices.
// Rows follow the read file order, columns the sorted catalog names.
func (e *HomologyEncoder) Encode(opts EncodeOptions) (family, aro *Matrix, err error) {
	if err := opts.Validate(); err != nil {
		return nil, nil, err
	}

	families := sortedCopy(e.Catalog.Families())
	aros := sortedCopy(e.Catalog.AROs())

	reads, err := readAccessions(e.ReadsPath)
	if err != nil {
		return nil, nil, err
	}

	family = NewMatrix(reads, families)
	aro = NewMatrix(reads, aros)
	if err := e.scan(opts, family, aro); err != nil {
		return nil, nil, err
	}

	if opts.Normalize {
		if err := normalize(family, "family", e.Catalog.MaxFamilyBitscore); err != nil {
			return nil, nil, err
		}
		if err := normalize(aro, "aro", e.Catalog.MaxAROBitscore); err != nil {
			return nil, nil, err
		}
	}
	if opts.Dissimilarity {
		dissimilarity(family)
		dissimilarity(aro)
	}

	Log.WithFields(logrus.Fields{
		"reads":    len(reads),
		"families": len(families),
		"aros":     len(aros),
		"metric":   opts.Metric,
	}).Info("homology encoding done")

	return family, aro, nil
}

// scan streams the alignment report and keeps the best score
// per read x family and per read x ARO.
func (e *HomologyEncoder) scan(opts EncodeOptions, family, aro *Matrix) error {
	f, err := os.Open(e.AlignmentsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if opts.ShowProgress {
		if fi, err := f.Stat(); err == nil {
			bar := pb.New64(fi.Size()).SetUnits(pb.U_BYTES)
			bar.Output = os.Stderr
			bar.Start()
			defer bar.Finish()
			r = bar.NewProxyReader(f)
		}
	}

	// seen marks cells holding an observed score, so that the
	// first hit replaces the zero default whatever the metric.
	nr, _ := family.Dims()
	famSeen := make([]map[int]bool, nr)
	aroSeen := make([]map[int]bool, nr)

	// NaN scores ("*" columns) never fill a cell.
	update := func(m *Matrix, seen []map[int]bool, i, j int, s float64) {
		if math.IsNaN(s) {
			return
		}
		if seen[i] == nil {
			seen[i] = make(map[int]bool)
		}
		if !seen[i][j] || opts.Metric.better(s, m.At(i, j)) {
			m.Set(i, j, s)
			seen[i][j] = true
		}
	}

	hr := NewHitReader(r, e.AlignmentsPath)
	n := 0
	for {
		h, err := hr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		n++

		i, found := family.rows.Lookup(h.QSeqid)
		if !found {
			return &MissingDataError{Kind: "read", Key: h.QSeqid}
		}
		aroAcc, ok := h.ARO()
		if !ok {
			return &ParseError{Path: e.AlignmentsPath, Line: hr.line, Reason: fmt.Sprintf("no ARO in subject label %q", h.SSeqid)}
		}
		fam, found := e.Catalog.Family(aroAcc)
		if !found {
			return &MissingDataError{Kind: "aro", Key: aroAcc}
		}
		fj, found := family.cols.Lookup(fam)
		if !found {
			return &MissingDataError{Kind: "family", Key: fam}
		}
		aj, found := aro.cols.Lookup(aroAcc)
		if !found {
			return &MissingDataError{Kind: "aro", Key: aroAcc}
		}

		s := opts.Metric.score(h)
		update(family, famSeen, i, fj, s)
		update(aro, aroSeen, i, aj, s)
	}
	Log.WithField("hits", n).Debugf("read %s", e.AlignmentsPath)

	return nil
}

// normalize divides each column by its maximum bitscore.
// A missing or non-positive maximum is a configuration error.
func normalize(m *Matrix, kind string, maxOf func(string) (float64, bool)) error {
	r, _ := m.Dims()
	col := make([]float64, r)
	for j, name := range m.Cols() {
		v, found := maxOf(name)
		if !found {
			return &ConfigError{Option: "normalize", Reason: fmt.Sprintf("no maximum bitscore for %s %q", kind, name)}
		}
		if !(v > 0) {
			return &ConfigError{Option: "normalize", Reason: fmt.Sprintf("maximum bitscore for %s %q is %g", kind, name, v)}
		}
		if m.data == nil {
			continue
		}
		mat.Col(col, j, m.data)
		floats.Scale(1/v, col)
		m.data.SetCol(j, col)
	}
	return nil
}

func dissimilarity(m *Matrix) {
	m.Apply(func(_, _ int, v float64) float64 {
		d := 1 - v
		if math.IsNaN(d) {
			return 0
		}
		return d
	})
}

// readAccessions returns the read accessions in file order.
func readAccessions(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var accs []string
	seen := make(map[string]bool)
	sc := NewReadScanner(f, path)
	for sc.Scan() {
		rec := sc.Record()
		acc := rec.Acc
		if seen[acc] {
			return nil, &ParseError{Path: path, Line: rec.Line, Reason: fmt.Sprintf("duplicated read accession %q", acc)}
		}
		seen[acc] = true
		accs = append(accs, acc)
	}
	return accs, sc.Err()
}

func sortedCopy(s []string) []string {
	c := append([]string(nil), s...)
	sort.Strings(c)
	return c
}
