package amrtime

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// testCatalog is a fixed in-memory catalog.
type testCatalog struct {
	families  map[string]string // aro -> family
	maxFamily map[string]float64
	maxARO    map[string]float64
}

func (c testCatalog) AROs() []string {
	var aros []string
	for a := range c.families {
		aros = append(aros, a)
	}
	return aros
}

func (c testCatalog) Families() []string {
	set := map[string]bool{}
	var fams []string
	for _, f := range c.families {
		if !set[f] {
			set[f] = true
			fams = append(fams, f)
		}
	}
	return fams
}

func (c testCatalog) Family(aro string) (string, bool) {
	f, ok := c.families[aro]
	return f, ok
}

func (c testCatalog) MaxFamilyBitscore(f string) (float64, bool) {
	v, ok := c.maxFamily[f]
	return v, ok
}

func (c testCatalog) MaxAROBitscore(a string) (float64, bool) {
	v, ok := c.maxARO[a]
	return v, ok
}

func newTestCatalog() testCatalog {
	return testCatalog{
		families: map[string]string{
			"3000001": "F1",
			"3000002": "F1",
			"3000003": "F2",
			"3000004": "F3",
		},
		maxFamily: map[string]float64{"F1": 100, "F2": 200, "F3": 50},
		maxARO:    map[string]float64{"3000001": 100, "3000002": 80, "3000003": 200, "3000004": 50},
	}
}

const testReads = `@read1 desc
ATGC
+
IIII
@gbread2
ATGCA
+
IIIII
@read3
A
+
I
`

func hitLine(query, aro string, pident, evalue, bitscore string) string {
	return strings.Join([]string{query, "gb|X1|" + aro + "|gene", pident,
		"100", "0", "0", "1", "100", "1", "100", evalue, bitscore}, "\t") + "\n"
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func encode(t *testing.T, alignments string, opts EncodeOptions) (*Matrix, *Matrix, error) {
	t.Helper()
	reads := writeFile(t, "reads.fq", testReads)
	aln := writeFile(t, "aln.out6", alignments)
	return NewHomologyEncoder(reads, aln, newTestCatalog()).Encode(opts)
}

func mustRow(t *testing.T, m *Matrix, name string) []float64 {
	t.Helper()
	row, ok := m.Row(name)
	if !ok {
		t.Fatalf("no row %q in %v", name, m.Rows())
	}
	return row
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-9 {
			return false
		}
	}
	return true
}

func TestHomologySingleHit(t *testing.T) {
	fam, aro, err := encode(t, hitLine("read1", "3000001", "90", "1e-10", "50.0"), EncodeOptions{Metric: BitScore})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := fam.Cols(); strings.Join(got, ",") != "F1,F2,F3" {
		t.Fatalf("family columns = %v", got)
	}
	if got := mustRow(t, fam, "read1"); !equalFloats(got, []float64{50, 0, 0}) {
		t.Fatalf("read1 family row = %v", got)
	}
	if got := mustRow(t, fam, "gbread2"); !equalFloats(got, []float64{0, 0, 0}) {
		t.Fatalf("gbread2 family row = %v", got)
	}
	if got := mustRow(t, aro, "read1"); !equalFloats(got, []float64{50, 0, 0, 0}) {
		t.Fatalf("read1 aro row = %v", got)
	}
}

func TestHomologyRowOrderFollowsReads(t *testing.T) {
	aln := hitLine("read3", "3000003", "90", "1e-10", "10") +
		hitLine("gbread2", "3000002", "90", "1e-10", "20") +
		hitLine("read1", "3000004", "90", "1e-10", "30")
	fam, aro, err := encode(t, aln, EncodeOptions{Metric: BitScore})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	want := "read1,gbread2,read3"
	for _, m := range []*Matrix{fam, aro} {
		if got := strings.Join(m.Rows(), ","); got != want {
			t.Fatalf("rows = %s, want %s", got, want)
		}
	}
}

func TestHomologyBestScore(t *testing.T) {
	aln := hitLine("read1", "3000001", "80", "1e-5", "40") +
		hitLine("read1", "3000002", "95", "1e-20", "60") +
		hitLine("read1", "3000001", "99", "1e-3", "45")

	tests := []struct {
		metric Metric
		fam    []float64
		aro    []float64
	}{
		{BitScore, []float64{60, 0, 0}, []float64{45, 60, 0, 0}},
		{PIdent, []float64{99, 0, 0}, []float64{99, 95, 0, 0}},
		{EValue, []float64{math.Log(1e-20), 0, 0}, []float64{math.Log(1e-5), math.Log(1e-20), 0, 0}},
	}
	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			fam, aro, err := encode(t, aln, EncodeOptions{Metric: tt.metric})
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			if got := mustRow(t, fam, "read1"); !equalFloats(got, tt.fam) {
				t.Errorf("family row = %v, want %v", got, tt.fam)
			}
			if got := mustRow(t, aro, "read1"); !equalFloats(got, tt.aro) {
				t.Errorf("aro row = %v, want %v", got, tt.aro)
			}
		})
	}
}

func TestHomologyEValueAboveOne(t *testing.T) {
	// log(e) > 0 is still the best observed value.
	fam, _, err := encode(t, hitLine("read1", "3000003", "80", "5", "10"), EncodeOptions{Metric: EValue})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := mustRow(t, fam, "read1"); !equalFloats(got, []float64{0, math.Log(5), 0}) {
		t.Fatalf("family row = %v", got)
	}
}

func TestHomologyZeroEValueIsFinite(t *testing.T) {
	fam, _, err := encode(t, hitLine("read1", "3000003", "80", "0", "10"), EncodeOptions{Metric: EValue})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	row := mustRow(t, fam, "read1")
	if math.IsInf(row[1], 0) || row[1] >= 0 {
		t.Fatalf("log of zero e-value = %v", row[1])
	}
}

func TestHomologyNormalize(t *testing.T) {
	aln := hitLine("read1", "3000001", "90", "1e-10", "50") +
		hitLine("gbread2", "3000003", "90", "1e-10", "100")
	fam, aro, err := encode(t, aln, EncodeOptions{Metric: BitScore, Normalize: true})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := mustRow(t, fam, "read1"); !equalFloats(got, []float64{0.5, 0, 0}) {
		t.Errorf("read1 family = %v", got)
	}
	if got := mustRow(t, fam, "gbread2"); !equalFloats(got, []float64{0, 0.5, 0}) {
		t.Errorf("gbread2 family = %v", got)
	}
	if got := mustRow(t, aro, "read1"); !equalFloats(got, []float64{0.5, 0, 0, 0}) {
		t.Errorf("read1 aro = %v", got)
	}
}

func TestHomologyDissimilarity(t *testing.T) {
	fam, _, err := encode(t, hitLine("read1", "3000001", "90", "1e-10", "25"),
		EncodeOptions{Metric: BitScore, Normalize: true, Dissimilarity: true})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := mustRow(t, fam, "read1"); !equalFloats(got, []float64{0.75, 1, 1}) {
		t.Errorf("read1 family = %v", got)
	}
	if got := mustRow(t, fam, "read3"); !equalFloats(got, []float64{1, 1, 1}) {
		t.Errorf("read3 family = %v", got)
	}
}

func TestHomologyConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		opts EncodeOptions
	}{
		{"normalize evalue", EncodeOptions{Metric: EValue, Normalize: true}},
		{"normalize pident", EncodeOptions{Metric: PIdent, Normalize: true}},
		{"dissimilarity without normalize", EncodeOptions{Metric: BitScore, Dissimilarity: true}},
		{"unknown metric", EncodeOptions{Metric: "score"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fam, aro, err := encode(t, hitLine("read1", "3000001", "90", "1e-10", "25"), tt.opts)
			var ce *ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("want *ConfigError, got %v", err)
			}
			if fam != nil || aro != nil {
				t.Fatalf("matrices returned with error")
			}
		})
	}
}

func TestHomologyMissingMaximum(t *testing.T) {
	cat := newTestCatalog()
	delete(cat.maxARO, "3000004")
	reads := writeFile(t, "reads.fq", testReads)
	aln := writeFile(t, "aln.out6", "")
	_, _, err := NewHomologyEncoder(reads, aln, cat).Encode(EncodeOptions{Metric: BitScore, Normalize: true})
	var ce *ConfigError
	if !errors.As(err, &ce) || !strings.Contains(ce.Reason, "3000004") {
		t.Fatalf("want *ConfigError naming 3000004, got %v", err)
	}

	cat = newTestCatalog()
	cat.maxFamily["F2"] = 0
	_, _, err = NewHomologyEncoder(reads, aln, cat).Encode(EncodeOptions{Metric: BitScore, Normalize: true})
	if !errors.As(err, &ce) || !strings.Contains(ce.Reason, "F2") {
		t.Fatalf("want *ConfigError naming F2, got %v", err)
	}
}

func TestHomologyMissingData(t *testing.T) {
	tests := []struct {
		name string
		aln  string
		kind string
	}{
		{"unknown aro", hitLine("read1", "3999999", "90", "1e-10", "25"), "aro"},
		{"unknown read", hitLine("read9", "3000001", "90", "1e-10", "25"), "read"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := encode(t, tt.aln, EncodeOptions{Metric: BitScore})
			var me *MissingDataError
			if !errors.As(err, &me) || me.Kind != tt.kind {
				t.Fatalf("want *MissingDataError of kind %s, got %v", tt.kind, err)
			}
		})
	}
}

func TestHomologyMalformedReport(t *testing.T) {
	_, _, err := encode(t, "read1\tgb|X|3000001|g\t90\n", EncodeOptions{Metric: BitScore})
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Line != 1 {
		t.Fatalf("want *ParseError at line 1, got %v", err)
	}
}

func TestHomologyStableColumns(t *testing.T) {
	a, _, err := encode(t, "", EncodeOptions{Metric: BitScore})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	b, _, err := encode(t, "", EncodeOptions{Metric: BitScore})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if strings.Join(a.Cols(), ",") != strings.Join(b.Cols(), ",") {
		t.Fatalf("columns differ: %v vs %v", a.Cols(), b.Cols())
	}
	col, _ := a.Col("F3")
	if !equalFloats(col, []float64{0, 0, 0}) {
		t.Fatalf("unobserved family column = %v", col)
	}
}

func TestHomologySkipsMissingScore(t *testing.T) {
	aln := hitLine("read1", "3000001", "*", "1e-10", "30") +
		hitLine("read1", "3000001", "85", "1e-10", "20") +
		hitLine("gbread2", "3000003", "*", "1e-10", "40")
	fam, aro, err := encode(t, aln, EncodeOptions{Metric: PIdent})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if got := mustRow(t, fam, "read1"); !equalFloats(got, []float64{85, 0, 0}) {
		t.Errorf("read1 family = %v", got)
	}
	if got := mustRow(t, aro, "read1"); !equalFloats(got, []float64{85, 0, 0, 0}) {
		t.Errorf("read1 aro = %v", got)
	}
	if got := mustRow(t, fam, "gbread2"); !equalFloats(got, []float64{0, 0, 0}) {
		t.Errorf("gbread2 family = %v", got)
	}
}
