package amrtime

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kshedden/gonpy"
	"gonum.org/v1/gonum/mat"
)

// Index maps column names to dense column positions and back.
type Index struct {
	names []string
	pos   map[string]int
}

// NewIndex returns an index over names in the given order.
// Duplicated names keep their first position.
func NewIndex(names []string) *Index {
	idx := &Index{pos: make(map[string]int, len(names))}
	for _, n := range names {
		if _, found := idx.pos[n]; found {
			continue
		}
		idx.pos[n] = len(idx.names)
		idx.names = append(idx.names, n)
	}
	return idx
}

func (idx *Index) Len() int { return len(idx.names) }

// Names returns the names in column order.
func (idx *Index) Names() []string { return idx.names }

// Lookup returns the column of name.
func (idx *Index) Lookup(name string) (int, bool) {
	i, found := idx.pos[name]
	return i, found
}

// Name returns the name of column i.
func (idx *Index) Name(i int) string { return idx.names[i] }

// Matrix is a dense matrix with labelled rows and columns.
type Matrix struct {
	rows *Index
	cols *Index
	data *mat.Dense // nil when there are no rows or no columns.
}

// NewMatrix returns a zero matrix with the given labels.
func NewMatrix(rows, cols []string) *Matrix {
	m := &Matrix{rows: NewIndex(rows), cols: NewIndex(cols)}
	if m.rows.Len() > 0 && m.cols.Len() > 0 {
		m.data = mat.NewDense(m.rows.Len(), m.cols.Len(), nil)
	}
	return m
}

func (m *Matrix) Dims() (r, c int) { return m.rows.Len(), m.cols.Len() }

func (m *Matrix) Rows() []string { return m.rows.Names() }

func (m *Matrix) Cols() []string { return m.cols.Names() }

func (m *Matrix) At(i, j int) float64 { return m.data.At(i, j) }

func (m *Matrix) Set(i, j int, v float64) { m.data.Set(i, j, v) }

// Dense exposes the backing matrix, nil for an empty matrix.
func (m *Matrix) Dense() *mat.Dense { return m.data }

// Row returns a copy of the row labelled name.
func (m *Matrix) Row(name string) ([]float64, bool) {
	i, found := m.rows.Lookup(name)
	if !found {
		return nil, false
	}
	if m.data == nil {
		return []float64{}, true
	}
	return mat.Row(nil, i, m.data), true
}

// Col returns a copy of the column labelled name.
func (m *Matrix) Col(name string) ([]float64, bool) {
	j, found := m.cols.Lookup(name)
	if !found {
		return nil, false
	}
	if m.data == nil {
		return []float64{}, true
	}
	return mat.Col(nil, j, m.data), true
}

// Apply replaces every cell v at (i, j) by fn(i, j, v).
func (m *Matrix) Apply(fn func(i, j int, v float64) float64) {
	if m.data == nil {
		return
	}
	m.data.Apply(fn, m.data)
}

// WriteTSV writes the matrix as a tab separated table.
// The header line is "read" followed by the column names.
func (m *Matrix) WriteTSV(w io.Writer) error {
	bw := bufio.NewWriter(w)
	bw.WriteString("read")
	for _, c := range m.Cols() {
		bw.WriteByte('\t')
		bw.WriteString(c)
	}
	bw.WriteByte('\n')

	r, c := m.Dims()
	buf := make([]byte, 0, 32)
	for i := 0; i < r; i++ {
		bw.WriteString(m.rows.Name(i))
		for j := 0; j < c; j++ {
			bw.WriteByte('\t')
			buf = strconv.AppendFloat(buf[:0], m.At(i, j), 'g', -1, 64)
			bw.Write(buf)
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteNpy writes the cells as a row-major float64 .npy file at path.
// Row and column labels go to path+".rows" and path+".cols".
func (m *Matrix) WriteNpy(path string) error {
	r, c := m.Dims()
	data := make([]float64, r*c)
	for i := 0; i < r && c > 0; i++ {
		mat.Row(data[i*c:(i+1)*c], i, m.data)
	}

	npw, err := gonpy.NewFileWriter(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	npw.Shape = []int{r, c}
	if err := npw.WriteFloat64(data); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	if err := writeLabels(path+".rows", m.Rows()); err != nil {
		return err
	}
	return writeLabels(path+".cols", m.Cols())
}

func writeLabels(path string, names []string) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if len(names) > 0 {
		_, err = w.WriteString(strings.Join(names, "\n") + "\n")
	}
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	return err
}
