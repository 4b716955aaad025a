package simulate

import (
	"bufio"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/biogo/biogo/seq"
	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"
	"gopkg.in/cheggaaa/pb.v1"
)

// MinOverlap is the overlap a read needs with an annotation to
// carry its ARO.
const MinOverlap = 50

// NoLabel marks a read overlapping no annotation.
const NoLabel = "NONE"

// Overlap returns the overlap of two ranges, negative when they
// are disjoint.
func Overlap(start1, end1, start2, end2 int) int {
	return minInt(end1, end2) - maxInt(start1, start2)
}

// Labeler assigns AROs to simulated reads.
type Labeler struct {
	byContig     map[string][]Annotation
	ShowProgress bool
}

func NewLabeler(annotations []Annotation) *Labeler {
	l := &Labeler{byContig: make(map[string][]Annotation)}
	for _, a := range annotations {
		l.byContig[a.Contig] = append(l.byContig[a.Contig], a)
	}
	return l
}

// Labels returns the sorted, distinct AROs of the annotations on
// the read's contig and strand that it overlaps by more than
// MinOverlap.
func (l *Labeler) Labels(r *sam.Record) []string {
	if r.Ref == nil {
		return nil
	}
	strand := seq.Plus
	if r.Flags&sam.Reverse != 0 {
		strand = seq.Minus
	}
	start := r.Pos
	end := r.Pos + r.Seq.Length

	set := make(map[string]bool)
	for _, a := range l.byContig[ContigName(r.Ref.Name())] {
		if a.Strand != strand {
			continue
		}
		if Overlap(start, end, a.Start, a.End) > MinOverlap {
			set[a.ARO] = true
		}
	}

	labels := make([]string, 0, len(set))
	for aro := range set {
		labels = append(labels, aro)
	}
	sort.Strings(labels)
	return labels
}

// CreateLabels writes one line per record of the alignment file to
// out: the read name, a tab, and its AROs separated by spaces or
// NoLabel. Files ending in ".bam" are read as BAM, others as SAM.
func (l *Labeler) CreateLabels(alnFile, out string) error {
	f, err := os.Open(alnFile)
	if err != nil {
		return err
	}
	defer f.Close()

	var r io.Reader = f
	if l.ShowProgress {
		if fi, err := f.Stat(); err == nil {
			bar := pb.New64(fi.Size()).SetUnits(pb.U_BYTES)
			bar.Output = os.Stderr
			bar.Start()
			defer bar.Finish()
			r = bar.NewProxyReader(f)
		}
	}

	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()

	var n int
	if strings.HasSuffix(alnFile, ".bam") {
		n, err = l.WriteBAMLabels(w, r)
	} else {
		n, err = l.WriteLabels(w, r)
	}
	if err != nil {
		return err
	}
	Log.Infof("labelled %d reads in %s", n, out)
	return w.Close()
}

type recordReader interface {
	Read() (*sam.Record, error)
}

// WriteLabels labels the records of a SAM stream.
func (l *Labeler) WriteLabels(w io.Writer, r io.Reader) (int, error) {
	sr, err := sam.NewReader(r)
	if err != nil {
		return 0, err
	}
	return l.writeLabels(w, sr)
}

// WriteBAMLabels labels the records of a BAM stream.
func (l *Labeler) WriteBAMLabels(w io.Writer, r io.Reader) (int, error) {
	br, err := bam.NewReader(r, 1)
	if err != nil {
		return 0, err
	}
	defer br.Close()
	return l.writeLabels(w, br)
}

func (l *Labeler) writeLabels(w io.Writer, rr recordReader) (int, error) {
	bw := bufio.NewWriter(w)
	n := 0
	for {
		rec, err := rr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return n, err
		}
		n++

		labels := l.Labels(rec)
		bw.WriteString(rec.Name)
		bw.WriteByte('\t')
		if len(labels) == 0 {
			bw.WriteString(NoLabel)
		} else {
			bw.WriteString(strings.Join(labels, " "))
		}
		bw.WriteByte('\n')
	}
	return n, bw.Flush()
}

// return max int
func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// return min int
func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
