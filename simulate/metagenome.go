// Package simulate builds labelled training data: a synthetic
// metagenome from annotated genomes, Illumina reads drawn from it
// with mason, and the AROs each read overlaps.
package simulate

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"
	"github.com/sirupsen/logrus"
)

// Log is the package logger.
var Log logrus.FieldLogger = logrus.StandardLogger()

// copySuffix separates a contig name from its copy number in the
// synthetic metagenome.
const copySuffix = ".copy"

// fastaWidth is the line width of written FASTA files.
const fastaWidth = 60

// CopyName returns the contig name of the n-th copy of a contig.
// The first copy keeps the original name.
func CopyName(name string, n int) string {
	if n == 0 {
		return name
	}
	return name + copySuffix + strconv.Itoa(n)
}

// ContigName strips the copy suffix added by CopyName.
func ContigName(name string) string {
	i := strings.LastIndex(name, copySuffix)
	if i < 0 {
		return name
	}
	if _, err := strconv.Atoi(name[i+len(copySuffix):]); err != nil {
		return name
	}
	return name[:i]
}

func newFastaReader(r io.Reader) *fasta.Reader {
	return fasta.NewReader(r, linear.NewSeq("", nil, alphabet.DNAredundant))
}

// PrepareMetagenome concatenates the genomes into outputName +
// "_metagenome.fasta", writing every contig of genomes[i]
// abundances[i] times. It returns the path of the metagenome.
func PrepareMetagenome(genomes []string, abundances []int, outputName string) (string, error) {
	fileName := outputName + "_metagenome.fasta"
	w, err := os.Create(fileName)
	if err != nil {
		return "", err
	}
	defer w.Close()

	fw := fasta.NewWriter(w, fastaWidth)
	for i, g := range genomes {
		if err := appendGenome(fw, g, abundances[i]); err != nil {
			return "", err
		}
	}
	return fileName, w.Close()
}

func appendGenome(fw *fasta.Writer, fileName string, copies int) error {
	f, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer f.Close()

	sc := seqio.NewScanner(newFastaReader(f))
	for sc.Next() {
		s := sc.Seq().(*linear.Seq)
		name := s.ID
		for n := 0; n < copies; n++ {
			s.ID = CopyName(name, n)
			if _, err := fw.Write(s); err != nil {
				return err
			}
		}
	}
	return sc.Error()
}

// CountNucleotides returns the total sequence length of a FASTA file.
func CountNucleotides(fileName string) (int, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	n := 0
	sc := seqio.NewScanner(newFastaReader(f))
	for sc.Next() {
		n += sc.Seq().Len()
	}
	return n, sc.Error()
}

// EstimateReadDepth returns the number of reads of readLength
// needed to cover nt nucleotides coverage times.
func EstimateReadDepth(nt, coverage, readLength int) int {
	return coverage * nt / readLength
}
