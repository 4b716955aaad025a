package card

import (
	"fmt"
	"os"

	"github.com/biogo/biogo/alphabet"
	"github.com/biogo/biogo/io/seqio"
	"github.com/biogo/biogo/io/seqio/fasta"
	"github.com/biogo/biogo/seq/linear"

	"github.com/mingzhi/amrtime"
)

// ReadProteinAROs counts the sequences per ARO in a CARD protein
// homolog FASTA file, whose headers look like
// ">gb|ACT97415.1|ARO:3002999|CblA-1 [Bacteroides uniformis]".
func ReadProteinAROs(fileName string) (map[string]int, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	counts := make(map[string]int)
	sc := seqio.NewScanner(fasta.NewReader(f, linear.NewSeq("", nil, alphabet.Protein)))
	n := 0
	for sc.Next() {
		n++
		name := sc.Seq().Name()
		aro, ok := amrtime.LabelARO(name)
		if !ok {
			return nil, fmt.Errorf("%s: record %d: no ARO in sequence label %q", fileName, n, name)
		}
		counts[aro]++
	}
	if err := sc.Error(); err != nil {
		return nil, err
	}
	return counts, nil
}

// Check compares the catalog with the AROs found in the protein
// database. It returns the AROs of the database missing from the
// index and the indexed AROs without a sequence.
func (c *Catalog) Check(proteinAROs map[string]int) (notIndexed, noSequence []string) {
	for _, aro := range sortedKeys(proteinAROs) {
		if _, found := c.aroFamily[aro]; !found {
			notIndexed = append(notIndexed, aro)
		}
	}
	for _, aro := range c.AROs() {
		if proteinAROs[aro] == 0 {
			noSequence = append(noSequence, aro)
		}
	}
	return notIndexed, noSequence
}
