package card

import (
	"io"
	"os"

	"gonum.org/v1/gonum/floats"

	"github.com/mingzhi/amrtime"
)

// CalculateMaxBitscores derives the maximum bitscore tables from a
// self-alignment report of the CARD protein database: the maximum
// for an ARO is its best hit against a sequence of the same ARO,
// and the maximum for a family is the best of its AROs.
func (c *Catalog) CalculateMaxBitscores(selfAlignment string) error {
	f, err := os.Open(selfAlignment)
	if err != nil {
		return err
	}
	defer f.Close()

	return c.ReadSelfAlignment(f, selfAlignment)
}

func (c *Catalog) ReadSelfAlignment(r io.Reader, name string) error {
	scores := make(map[string][]float64)
	hr := amrtime.NewHitReader(r, name)
	for {
		h, err := hr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			return err
		}
		q, ok1 := amrtime.LabelARO(h.QSeqid)
		s, ok2 := h.ARO()
		if !ok1 || !ok2 || q != s {
			continue
		}
		if _, found := c.aroFamily[s]; !found {
			Log.Warnf("%s: %s is not in the index, skipped", name, s)
			continue
		}
		scores[s] = append(scores[s], h.BitScore)
	}

	byFamily := make(map[string][]float64)
	for aro, v := range scores {
		best := floats.Max(v)
		c.maxARO[aro] = best
		fam := c.aroFamily[aro]
		byFamily[fam] = append(byFamily[fam], best)
	}
	for fam, v := range byFamily {
		c.maxFamily[fam] = floats.Max(v)
	}

	if n := len(c.aroFamily) - len(scores); n > 0 {
		Log.Warnf("%s: %d AROs have no self hit", name, n)
	}
	return nil
}
