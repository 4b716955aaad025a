package main

import (
	"context"
	"fmt"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mingzhi/amrtime/card"
)

// Command checking the CARD index against the protein db.
type cmdCatalogCheck struct {
	*cmdConfig
	index    string
	proteins string
}

func (cmd *cmdCatalogCheck) register(c *kingpin.CmdClause) {
	c.Arg("card-index", "CARD aro_index.tsv.").Required().StringVar(&cmd.index)
	c.Arg("card-proteins", "CARD protein homolog FASTA.").Required().StringVar(&cmd.proteins)
}

func (cmd *cmdCatalogCheck) Run(ctx context.Context) error {
	cat, err := card.LoadIndex(cmd.index)
	if err != nil {
		return err
	}
	counts, err := card.ReadProteinAROs(cmd.proteins)
	if err != nil {
		return err
	}

	notIndexed, noSequence := cat.Check(counts)
	for _, aro := range notIndexed {
		logger.Warnf("%s in %s is not in %s", aro, cmd.proteins, cmd.index)
	}
	for _, aro := range noSequence {
		logger.Warnf("%s has no sequence in %s", aro, cmd.proteins)
	}
	if len(notIndexed) > 0 {
		return fmt.Errorf("%d AROs of %s are not indexed", len(notIndexed), cmd.proteins)
	}
	logger.Infof("%d AROs, %d families, %d without sequence", len(cat.AROs()), len(cat.Families()), len(noSequence))
	return nil
}
