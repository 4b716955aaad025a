package main

import (
	"context"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"
)

// Command computing the maximum bitscores of the CARD protein db
// by aligning it against itself.
type cmdMaxScores struct {
	*cmdConfig
	proteins string
	out      string
}

func (cmd *cmdMaxScores) register(c *kingpin.CmdClause) {
	c.Arg("card-proteins", "CARD protein homolog FASTA.").Required().StringVar(&cmd.proteins)
	c.Flag("out", "output table, <card-proteins>.maxscores.tsv by default.").StringVar(&cmd.out)
	cmd.flag(c.Flag("card-index", "CARD aro_index.tsv."), "card.index")
}

func (cmd *cmdMaxScores) Run(ctx context.Context) error {
	cat, err := cmd.loadCatalog(false)
	if err != nil {
		return err
	}

	d := cmd.diamond()
	if !d.IsDBExist(cmd.proteins) {
		if err := d.MakeDB(ctx, cmd.proteins, cmd.proteins); err != nil {
			return err
		}
	}
	self := cmd.proteins + ".self.out6"
	if err := d.Blastp(ctx, cmd.proteins, cmd.proteins, self, 0); err != nil {
		return err
	}
	if err := cat.CalculateMaxBitscores(self); err != nil {
		return err
	}

	out := cmd.out
	if out == "" {
		out = cmd.proteins + ".maxscores.tsv"
	}
	w, err := os.Create(out)
	if err != nil {
		return err
	}
	defer w.Close()
	if err := cat.WriteMaxBitscores(w); err != nil {
		return err
	}
	logger.Infof("maximum bitscores were saved to %s", out)
	return w.Close()
}
