package main

import (
	"context"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mingzhi/amrtime/align"
)

// Command keeping the reads with a hit to the CARD protein db.
type cmdFilter struct {
	*cmdConfig
	input    string
	db       string
	minScore int
}

func (cmd *cmdFilter) register(c *kingpin.CmdClause) {
	c.Arg("input", "path to input fastq file.").Required().StringVar(&cmd.input)
	c.Arg("db", "path to CARD protein database.").Required().StringVar(&cmd.db)
	c.Arg("minscore", "minimum bitscore.").Required().IntVar(&cmd.minScore)
	cmd.flag(c.Flag("diamond", "diamond executable."), "diamond.path")
	cmd.flag(c.Flag("seqtk", "seqtk executable."), "seqtk.path")
}

func (cmd *cmdFilter) Run(ctx context.Context) error {
	filtered, err := align.Filter(ctx, cmd.diamond(), cmd.seqtk(), cmd.input, cmd.db, cmd.minScore)
	if err != nil {
		return err
	}
	logger.Infof("filtered reads were saved to %s", filtered)
	return nil
}
