package main

import (
	"context"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mingzhi/amrtime/align"
)

// Command aligning reads to the CARD protein db.
type cmdAlign struct {
	*cmdConfig
	reads string
	db    string
	out   string
	force bool
}

func (cmd *cmdAlign) register(c *kingpin.CmdClause) {
	c.Arg("reads", "reads in fastq format.").Required().StringVar(&cmd.reads)
	c.Arg("db", "CARD protein database (FASTA).").Required().StringVar(&cmd.db)
	c.Flag("out", "alignment report, <reads>.<tool>.out6 by default.").StringVar(&cmd.out)
	c.Flag("force", "rerun the alignment even if the report exists.").BoolVar(&cmd.force)
	cmd.flag(c.Flag("tool", "aligner: diamond or mmseqs2."), "align.tool")
	cmd.flag(c.Flag("threads", "aligner threads."), "diamond.threads")
}

func (cmd *cmdAlign) Run(ctx context.Context) error {
	a := align.Aligner{
		Tool:    cmd.v.GetString("align.tool"),
		Diamond: cmd.diamond(),
		MMseqs:  cmd.mmseqs(),
		Force:   cmd.force,
	}
	if !cmd.v.IsSet("mmseqs.threads") {
		a.MMseqs.Threads = a.Diamond.Threads
	}

	out := cmd.out
	if out == "" {
		out = cmd.reads + "." + a.Tool + ".out6"
	}
	report, err := a.Align(ctx, cmd.reads, cmd.db, out)
	if err != nil {
		return err
	}
	logger.Infof("alignment report: %s", report)
	return nil
}
