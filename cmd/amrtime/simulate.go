package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mingzhi/amrtime/simulate"
)

// Command generating a labelled synthetic metagenome.
type cmdSimulate struct {
	*cmdConfig
	genomes     string
	annotations string
	abundances  string
	coverage    int
	readLength  int
	outputName  string
	bam         bool
	progress    bool
}

func (cmd *cmdSimulate) register(c *kingpin.CmdClause) {
	c.Arg("genomes", "comma separated genome FASTA files.").Required().StringVar(&cmd.genomes)
	c.Arg("annotations", "comma separated GFF annotations, one per genome.").Required().StringVar(&cmd.annotations)
	c.Arg("abundances", "comma separated relative abundances, one per genome.").Required().StringVar(&cmd.abundances)
	c.Flag("coverage", "required coverage for metagenome.").Short('C').Default("1").IntVar(&cmd.coverage)
	c.Flag("read-length", "length of reads to simulate.").Short('r').Default("150").IntVar(&cmd.readLength)
	c.Flag("output-name", "output file name.").Short('o').Default("output").StringVar(&cmd.outputName)
	c.Flag("bam", "write simulated alignments as BAM.").BoolVar(&cmd.bam)
	c.Flag("progress", "show progress.").BoolVar(&cmd.progress)
	cmd.flag(c.Flag("mason", "mason_simulator executable."), "mason.path")
}

func (cmd *cmdSimulate) Run(ctx context.Context) error {
	var abundances []int
	for _, s := range strings.Split(cmd.abundances, ",") {
		a, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("relative abundance %q: %v", s, err)
		}
		abundances = append(abundances, a)
	}

	s := simulate.Simulator{
		Mason:        cmd.mason(),
		Coverage:     cmd.coverage,
		ReadLength:   cmd.readLength,
		OutputName:   cmd.outputName,
		BAM:          cmd.bam,
		ShowProgress: cmd.progress,
	}
	res, err := s.Run(ctx, strings.Split(cmd.genomes, ","), strings.Split(cmd.annotations, ","), abundances)
	if err != nil {
		return err
	}
	logger.Infof("%d reads in %s, labels in %s", res.ReadCount, res.Reads, res.Labels)
	return nil
}
