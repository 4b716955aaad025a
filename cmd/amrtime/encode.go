package main

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/mingzhi/amrtime"
	"github.com/mingzhi/amrtime/card"
)

// Output formats of the encodings.
const (
	formatTSV = "tsv"
	formatNpy = "npy"
)

// Command encoding reads by their homology to CARD.
type cmdEncodeHomology struct {
	*cmdConfig
	reads      string
	alignments string
	outPrefix  string
	progress   bool
}

func (cmd *cmdEncodeHomology) register(c *kingpin.CmdClause) {
	c.Arg("reads", "reads in fastq format.").Required().StringVar(&cmd.reads)
	c.Arg("alignments", "alignment report of the reads (outfmt 6).").Required().StringVar(&cmd.alignments)
	c.Flag("out-prefix", "output prefix, <reads> by default.").StringVar(&cmd.outPrefix)
	c.Flag("progress", "show progress.").BoolVar(&cmd.progress)
	cmd.flag(c.Flag("metric", "score: bitscore, evalue or pident."), "encode.metric")
	cmd.boolFlag(c.Flag("normalize", "divide bitscores by the CARD maximum."), "encode.normalize")
	cmd.boolFlag(c.Flag("dissimilarity", "1 - normalized bitscore."), "encode.dissimilarity")
	cmd.flag(c.Flag("card-index", "CARD aro_index.tsv."), "card.index")
	cmd.flag(c.Flag("max-scores", "maximum bitscore table written by maxscores."), "card.maxscores")
	cmd.flag(c.Flag("self-alignment", "self-alignment report of the CARD protein db."), "card.selfalignment")
	cmd.flag(c.Flag("format", "output format: tsv or npy."), "output.format")
}

func (cmd *cmdEncodeHomology) Run(ctx context.Context) error {
	metric, err := amrtime.ParseMetric(cmd.v.GetString("encode.metric"))
	if err != nil {
		return err
	}
	opts := amrtime.EncodeOptions{
		Metric:        metric,
		Normalize:     cmd.v.GetBool("encode.normalize"),
		Dissimilarity: cmd.v.GetBool("encode.dissimilarity"),
		ShowProgress:  cmd.progress,
	}
	if err := opts.Validate(); err != nil {
		return err
	}
	format, err := cmd.format()
	if err != nil {
		return err
	}

	cat, err := cmd.loadCatalog(opts.Normalize)
	if err != nil {
		return err
	}

	enc := amrtime.NewHomologyEncoder(cmd.reads, cmd.alignments, cat)
	family, aro, err := enc.Encode(opts)
	if err != nil {
		return err
	}

	prefix := cmd.outPrefix
	if prefix == "" {
		prefix = cmd.reads
	}
	if err := writeMatrix(family, prefix+".family", format); err != nil {
		return err
	}
	return writeMatrix(aro, prefix+".aro", format)
}

// loadCatalog reads the CARD index, and the maximum bitscores when
// they are needed, from the cached table or else from a
// self-alignment report.
func (cmd *cmdConfig) loadCatalog(withMaxScores bool) (*card.Catalog, error) {
	index := cmd.v.GetString("card.index")
	if index == "" {
		return nil, &amrtime.ConfigError{Option: "card.index", Reason: "no CARD aro_index.tsv given"}
	}
	cat, err := card.LoadIndex(index)
	if err != nil {
		return nil, err
	}
	if !withMaxScores {
		return cat, nil
	}

	if maxScores := cmd.v.GetString("card.maxscores"); maxScores != "" {
		return cat, cat.LoadMaxBitscores(maxScores)
	}
	if self := cmd.v.GetString("card.selfalignment"); self != "" {
		return cat, cat.CalculateMaxBitscores(self)
	}
	return nil, &amrtime.ConfigError{Option: "normalize", Reason: "needs card.maxscores or card.selfalignment"}
}

func (cmd *cmdConfig) format() (string, error) {
	switch f := cmd.v.GetString("output.format"); f {
	case formatTSV, formatNpy:
		return f, nil
	default:
		return "", &amrtime.ConfigError{Option: "format", Reason: fmt.Sprintf("unknown output format %q, want tsv or npy", f)}
	}
}

// writeMatrix writes m to prefix plus the extension of format.
func writeMatrix(m *amrtime.Matrix, prefix, format string) error {
	fileName := prefix + "." + format
	if format == formatNpy {
		if err := m.WriteNpy(fileName); err != nil {
			return err
		}
	} else {
		w, err := os.Create(fileName)
		if err != nil {
			return err
		}
		if err := m.WriteTSV(w); err != nil {
			w.Close()
			return err
		}
		if err := w.Close(); err != nil {
			return err
		}
	}

	r, c := m.Dims()
	logger.Infof("%d x %d encoding was saved to %s", r, c, fileName)
	return nil
}

// Command encoding reads by k-mer frequencies.
type cmdEncodeKmer struct {
	*cmdConfig
	reads     string
	outPrefix string
}

func (cmd *cmdEncodeKmer) register(c *kingpin.CmdClause) {
	c.Arg("reads", "reads in fastq format.").Required().StringVar(&cmd.reads)
	c.Flag("out-prefix", "output prefix, <reads> by default.").StringVar(&cmd.outPrefix)
	cmd.flag(c.Flag("k", "k-mer width."), "kmer.k")
	cmd.flag(c.Flag("format", "output format: tsv or npy."), "output.format")
}

func (cmd *cmdEncodeKmer) Run(ctx context.Context) error {
	format, err := cmd.format()
	if err != nil {
		return err
	}
	k := cmd.v.GetInt("kmer.k")
	m, err := amrtime.NewKmerEncoder(cmd.reads, k).Encode()
	if err != nil {
		return err
	}

	prefix := cmd.outPrefix
	if prefix == "" {
		prefix = cmd.reads
	}
	return writeMatrix(m, fmt.Sprintf("%s.kmer%d", prefix, k), format)
}
