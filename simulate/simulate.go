package simulate

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/mingzhi/amrtime"
	"github.com/mingzhi/amrtime/align"
)

// Simulator generates a labelled synthetic metagenome.
type Simulator struct {
	Mason        align.Mason
	Coverage     int
	ReadLength   int
	OutputName   string
	BAM          bool // mason writes BAM alignments instead of SAM.
	ShowProgress bool
}

// Result lists the files written by Run.
type Result struct {
	Metagenome string
	Reads      string // FASTQ.
	Alignments string // SAM, or BAM when Simulator.BAM is set.
	Labels     string
	ReadCount  int
}

func (s Simulator) validate(genomes, annotations []string, abundances []int) error {
	if len(genomes) != len(annotations) || len(annotations) != len(abundances) {
		return &amrtime.ConfigError{Option: "genomes", Reason: "you must provide the same number of genomes, annotations and relative abundances"}
	}
	if len(genomes) == 0 {
		return &amrtime.ConfigError{Option: "genomes", Reason: "no genome given"}
	}
	for _, a := range abundances {
		if a < 0 {
			return &amrtime.ConfigError{Option: "abundances", Reason: fmt.Sprintf("negative relative abundance %d", a)}
		}
	}
	if s.Coverage < 1 {
		return &amrtime.ConfigError{Option: "coverage", Reason: fmt.Sprintf("coverage %d, want at least 1", s.Coverage)}
	}
	if s.ReadLength < 1 {
		return &amrtime.ConfigError{Option: "read-length", Reason: fmt.Sprintf("read length %d, want at least 1", s.ReadLength)}
	}
	if s.OutputName == "" {
		return &amrtime.ConfigError{Option: "output-name", Reason: "empty output name"}
	}
	return nil
}

// Run builds the metagenome of genomes at the given relative
// abundances, simulates reads at the requested coverage and labels
// them with the AROs of the annotations.
func (s Simulator) Run(ctx context.Context, genomes, annotations []string, abundances []int) (Result, error) {
	var res Result
	if err := s.validate(genomes, annotations, abundances); err != nil {
		return res, err
	}

	Log.Infof("creating synthetic metagenome from %v", genomes)
	metagenome, err := PrepareMetagenome(genomes, abundances, s.OutputName)
	if err != nil {
		return res, err
	}
	res.Metagenome = metagenome

	nt, err := CountNucleotides(metagenome)
	if err != nil {
		return res, err
	}
	res.ReadCount = EstimateReadDepth(nt, s.Coverage, s.ReadLength)
	if res.ReadCount == 0 {
		return res, &amrtime.ConfigError{Option: "coverage", Reason: fmt.Sprintf("%d nt at coverage %d gives no read of length %d", nt, s.Coverage, s.ReadLength)}
	}

	Log.WithFields(logrus.Fields{
		"reads":  res.ReadCount,
		"length": s.ReadLength,
	}).Info("simulating Illumina reads")
	res.Reads = s.OutputName + ".fq"
	res.Alignments = s.OutputName + ".sam"
	if s.BAM {
		res.Alignments = s.OutputName + ".bam"
	}
	if err := s.Mason.Simulate(ctx, metagenome, res.ReadCount, s.ReadLength, res.Reads, res.Alignments); err != nil {
		return res, err
	}

	Log.Infof("parsing GFF annotations %v", annotations)
	amr, err := ReadAnnotations(annotations)
	if err != nil {
		return res, err
	}

	res.Labels = s.OutputName + ".labels"
	l := NewLabeler(amr)
	l.ShowProgress = s.ShowProgress
	if err := l.CreateLabels(res.Alignments, res.Labels); err != nil {
		return res, err
	}
	return res, nil
}
