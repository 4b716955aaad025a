package align

import (
	"context"
	"strconv"
)

// Mason runs mason_simulator to draw Illumina reads from a
// reference.
type Mason struct {
	Path string // executable, "mason_simulator" by default.
}

func (m Mason) bin() string {
	if m.Path == "" {
		return "mason_simulator"
	}
	return m.Path
}

// Simulate draws n error-free reads of readLength from ref,
// writing the reads to fastq and their alignments to sam.
func (m Mason) Simulate(ctx context.Context, ref string, n, readLength int, fastq, sam string) error {
	options := []string{
		"-ir", ref,
		"-n", strconv.Itoa(n),
		"-oa", sam,
		"-o", fastq,
		"--illumina-read-length", strconv.Itoa(readLength),
		// no sequencing errors.
		"--illumina-prob-insert", "0",
		"--illumina-prob-deletion", "0",
		"--illumina-prob-mismatch-scale", "0",
		"--illumina-prob-mismatch", "0",
		"--illumina-prob-mismatch-begin", "0",
		"--illumina-prob-mismatch-end", "0",
	}
	return run(ctx, nil, m.bin(), options...)
}
