package align

import (
	"context"
	"os"
	"strconv"
)

// mmseqsFormat keeps the blast 6 out columns, with pident in
// percent rather than the default fident.
const mmseqsFormat = "query,target,pident,alnlen,mismatch,gapopen,qstart,qend,tstart,tend,evalue,bits"

// MMseqs runs MMseqs2.
type MMseqs struct {
	Path    string // executable, "mmseqs" by default.
	TmpDir  string // scratch directory, os.TempDir() by default.
	Threads int
}

func (m MMseqs) bin() string {
	if m.Path == "" {
		return "mmseqs"
	}
	return m.Path
}

// EasySearch searches query against target and writes a tabular
// report to out.
func (m MMseqs) EasySearch(ctx context.Context, query, target, out string) error {
	tmp := m.TmpDir
	if tmp == "" {
		tmp = os.TempDir()
	}
	options := []string{"easy-search", query, target, out, tmp,
		"--format-output", mmseqsFormat,
	}
	if m.Threads > 0 {
		options = append(options, "--threads", strconv.Itoa(m.Threads))
	}
	return run(ctx, nil, m.bin(), options...)
}
