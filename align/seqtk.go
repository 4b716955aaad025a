package align

import (
	"context"
)

// Seqtk runs seqtk.
type Seqtk struct {
	Path string // executable, "seqtk" by default.
}

func (s Seqtk) bin() string {
	if s.Path == "" {
		return "seqtk"
	}
	return s.Path
}

// Subseq writes the records of in named in the list file to out.
func (s Seqtk) Subseq(ctx context.Context, in, list, out string) error {
	return runTo(ctx, out, s.bin(), "subseq", in, list)
}
