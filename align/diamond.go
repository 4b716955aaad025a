package align

import (
	"context"
	"strconv"
)

// Diamond runs DIAMOND.
type Diamond struct {
	Path        string // executable, "diamond" by default.
	Threads     int    // 0 lets diamond decide.
	Sensitivity string // e.g. "more-sensitive"; empty for the default mode.
}

func (d Diamond) bin() string {
	if d.Path == "" {
		return "diamond"
	}
	return d.Path
}

func (d Diamond) common() []string {
	var options []string
	if d.Threads > 0 {
		options = append(options, "--threads", strconv.Itoa(d.Threads))
	}
	if d.Sensitivity != "" {
		options = append(options, "--"+d.Sensitivity)
	}
	return options
}

// IsDBExist checks if the protein db is already indexed.
func (d Diamond) IsDBExist(db string) bool {
	return fileExists(db + ".dmnd")
}

// MakeDB indexes a protein FASTA file as db.dmnd.
func (d Diamond) MakeDB(ctx context.Context, in, db string) error {
	return run(ctx, nil, d.bin(), "makedb", "--in", in, "--db", db)
}

// Blastx searches translated reads against db and writes a
// tabular (outfmt 6) report to out. A positive minScore sets
// --min-score.
func (d Diamond) Blastx(ctx context.Context, db, query, out string, minScore int) error {
	return d.search(ctx, "blastx", db, query, out, minScore)
}

// Blastp searches protein queries against db.
func (d Diamond) Blastp(ctx context.Context, db, query, out string, minScore int) error {
	return d.search(ctx, "blastp", db, query, out, minScore)
}

func (d Diamond) search(ctx context.Context, mode, db, query, out string, minScore int) error {
	options := []string{mode,
		"--db", db,
		"--query", query,
		"--outfmt", "6",
		"--out", out,
	}
	if minScore > 0 {
		options = append(options, "--min-score", strconv.Itoa(minScore))
	}
	options = append(options, d.common()...)
	return run(ctx, nil, d.bin(), options...)
}
