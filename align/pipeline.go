package align

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/mingzhi/amrtime"
)

// Tool names accepted by Aligner.
const (
	ToolDiamond = "diamond"
	ToolMMseqs  = "mmseqs2"
)

// Aligner produces the alignment report of reads against the
// CARD protein database.
type Aligner struct {
	Tool    string
	Diamond Diamond
	MMseqs  MMseqs
	Force   bool // rerun even when the report exists.
}

// Align writes the report of reads against db to out and returns
// out. An existing report is reused unless Force is set. A failed
// search leaves no report behind.
func (a Aligner) Align(ctx context.Context, reads, db, out string) (string, error) {
	if !a.Force && fileExists(out) {
		Log.Infof("reusing alignment report %s", out)
		return out, nil
	}

	switch a.Tool {
	case ToolDiamond, "":
		if !a.Diamond.IsDBExist(db) {
			Log.Infof("building diamond db %s.dmnd", db)
			if err := a.Diamond.MakeDB(ctx, db, db); err != nil {
				return "", err
			}
		}
		if err := a.Diamond.Blastx(ctx, db, reads, out, 0); err != nil {
			os.Remove(out)
			return "", err
		}
	case ToolMMseqs:
		if err := a.MMseqs.EasySearch(ctx, reads, db, out); err != nil {
			os.Remove(out)
			return "", err
		}
	default:
		return "", &amrtime.ConfigError{Option: "tool", Reason: fmt.Sprintf("unknown aligner %q, want %s or %s", a.Tool, ToolDiamond, ToolMMseqs)}
	}
	return out, nil
}

// Filter keeps the reads of input with a DIAMOND hit scoring at
// least minScore against db. The hits go to input+".out" and the
// kept reads to input+".filtered", whose name is returned.
func Filter(ctx context.Context, d Diamond, s Seqtk, input, db string, minScore int) (string, error) {
	output := input + ".out"
	if err := d.Blastx(ctx, db, input, output, minScore); err != nil {
		os.Remove(output)
		return "", err
	}

	temp := output + ".temp"
	defer os.Remove(temp)
	n, err := writeQueryIDs(output, temp)
	if err != nil {
		return "", err
	}
	Log.Infof("%d reads with hits in %s", n, output)

	filtered := input + ".filtered"
	if err := s.Subseq(ctx, input, temp, filtered); err != nil {
		return "", err
	}
	return filtered, nil
}

// writeQueryIDs writes the distinct query ids of a report, in
// order of first appearance, one per line.
func writeQueryIDs(report, fileName string) (int, error) {
	f, err := os.Open(report)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w, err := os.Create(fileName)
	if err != nil {
		return 0, err
	}
	bw := bufio.NewWriter(w)

	seen := make(map[string]bool)
	hr := amrtime.NewHitReader(f, report)
	for {
		h, err := hr.Read()
		if err != nil {
			if err == io.EOF {
				break
			}
			w.Close()
			return 0, err
		}
		if seen[h.QSeqid] {
			continue
		}
		seen[h.QSeqid] = true
		bw.WriteString(h.QSeqid)
		bw.WriteByte('\n')
	}

	if err := bw.Flush(); err != nil {
		w.Close()
		return 0, err
	}
	return len(seen), w.Close()
}
