// Package align wraps the external tools of the pipeline: DIAMOND,
// MMseqs2, seqtk and mason. Every tool runs as a blocking
// subprocess; a non-zero exit becomes a *ToolError carrying the
// tool's standard error.
package align

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log is the package logger.
var Log logrus.FieldLogger = logrus.StandardLogger()

// ToolError reports a failed external tool.
type ToolError struct {
	Tool     string
	Args     []string
	ExitCode int // -1 when the tool did not run to completion.
	Stderr   string
	Err      error
}

func (e *ToolError) Error() string {
	msg := fmt.Sprintf("%s failed (exit %d): %v", e.Tool, e.ExitCode, e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func (e *ToolError) Unwrap() error { return e.Err }

// A helper to run command, with stdout going to stdout when
// not nil.
func run(ctx context.Context, stdout io.Writer, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	stderr := new(bytes.Buffer)
	cmd.Stderr = stderr
	cmd.Stdout = stdout

	Log.WithField("tool", name).Debug(strings.Join(cmd.Args, " "))
	if err := cmd.Run(); err != nil {
		te := &ToolError{Tool: name, Args: args, ExitCode: -1, Stderr: stderr.String(), Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			te.ExitCode = exitErr.ExitCode()
		}
		return te
	}
	return nil
}

// runTo runs a command writing its stdout to fileName. The file is
// removed when the command fails.
func runTo(ctx context.Context, fileName, name string, args ...string) error {
	w, err := os.Create(fileName)
	if err != nil {
		return err
	}
	err = run(ctx, w, name, args...)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(fileName)
	}
	return err
}

func fileExists(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
