package yolo

import (
	"bytes"
	"context"
	"io"
	"os/exec"
	"strings"
	"sync"

	"github.com/cyclopcam/logs"
	"github.com/pkg/errors"
)

// DefaultExecutable is looked up on PATH when Runner.Executable is empty.
const DefaultExecutable = "yolo"

// ExitError reports a failed run. Its message is the tail of what the tool
// printed, which is where it reports its own errors.
type ExitError struct {
	Err    *exec.ExitError
	Output string
}

func (e *ExitError) Error() string {
	if tail := lastLines(e.Output, 20); tail != "" {
		return tail
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// Runner runs the yolo tool, streaming its output while keeping a copy.
type Runner struct {
	Executable string
	// Stdout and Stderr receive the tool's output as it runs. Nil discards it.
	Stdout io.Writer
	Stderr io.Writer
	Log    logs.Log
}

// lockedBuffer is written from both output copying goroutines.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// Run executes the tool with args and returns everything it printed, stdout
// and stderr interleaved. Cancelling ctx kills the process.
func (r *Runner) Run(ctx context.Context, args []string) (string, error) {
	exe := r.Executable
	if exe == "" {
		exe = DefaultExecutable
	}
	if r.Log != nil {
		r.Log.Infof("Running %v %v", exe, strings.Join(args, " "))
	}

	captured := &lockedBuffer{}
	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.Stdout = tee(r.Stdout, captured)
	cmd.Stderr = tee(r.Stderr, captured)

	err := cmd.Run()
	out := captured.String()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return out, &ExitError{Err: exitErr, Output: out}
		}
		return out, errors.Wrapf(err, "running %s", exe)
	}
	return out, nil
}

func tee(w io.Writer, captured io.Writer) io.Writer {
	if w == nil {
		return captured
	}
	return io.MultiWriter(w, captured)
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
