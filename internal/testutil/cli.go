// Package testutil holds helpers shared by command tests.
package testutil

import (
	"bytes"
	"io"
	"testing"
)

// ExecResult holds the result of a CLI command execution.
type ExecResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// Runner runs the CLI with args and returns its exit code. It matches the
// signature of the entry point wrapped by main.
type Runner func(args []string, stdout, stderr io.Writer) int

// RunCLI runs the CLI in-process with the given arguments and returns the
// captured output. Tests can exercise exit codes and full command behavior
// without building a binary.
func RunCLI(tb testing.TB, run Runner, args ...string) ExecResult {
	tb.Helper()

	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)

	return ExecResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: code,
	}
}
