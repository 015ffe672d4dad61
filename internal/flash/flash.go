// internal/flash/flash.go
package flash

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"

	"github.com/pkg/errors"
)

// Error reports a failed build/flash of a firmware target, carrying the
// tool's stderr for the abort message.
type Error struct {
	Target string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("flash %s: %v: %s", e.Target, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// runFunc executes one external command in dir and returns its stderr.
// Seam for tests.
type runFunc func(ctx context.Context, dir, name string, args ...string) ([]byte, error)

// Flasher rebuilds and flashes firmware test targets through the cargo
// flash runner. One target per call; a non-zero exit is fatal to the
// caller's test case.
type Flasher struct {
	Chip    string
	Command string // cargo subcommand, normally "flash"
	Dir     string // firmware crate directory

	run runFunc
}

// New returns a Flasher that shells out to cargo.
func New(chip, command, dir string) *Flasher {
	return &Flasher{
		Chip:    chip,
		Command: command,
		Dir:     dir,
		run:     runExec,
	}
}

// Flash builds and flashes one test target in the given variant.
func (f *Flasher) Flash(ctx context.Context, test string, release bool) error {
	args := []string{
		f.Command,
		"--chip=" + f.Chip,
		"--",
		"--test=" + test,
	}
	if release {
		args = append(args, "--release")
	} else {
		args = append(args, "-q")
	}

	stderr, err := f.run(ctx, f.Dir, "cargo", args...)
	if err != nil {
		return &Error{Target: test, Stderr: string(stderr), Err: err}
	}
	return nil
}

func runExec(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return stderr.Bytes(), errors.Wrapf(err, "%s %s", name, args[0])
	}
	return stderr.Bytes(), nil
}
