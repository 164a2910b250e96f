package devices

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// Native-tool invocation bounds. Screenshots can reach tens of MB on
// large displays, everything else stays small.
const (
	defaultCommandTimeout = 30 * time.Second
	heavyCommandTimeout   = 120 * time.Second

	defaultOutputLimit    = 4 * 1024 * 1024
	screenshotOutputLimit = 32 * 1024 * 1024
)

// commandRunner shells out to a native binary and returns its combined
// output. Robots hold one as a function field so tests can substitute
// a fake.
type commandRunner func(args ...string) ([]byte, error)

var errOutputLimit = errors.New("command output exceeded buffer limit")

// limitWriter fails the copy once more than max bytes were written.
type limitWriter struct {
	buf bytes.Buffer
	max int
}

func (w *limitWriter) Write(p []byte) (int, error) {
	if w.buf.Len()+len(p) > w.max {
		return 0, errOutputLimit
	}
	return w.buf.Write(p)
}

// runCommand invokes a binary with a wall-clock timeout and a bounded
// output buffer. Timeouts and overflows come back as distinct errors;
// a non-zero exit folds the captured output into the error text, since
// that is usually the only diagnostic available.
func runCommand(binary string, timeout time.Duration, maxOutput int, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out := &limitWriter{max: maxOutput}
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	if ctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%s %v timed out after %s", binary, args, timeout)
	}

	if err != nil {
		if errors.Is(err, errOutputLimit) {
			return nil, fmt.Errorf("%s %v: %w (limit %d bytes)", binary, args, errOutputLimit, maxOutput)
		}
		return nil, fmt.Errorf("%s command failed: %v\nOutput: %s", binary, err, out.buf.String())
	}

	return out.buf.Bytes(), nil
}
