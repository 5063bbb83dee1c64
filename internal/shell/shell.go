package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// Stream identifies which output stream a line came from.
type Stream int

const (
	// Stdout is the process standard output.
	Stdout Stream = iota

	// Stderr is the process standard error.
	Stderr
)

// String returns "stdout" or "stderr".
func (s Stream) String() string {
	if s == Stderr {
		return "stderr"
	}
	return "stdout"
}

// LineFunc receives one output line, without its trailing newline.
type LineFunc func(line string, stream Stream)

// ErrLineFuncRequired is returned by Exec when no LineFunc is given.
var ErrLineFuncRequired = errors.New("shell: line callback is required")

// waitDelay bounds how long Wait blocks on output pipes after the process
// has been killed (e.g., when a grandchild still holds them open).
const waitDelay = 2 * time.Second

// Shell runs the iTMSTransporter executable at Path.
type Shell struct {
	// Path is the absolute path of the executable.
	Path string
}

// New creates a Shell for the executable at path. An empty path selects
// the platform default (see DefaultPath).
func New(path string) *Shell {
	if path == "" {
		path = DefaultPath()
	}
	return &Shell{Path: path}
}

// line is one unit of output forwarded from a reader goroutine.
type line struct {
	text   string
	stream Stream
}

// Exec runs the executable with argv and calls fn for every output line.
//
// The process follows these steps:
//  1. Start the process with both output streams piped
//  2. Read stdout and stderr concurrently, forwarding lines over a channel
//  3. Call fn for each line on the calling goroutine, in arrival order
//  4. Wait for the process once both streams are closed
//
// A failure to start the process, read its output or wait for it is returned
// as a *model.TransporterError. Cancelling ctx kills the process.
//
// If fn panics, the process is killed and reaped before the panic propagates.
func (s *Shell) Exec(ctx context.Context, argv []string, fn LineFunc) (int, error) {
	if fn == nil {
		return -1, ErrLineFuncRequired
	}

	// Step 1: Start the process.
	// #nosec G204 -- the executable path comes from configuration and argv is
	// rendered from validated options.
	cmd := exec.CommandContext(ctx, s.Path, argv...)
	cmd.WaitDelay = waitDelay

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return -1, model.WrapTransporterError("failed to open stdout pipe", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return -1, model.WrapTransporterError("failed to open stderr pipe", err)
	}

	if err := cmd.Start(); err != nil {
		return -1, model.WrapTransporterError(fmt.Sprintf("failed to start %s", s.Path), err)
	}

	// done releases reader goroutines blocked on a send once we stop
	// consuming (early return or panic in fn).
	done := make(chan struct{})
	waited := false
	defer func() {
		close(done)
		if !waited {
			_ = cmd.Process.Kill()
			_ = cmd.Wait()
		}
	}()

	// Step 2: One reader per stream.
	lines := make(chan line)
	var g errgroup.Group
	g.Go(func() error { return readLines(stdout, Stdout, lines, done) })
	g.Go(func() error { return readLines(stderr, Stderr, lines, done) })

	readErr := make(chan error, 1)
	go func() {
		readErr <- g.Wait()
		close(lines)
	}()

	// Step 3: Single consumer.
consume:
	for {
		select {
		case l, ok := <-lines:
			if !ok {
				break consume
			}
			fn(l.text, l.stream)
		case <-ctx.Done():
			return -1, model.WrapTransporterError("iTMSTransporter was interrupted", ctx.Err())
		}
	}

	if err := <-readErr; err != nil {
		return -1, model.WrapTransporterError("failed to read iTMSTransporter output", err)
	}

	// Step 4: Reap the process.
	waited = true
	err = cmd.Wait()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return -1, model.WrapTransporterError("iTMSTransporter was interrupted", ctxErr)
	}

	var exitErr *exec.ExitError
	switch {
	case err == nil:
		return 0, nil
	case errors.As(err, &exitErr):
		return exitErr.ExitCode(), nil
	default:
		return -1, model.WrapTransporterError("failed to wait for iTMSTransporter", err)
	}
}

// readLines forwards every line of r to out until EOF or until done is closed.
// A final line without a newline is forwarded as well.
func readLines(r io.Reader, stream Stream, out chan<- line, done <-chan struct{}) error {
	br := bufio.NewReader(r)
	for {
		s, err := br.ReadString('\n')
		if s != "" {
			s = strings.TrimSuffix(s, "\n")
			s = strings.TrimSuffix(s, "\r")
			select {
			case out <- line{text: s, stream: stream}:
			case <-done:
				return nil
			}
		}
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, os.ErrClosed) {
				return nil
			}
			return err
		}
	}
}
