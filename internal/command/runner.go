package command

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/itms-transporter/internal/model"
	"github.com/shinji-kodama/itms-transporter/internal/option"
	"github.com/shinji-kodama/itms-transporter/internal/shell"
)

// Executor runs iTMSTransporter with argv and reports every output line.
// *shell.Shell is the production implementation.
type Executor interface {
	Exec(ctx context.Context, argv []string, fn shell.LineFunc) (int, error)
}

// maskedValue replaces the password in logged argument vectors.
const maskedValue = "********"

// Runner executes operations.
type Runner struct {
	// Executor launches the process.
	Executor Executor

	// Stdout and Stderr, when non-nil, receive every raw output line as it
	// arrives.
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives argument vectors (debug) and deprecation warnings.
	// A nil Logger discards them.
	Logger *log.Logger

	// Windows injects the -WONoPause flag into mode operations.
	Windows bool
}

// Run executes op with the given options and returns the operation result.
//
// The process follows these steps:
//  1. Copy the options and inject the mode (and -WONoPause on Windows)
//  2. Render the argument vector and run the Validate hook; invalid options
//     fail here, before anything is created or spawned
//  3. Run the Prepare hook and render again; its cleanup runs when Run returns
//  4. Execute, collecting lines into a model.Outcome and echoing them
//  5. Apply the Success hook on exit 0, else the Failure hook
//
// The caller's map is never modified.
func (r *Runner) Run(ctx context.Context, op *Operation, values option.Values) (any, error) {
	logger := r.logger()

	// Step 1: Private copy with injected values.
	values = values.Clone()
	if op.IsMode() {
		values["mode"] = op.Mode
		if r.Windows {
			values["windows"] = true
		}
	}

	// Step 2: Validate. Nothing is created for options that fail here.
	argv, err := op.Rules.Render(values)
	if err != nil {
		return nil, err
	}
	if op.Validate != nil {
		if err := op.Validate(values); err != nil {
			return nil, err
		}
	}

	// Step 3: Prepare, then render again with the values it added.
	if op.Prepare != nil {
		cleanup, err := op.Prepare(values)
		if cleanup != nil {
			defer cleanup()
		}
		if err != nil {
			return nil, err
		}
		if argv, err = op.Rules.Render(values); err != nil {
			return nil, err
		}
	}

	for _, w := range argv.Warnings {
		logger.Warn(w)
	}
	logger.Debug("running iTMSTransporter", "operation", op.Name, "args", maskArgs(argv.Args))

	// Step 4: Execute.
	out := &model.Outcome{}
	code, err := r.Executor.Exec(ctx, argv.Args, func(line string, stream shell.Stream) {
		if stream == shell.Stderr {
			out.Stderr = append(out.Stderr, line)
			echo(r.Stderr, line)
			return
		}
		out.Stdout = append(out.Stdout, line)
		echo(r.Stdout, line)
	})
	if err != nil {
		return nil, err
	}
	out.ExitCode = code
	logger.Debug("iTMSTransporter exited", "operation", op.Name, "status", code)

	// Step 5: Interpret.
	if code == 0 {
		return op.success(out, values)
	}
	return nil, op.failure(out)
}

func (r *Runner) logger() *log.Logger {
	if r.Logger == nil {
		return log.New(io.Discard)
	}
	return r.Logger
}

// echo writes line to w when w is non-nil. Write errors are ignored: echoing
// is a convenience and must not fail the operation.
func echo(w io.Writer, line string) {
	if w != nil {
		_, _ = fmt.Fprintln(w, line)
	}
}

// maskArgs returns a copy of args with the value following -p masked.
func maskArgs(args []string) []string {
	masked := make([]string, len(args))
	copy(masked, args)
	for i := 0; i < len(masked)-1; i++ {
		if masked[i] == "-p" {
			masked[i+1] = maskedValue
			i++
		}
	}
	return masked
}
