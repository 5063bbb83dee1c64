package transporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/shinji-kodama/itms-transporter/internal/command"
	"github.com/shinji-kodama/itms-transporter/internal/model"
	"github.com/shinji-kodama/itms-transporter/internal/option"
	"github.com/shinji-kodama/itms-transporter/internal/shell"
)

// Options configures a Transporter.
type Options struct {
	// Path is the iTMSTransporter executable. Empty selects the platform
	// default (see shell.DefaultPath).
	Path string

	// Defaults are merged under the options of every call.
	Defaults option.Values

	// PrintStdout and PrintStderr echo the tool's output as it arrives.
	PrintStdout bool
	PrintStderr bool

	// Stdout and Stderr receive echoed output. They default to os.Stdout
	// and os.Stderr.
	Stdout io.Writer
	Stderr io.Writer

	// Logger receives debug and warning messages. Nil discards them.
	Logger *log.Logger

	// Timeout bounds each call. Zero means no timeout.
	Timeout time.Duration

	// Executor replaces the process runner. Nil runs the executable at Path.
	Executor command.Executor
}

// Transporter runs iTMSTransporter operations.
type Transporter struct {
	path     string
	defaults option.Values
	timeout  time.Duration
	runner   *command.Runner
}

// New creates a Transporter.
func New(opts Options) *Transporter {
	sh := shell.New(opts.Path)

	runner := &command.Runner{
		Executor: opts.Executor,
		Logger:   opts.Logger,
		Windows:  shell.IsWindows(),
	}
	if runner.Executor == nil {
		runner.Executor = sh
	}
	if opts.PrintStdout {
		runner.Stdout = orDefault(opts.Stdout, os.Stdout)
	}
	if opts.PrintStderr {
		runner.Stderr = orDefault(opts.Stderr, os.Stderr)
	}

	return &Transporter{
		path:     sh.Path,
		defaults: opts.Defaults.Clone(),
		timeout:  opts.Timeout,
		runner:   runner,
	}
}

func orDefault(w, fallback io.Writer) io.Writer {
	if w == nil {
		return fallback
	}
	return w
}

// Path returns the executable path in use.
func (t *Transporter) Path() string {
	return t.path
}

// Run executes the named operation (see command.Names) and returns its raw
// result.
func (t *Transporter) Run(ctx context.Context, name string, opts option.Values) (any, error) {
	op, ok := command.Get(name)
	if !ok {
		return nil, model.NewOptionError("", "unknown operation %q", name)
	}
	return t.run(ctx, op, opts)
}

// run merges the applicable defaults under opts and runs op.
func (t *Transporter) run(ctx context.Context, op *command.Operation, opts option.Values) (any, error) {
	values := option.Values{}
	for name, v := range t.defaults {
		if op.Accepts(name) {
			values[name] = v
		}
	}
	values = values.Merge(opts)

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	return t.runner.Run(ctx, op, values)
}

// Providers lists the providers the account can deliver content for.
func (t *Transporter) Providers(ctx context.Context, opts option.Values) ([]model.Provider, error) {
	res, err := t.run(ctx, command.Providers, opts)
	if err != nil {
		return nil, err
	}
	return res.([]model.Provider), nil
}

// Upload delivers the package at pkg. Set "batch" to true in opts to upload
// a directory of packages.
func (t *Transporter) Upload(ctx context.Context, pkg string, opts option.Values) error {
	_, err := t.run(ctx, command.Upload, withPackage(opts, pkg))
	return err
}

// Verify validates the package at pkg without uploading it.
func (t *Transporter) Verify(ctx context.Context, pkg string, opts option.Values) error {
	_, err := t.run(ctx, command.Verify, withPackage(opts, pkg))
	return err
}

// Lookup returns the metadata.xml of a delivered package, identified by
// "apple_id" or "vendor_id" in opts.
func (t *Transporter) Lookup(ctx context.Context, opts option.Values) (string, error) {
	return t.runString(ctx, command.Lookup, opts)
}

// Schema returns the metadata schema selected by "type" and "version".
func (t *Transporter) Schema(ctx context.Context, opts option.Values) (string, error) {
	return t.runString(ctx, command.Schema, opts)
}

// Status reports the status of the package identified in opts.
func (t *Transporter) Status(ctx context.Context, opts option.Values) ([]model.StatusRecord, error) {
	return t.runStatus(ctx, command.Status, opts)
}

// StatusAll reports the status of every package of the provider.
func (t *Transporter) StatusAll(ctx context.Context, opts option.Values) ([]model.StatusRecord, error) {
	return t.runStatus(ctx, command.StatusAll, opts)
}

// Version returns the installed iTMSTransporter version, or
// command.UnknownVersion.
func (t *Transporter) Version(ctx context.Context) (string, error) {
	return t.runString(ctx, command.Version, nil)
}

func (t *Transporter) runString(ctx context.Context, op *command.Operation, opts option.Values) (string, error) {
	res, err := t.run(ctx, op, opts)
	if err != nil {
		return "", err
	}
	s, ok := res.(string)
	if !ok {
		return "", fmt.Errorf("%s: unexpected result type %T", op.Name, res)
	}
	return s, nil
}

func (t *Transporter) runStatus(ctx context.Context, op *command.Operation, opts option.Values) ([]model.StatusRecord, error) {
	res, err := t.run(ctx, op, opts)
	if err != nil {
		return nil, err
	}
	return res.([]model.StatusRecord), nil
}

// withPackage returns a copy of opts with the package path set.
func withPackage(opts option.Values, pkg string) option.Values {
	return opts.Merge(option.Values{"package": pkg})
}
