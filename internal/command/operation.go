package command

import (
	"slices"
	"strings"

	"github.com/shinji-kodama/itms-transporter/internal/model"
	"github.com/shinji-kodama/itms-transporter/internal/option"
	"github.com/shinji-kodama/itms-transporter/internal/output"
)

// Operation is one iTMSTransporter invocation type.
type Operation struct {
	// Name identifies the operation (e.g., "status_all").
	Name string

	// Mode is the value passed to -m. Empty for operations that run the
	// executable without a mode (version).
	Mode string

	// Rules lists the options the operation accepts, in emission order.
	Rules *option.Set

	// Validate, if set, checks constraints spanning several options. It runs
	// after the rules have accepted the options and before Prepare.
	Validate func(values option.Values) error

	// Prepare, if set, runs on a private copy of the options once they are
	// valid, and may add values. The returned cleanup, if any, runs when
	// Run returns.
	Prepare func(values option.Values) (cleanup func(), err error)

	// Success converts a zero-exit outcome into the result.
	// When nil, the result is the captured stdout text.
	Success func(out *model.Outcome, values option.Values) (any, error)

	// Failure converts a non-zero outcome into an error.
	// When nil, DefaultFailure is used.
	Failure func(out *model.Outcome) error
}

// IsMode reports whether the operation selects a -m mode.
func (op *Operation) IsMode() bool {
	return op.Mode != ""
}

// Accepts reports whether the operation declares the named option.
func (op *Operation) Accepts(name string) bool {
	_, ok := op.Rules.Lookup(name)
	return ok
}

func (op *Operation) success(out *model.Outcome, values option.Values) (any, error) {
	if op.Success == nil {
		return out.StdoutText(), nil
	}
	return op.Success(out, values)
}

func (op *Operation) failure(out *model.Outcome) error {
	if op.Failure == nil {
		return DefaultFailure(out)
	}
	return op.Failure(out)
}

// DefaultFailure builds the ExecutionError for a non-zero exit: the error
// diagnostics found on stderr, or a single message with the raw stderr text
// when none are recognizable.
func DefaultFailure(out *model.Outcome) error {
	res := output.Parse(out.Stderr)
	if res.HasErrors() {
		return model.NewExecutionError(res.Errors, out.ExitCode)
	}

	var msgs []model.Message
	if text := strings.TrimSpace(out.StderrText()); text != "" {
		msgs = []model.Message{model.NewMessage(text)}
	}
	return model.NewExecutionError(msgs, out.ExitCode)
}

// verboseLevels are the values accepted by -v.
var verboseLevels = []string{"off", "informational", "critical", "detailed", "eXtreme"}

// ModeRules is the baseline rule set shared by every mode operation.
// Operation-specific rules are appended after these.
var ModeRules = option.NewSet(
	option.Pattern("mode", "-m", `^\w+$`).Require(),
	// Without -WONoPause the Windows wrapper waits for a key press on error.
	option.Flag("windows", "-WONoPause"),
	option.String("username", "-u").Require(),
	option.String("password", "-p").Require(),
	option.Path("log", "-o"),
	option.Enum("verbose", "-v", verboseLevels...),
	option.Path("summary", "-summaryFile"),
	option.String("jvm", "-X").Repeat(),
)

// Shared operation-specific rules.
var (
	shortnameRule = option.String("shortname", "-s")
	vendorIDRule  = option.String("vendor_id", "-vendor_id")
	appleIDRule   = option.String("apple_id", "-apple_id")
	packageRule   = option.Dir("package", "-f").Named(`\.itmsp$`).Require()
)

// registry holds every supported operation by name.
var registry = map[string]*Operation{}

// register adds an operation to the registry. It panics on duplicates.
func register(op *Operation) *Operation {
	if _, dup := registry[op.Name]; dup {
		panic("command: duplicate operation " + op.Name)
	}
	registry[op.Name] = op
	return op
}

// Get returns the named operation.
func Get(name string) (*Operation, bool) {
	op, ok := registry[name]
	return op, ok
}

// Names returns the names of every registered operation, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
