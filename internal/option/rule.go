package option

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// Kind selects the validator applied to an option value.
type Kind int

const (
	// KindFlag emits the token alone when the value is anything but false.
	KindFlag Kind = iota

	// KindString accepts a string or integer value.
	KindString

	// KindPattern accepts a value whose string form matches Rule.Pattern.
	KindPattern

	// KindEnum accepts one of Rule.Enum (case-sensitive).
	KindEnum

	// KindFileExists accepts a path to an existing non-directory file.
	KindFileExists

	// KindDirExists accepts a path to an existing directory, optionally
	// constrained by Rule.Suffix.
	KindDirExists

	// KindBoolean accepts only a Go bool; true emits the token alone.
	KindBoolean

	// KindInteger accepts only Go integer values.
	KindInteger

	// KindPath accepts an output file path whose parent directory exists.
	KindPath
)

// kindNames maps each Kind to its display name.
var kindNames = map[Kind]string{
	KindFlag:       "flag",
	KindString:     "string",
	KindPattern:    "pattern",
	KindEnum:       "enum",
	KindFileExists: "file",
	KindDirExists:  "directory",
	KindBoolean:    "boolean",
	KindInteger:    "integer",
	KindPath:       "path",
}

// String returns the display name of the Kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Rule describes one option accepted by an operation.
//
// Rules are values: the builder methods (Require, Repeat, Named, WaivedBy)
// return modified copies, so a shared Rule can be specialized per operation
// without affecting other operations.
type Rule struct {
	// Name is the option key callers use in Values (e.g., "username").
	Name string

	// Flag is the command-line token (e.g., "-u"). An empty Flag marks a
	// companion option that is validated but never rendered.
	Flag string

	// Kind selects the validator.
	Kind Kind

	// Required makes rendering fail when the option has no value.
	Required bool

	// Multiple allows a list value; the token is repeated per item.
	Multiple bool

	// Pattern is the regular expression used by KindPattern.
	Pattern *regexp.Regexp

	// Enum lists the accepted values for KindEnum.
	Enum []string

	// Suffix, for KindDirExists, is the naming requirement of the directory.
	Suffix *regexp.Regexp

	// SuffixWaiver names a companion boolean option. When set, a Suffix
	// mismatch is downgraded from an error to a deprecation warning, and is
	// ignored entirely when the companion option is true.
	SuffixWaiver string
}

// Flag creates a KindFlag rule.
func Flag(name, flag string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindFlag}
}

// Boolean creates a KindBoolean rule.
func Boolean(name, flag string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindBoolean}
}

// String creates a KindString rule.
func String(name, flag string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindString}
}

// Integer creates a KindInteger rule.
func Integer(name, flag string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindInteger}
}

// Pattern creates a KindPattern rule. The expression is compiled with
// regexp.MustCompile, so an invalid expression panics at declaration time.
func Pattern(name, flag, expr string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindPattern, Pattern: regexp.MustCompile(expr)}
}

// Enum creates a KindEnum rule accepting exactly the given values.
func Enum(name, flag string, values ...string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindEnum, Enum: values}
}

// FileExists creates a KindFileExists rule.
func FileExists(name, flag string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindFileExists}
}

// Dir creates a KindDirExists rule.
func Dir(name, flag string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindDirExists}
}

// Path creates a KindPath rule.
func Path(name, flag string) Rule {
	return Rule{Name: name, Flag: flag, Kind: KindPath}
}

// Require returns a copy of the rule marked as required.
func (r Rule) Require() Rule {
	r.Required = true
	return r
}

// Repeat returns a copy of the rule accepting multiple values.
func (r Rule) Repeat() Rule {
	r.Multiple = true
	return r
}

// Named returns a copy of the rule with a directory naming requirement.
func (r Rule) Named(expr string) Rule {
	r.Suffix = regexp.MustCompile(expr)
	return r
}

// WaivedBy returns a copy of the rule whose naming requirement is softened
// by the named companion boolean option.
func (r Rule) WaivedBy(option string) Rule {
	r.SuffixWaiver = option
	return r
}

// render validates one value and appends its tokens to argv.
// values is the full option map, used to resolve the suffix waiver.
func (r Rule) render(v any, values Values, argv *Argv) error {
	switch r.Kind {
	case KindFlag:
		if b, ok := v.(bool); ok && !b {
			return nil
		}
		argv.add(r.Flag)
		return nil

	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return model.NewOptionError(r.Name, "must be a boolean, got %T", v)
		}
		if b {
			argv.add(r.Flag)
		}
		return nil

	case KindInteger:
		s, ok := integerString(v)
		if !ok {
			return model.NewOptionError(r.Name, "must be an integer, got %T", v)
		}
		argv.add(r.Flag, s)
		return nil
	}

	s, ok := scalarString(v)
	if !ok {
		return model.NewOptionError(r.Name, "must be a string, got %T", v)
	}

	switch r.Kind {
	case KindPattern:
		if !r.Pattern.MatchString(s) {
			return model.NewOptionError(r.Name, "value %q does not match %s", s, r.Pattern)
		}

	case KindEnum:
		if !slices.Contains(r.Enum, s) {
			return model.NewOptionError(r.Name, "value %q is not one of %s", s, strings.Join(r.Enum, ", "))
		}

	case KindFileExists:
		info, err := os.Stat(s)
		if err != nil {
			return model.NewOptionError(r.Name, "file %s does not exist", s)
		}
		if info.IsDir() {
			return model.NewOptionError(r.Name, "%s is a directory, not a file", s)
		}

	case KindPath:
		parent := filepath.Dir(s)
		info, err := os.Stat(parent)
		if err != nil || !info.IsDir() {
			return model.NewOptionError(r.Name, "directory %s does not exist", parent)
		}

	case KindDirExists:
		if err := r.checkDir(s, values, argv); err != nil {
			return err
		}
	}

	argv.add(r.Flag, s)
	return nil
}

// checkDir validates a KindDirExists value, including the naming policy:
//
//	suffix matches                   -> ok
//	mismatch, no waiver declared     -> error
//	mismatch, waiver option true     -> ok, silently
//	mismatch, waiver absent or false -> ok, deprecation warning
func (r Rule) checkDir(path string, values Values, argv *Argv) error {
	info, err := os.Stat(path)
	if err != nil {
		return model.NewOptionError(r.Name, "directory %s does not exist", path)
	}
	if !info.IsDir() {
		return model.NewOptionError(r.Name, "%s is not a directory", path)
	}

	if r.Suffix == nil || r.Suffix.MatchString(filepath.Clean(path)) {
		return nil
	}

	if r.SuffixWaiver == "" {
		return model.NewOptionError(r.Name, "directory %s must match %s", path, r.Suffix)
	}

	if !values.Bool(r.SuffixWaiver) {
		argv.warn(fmt.Sprintf(
			"option %s: directory %s does not match %s; this is deprecated, set %s to true for a directory of packages",
			r.Name, path, r.Suffix, r.SuffixWaiver))
	}
	return nil
}

// scalarString converts a string or integer value to its string form.
func scalarString(v any) (string, bool) {
	if s, ok := v.(string); ok {
		return s, true
	}
	return integerString(v)
}

// integerString converts any Go integer value to its decimal string form.
func integerString(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int8:
		return strconv.FormatInt(int64(n), 10), true
	case int16:
		return strconv.FormatInt(int64(n), 10), true
	case int32:
		return strconv.FormatInt(int64(n), 10), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint:
		return strconv.FormatUint(uint64(n), 10), true
	case uint8:
		return strconv.FormatUint(uint64(n), 10), true
	case uint16:
		return strconv.FormatUint(uint64(n), 10), true
	case uint32:
		return strconv.FormatUint(uint64(n), 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	default:
		return "", false
	}
}
