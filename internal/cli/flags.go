package cli

import (
	"github.com/spf13/cobra"

	"github.com/shinji-kodama/itms-transporter/internal/option"
)

// flagKind selects how an option flag is registered and read.
type flagKind int

const (
	flagString flagKind = iota
	flagBool
	flagStrings
)

// optionFlag maps a command-line flag to an iTMSTransporter option.
// Only flags the user explicitly sets are passed on, so configuration
// defaults are never overridden by flag zero values.
type optionFlag struct {
	name      string
	shorthand string
	option    string
	kind      flagKind
	usage     string
}

// modeFlags are accepted by every command that runs a -m mode.
var modeFlags = []optionFlag{
	{name: "log", option: "log", usage: "Write the iTMSTransporter log to this file"},
	{name: "log-level", option: "verbose", usage: "iTMSTransporter log level: off, informational, critical, detailed, eXtreme"},
	{name: "summary", option: "summary", usage: "Write the iTMSTransporter summary to this file"},
	{name: "jvm", option: "jvm", kind: flagStrings, usage: "JVM option passed with -X (repeatable)"},
}

// shortnameFlag selects the provider.
var shortnameFlag = optionFlag{name: "shortname", shorthand: "s", option: "shortname", usage: "Provider short name"}

// idFlags identify a delivered package.
var idFlags = []optionFlag{
	{name: "apple-id", option: "apple_id", usage: "Apple ID of the package"},
	{name: "vendor-id", option: "vendor_id", usage: "Vendor ID of the package"},
}

// addOptionFlags registers the flags on cmd.
func addOptionFlags(cmd *cobra.Command, flags ...optionFlag) {
	fs := cmd.Flags()
	for _, f := range flags {
		switch f.kind {
		case flagBool:
			fs.BoolP(f.name, f.shorthand, false, f.usage)
		case flagStrings:
			fs.StringArrayP(f.name, f.shorthand, nil, f.usage)
		default:
			fs.StringP(f.name, f.shorthand, "", f.usage)
		}
	}
}

// collectOptions reads the explicitly set flags into option values.
func collectOptions(cmd *cobra.Command, flags ...optionFlag) (option.Values, error) {
	fs := cmd.Flags()
	values := option.Values{}
	for _, f := range flags {
		if !fs.Changed(f.name) {
			continue
		}

		var (
			v   any
			err error
		)
		switch f.kind {
		case flagBool:
			v, err = fs.GetBool(f.name)
		case flagStrings:
			v, err = fs.GetStringArray(f.name)
		default:
			v, err = fs.GetString(f.name)
		}
		if err != nil {
			return nil, err
		}
		values[f.option] = v
	}
	return values, nil
}

// with returns a new slice holding base followed by extra.
func with(base []optionFlag, extra ...optionFlag) []optionFlag {
	out := make([]optionFlag, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
