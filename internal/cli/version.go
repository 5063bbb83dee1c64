// version.go implements the "itms-transporter version" command.
//
// The version command reports the version of this binary and of the
// installed iTMSTransporter.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewVersionCommand creates the "version" cobra command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show the itms-transporter build information and the version of the
installed iTMSTransporter.

Examples:
  itms-transporter version
  itms-transporter version --json`,
		Args: cobra.NoArgs,
		RunE: runVersion,
	}
}

// runVersion is the main logic function for the version command.
func runVersion(cmd *cobra.Command, args []string) error {
	itms, err := newTransporter(cmd)
	if err != nil {
		return err
	}

	toolVersion, err := itms.Version(commandContext(cmd))
	if err != nil {
		return err
	}

	result := struct {
		Version     string `json:"version" yaml:"version"`
		Commit      string `json:"commit" yaml:"commit"`
		Date        string `json:"date" yaml:"date"`
		Transporter string `json:"transporter" yaml:"transporter"`
		Executable  string `json:"executable" yaml:"executable"`
	}{
		Version:     Version,
		Commit:      Commit,
		Date:        Date,
		Transporter: toolVersion,
		Executable:  itms.Path(),
	}

	return render(cmd.OutOrStdout(), currentFormat(), result, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "itms-transporter %s (commit: %s, built: %s)\n", Version, Commit, Date)
		_, _ = fmt.Fprintf(w, "iTMSTransporter %s (%s)\n", toolVersion, itms.Path())
	})
}
