// status.go implements the "itms-transporter status" and
// "itms-transporter status-all" commands.
//
// Both commands parse the XML status report of iTMSTransporter. status
// reports one package (--apple-id or --vendor-id); status-all reports every
// package of the provider.

package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/itms-transporter/internal/model"
	"github.com/shinji-kodama/itms-transporter/internal/option"
	"github.com/shinji-kodama/itms-transporter/internal/transporter"
)

// statusFunc is the transporter method behind a status command.
type statusFunc func(*transporter.Transporter, *cobra.Command, option.Values) ([]model.StatusRecord, error)

// NewStatusCommand creates the "status" cobra command.
func NewStatusCommand() *cobra.Command {
	flags := with(modeFlags, with(idFlags, shortnameFlag)...)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the status of a package",
		Long: `Show the store status of a delivered package.

Examples:
  itms-transporter status --vendor-id 123123
  itms-transporter status --apple-id 987654321 --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags, func(t *transporter.Transporter, cmd *cobra.Command, opts option.Values) ([]model.StatusRecord, error) {
				return t.Status(commandContext(cmd), opts)
			})
		},
	}

	addOptionFlags(cmd, flags...)
	return cmd
}

// NewStatusAllCommand creates the "status-all" cobra command.
func NewStatusAllCommand() *cobra.Command {
	flags := with(modeFlags, shortnameFlag)

	cmd := &cobra.Command{
		Use:   "status-all",
		Short: "Show the status of every package",
		Long: `Show the store status of every package delivered by the provider.

Examples:
  itms-transporter status-all -s luser
  itms-transporter status-all --yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, flags, func(t *transporter.Transporter, cmd *cobra.Command, opts option.Values) ([]model.StatusRecord, error) {
				return t.StatusAll(commandContext(cmd), opts)
			})
		},
	}

	addOptionFlags(cmd, flags...)
	return cmd
}

// runStatus is the shared logic of the status commands.
//
// The process follows these steps:
//  1. Collect the explicitly set option flags
//  2. Create the transporter client from config and global flags
//  3. Run the status operation and render the records
func runStatus(cmd *cobra.Command, flags []optionFlag, fetch statusFunc) error {
	// Step 1: Collect option flags.
	opts, err := collectOptions(cmd, flags...)
	if err != nil {
		return err
	}

	// Step 2: Create the client.
	itms, err := newTransporter(cmd)
	if err != nil {
		return err
	}

	// Step 3: Fetch and render.
	records, err := fetch(itms, cmd, opts)
	if err != nil {
		return err
	}
	VerboseLog("Parsed %d status records", len(records))

	result := struct {
		Packages []model.StatusRecord `json:"packages" yaml:"packages"`
	}{Packages: records}

	return render(cmd.OutOrStdout(), currentFormat(), result, func(w io.Writer) {
		printStatusText(w, records)
	})
}
