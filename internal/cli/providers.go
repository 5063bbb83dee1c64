// providers.go implements the "itms-transporter providers" command.
//
// The providers command lists the content providers the account may deliver
// for. The short name is what --shortname expects in the other commands.

package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// NewProvidersCommand creates the "providers" cobra command.
func NewProvidersCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List the providers the account can deliver for",
		Long: `List the content providers the account is authorized for.

Examples:
  itms-transporter providers
  itms-transporter providers --json`,
		Args: cobra.NoArgs,
		RunE: runProviders,
	}

	addOptionFlags(cmd, modeFlags...)
	return cmd
}

// runProviders is the main logic function for the providers command.
func runProviders(cmd *cobra.Command, args []string) error {
	opts, err := collectOptions(cmd, modeFlags...)
	if err != nil {
		return err
	}

	itms, err := newTransporter(cmd)
	if err != nil {
		return err
	}

	providers, err := itms.Providers(commandContext(cmd), opts)
	if err != nil {
		return err
	}
	VerboseLog("Found %d providers", len(providers))

	result := struct {
		Providers []model.Provider `json:"providers" yaml:"providers"`
	}{Providers: providers}

	return render(cmd.OutOrStdout(), currentFormat(), result, func(w io.Writer) {
		printProvidersText(w, providers)
	})
}
