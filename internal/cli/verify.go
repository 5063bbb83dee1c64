// verify.go implements the "itms-transporter verify" command.
//
// The verify command validates a package's metadata and assets without
// uploading it. It fails when iTMSTransporter reports any error, even if
// the tool itself exits successfully.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// verifyFlags are the verify-specific option flags.
var verifyFlags = []optionFlag{
	shortnameFlag,
	{name: "metadata-only", option: "disable_asset_verification", kind: flagBool, usage: "Skip asset verification"},
}

// NewVerifyCommand creates the "verify" cobra command.
func NewVerifyCommand() *cobra.Command {
	flags := with(modeFlags, verifyFlags...)

	cmd := &cobra.Command{
		Use:   "verify <package>",
		Short: "Verify a package without uploading it",
		Long: `Verify the metadata and assets of an .itmsp package.

Examples:
  itms-transporter verify title.itmsp
  itms-transporter verify title.itmsp --metadata-only`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, args[0], flags)
		},
	}

	addOptionFlags(cmd, flags...)
	return cmd
}

// runVerify is the main logic function for the verify command.
func runVerify(cmd *cobra.Command, pkg string, flags []optionFlag) error {
	opts, err := collectOptions(cmd, flags...)
	if err != nil {
		return err
	}

	itms, err := newTransporter(cmd)
	if err != nil {
		return err
	}

	if err := itms.Verify(commandContext(cmd), pkg, opts); err != nil {
		return err
	}

	result := struct {
		Package string `json:"package" yaml:"package"`
		Valid   bool   `json:"valid" yaml:"valid"`
	}{Package: pkg, Valid: true}

	return render(cmd.OutOrStdout(), currentFormat(), result, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "%s is valid\n", pkg)
	})
}
