// upload.go implements the "itms-transporter upload" command.
//
// The upload command delivers a single .itmsp package, or with --batch a
// directory holding several packages.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// uploadFlags are the upload-specific option flags.
var uploadFlags = []optionFlag{
	{name: "rate", shorthand: "k", option: "rate", usage: "Transfer rate in Kbps (e.g. 500, 500K, 5M)"},
	shortnameFlag,
	{name: "transport", shorthand: "t", option: "transport", usage: "Transport: Aspera, Signiant or DAV"},
	{name: "on-success", option: "on_success", usage: "Move the package to this directory on success"},
	{name: "on-failure", option: "on_failure", usage: "Move the package to this directory on failure"},
	{name: "log-history", option: "log_history", usage: "Directory for the upload history logs"},
	{name: "delete", option: "delete_on_success", kind: flagBool, usage: "Delete the package after a successful upload"},
	{name: "batch", option: "batch", kind: flagBool, usage: "The argument is a directory of packages"},
}

// NewUploadCommand creates the "upload" cobra command.
func NewUploadCommand() *cobra.Command {
	flags := with(modeFlags, uploadFlags...)

	cmd := &cobra.Command{
		Use:   "upload <package>",
		Short: "Upload a package",
		Long: `Upload an .itmsp package to the store.

Examples:
  itms-transporter upload title.itmsp --shortname luser
  itms-transporter upload title.itmsp -t Aspera -k 5M --delete
  itms-transporter upload ./packages --batch`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpload(cmd, args[0], flags)
		},
	}

	addOptionFlags(cmd, flags...)
	return cmd
}

// runUpload is the main logic function for the upload command.
func runUpload(cmd *cobra.Command, pkg string, flags []optionFlag) error {
	opts, err := collectOptions(cmd, flags...)
	if err != nil {
		return err
	}

	itms, err := newTransporter(cmd)
	if err != nil {
		return err
	}

	if err := itms.Upload(commandContext(cmd), pkg, opts); err != nil {
		return err
	}

	result := struct {
		Package  string `json:"package" yaml:"package"`
		Uploaded bool   `json:"uploaded" yaml:"uploaded"`
	}{Package: pkg, Uploaded: true}

	return render(cmd.OutOrStdout(), currentFormat(), result, func(w io.Writer) {
		_, _ = fmt.Fprintf(w, "Uploaded %s\n", pkg)
	})
}
