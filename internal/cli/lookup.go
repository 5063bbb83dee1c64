// lookup.go implements the "itms-transporter lookup" command.
//
// The lookup command retrieves the metadata.xml of a delivered package,
// identified by --apple-id or --vendor-id. The document is printed, or
// written to --output.

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewLookupCommand creates the "lookup" cobra command.
func NewLookupCommand() *cobra.Command {
	flags := with(modeFlags, with(idFlags, shortnameFlag)...)

	cmd := &cobra.Command{
		Use:   "lookup",
		Short: "Retrieve the metadata of a delivered package",
		Long: `Retrieve the metadata.xml of a package already delivered to the store.
Either --apple-id or --vendor-id is required.

Examples:
  itms-transporter lookup --vendor-id 123123 -s luser
  itms-transporter lookup --apple-id 987654321 -s luser -o metadata.xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, flags)
		},
	}

	addOptionFlags(cmd, flags...)
	cmd.Flags().StringP("output", "o", "", "Write the metadata to this file instead of stdout")
	return cmd
}

// runLookup is the main logic function for the lookup command.
func runLookup(cmd *cobra.Command, flags []optionFlag) error {
	opts, err := collectOptions(cmd, flags...)
	if err != nil {
		return err
	}

	itms, err := newTransporter(cmd)
	if err != nil {
		return err
	}

	metadata, err := itms.Lookup(commandContext(cmd), opts)
	if err != nil {
		return err
	}

	return writeDocument(cmd, "metadata", metadata)
}

// writeDocument writes an XML document fetched by lookup or schema. With
// --output it is saved to a file and only the path is reported.
func writeDocument(cmd *cobra.Command, key, doc string) error {
	outPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	if outPath != "" {
		if err := writeFileAtomic(outPath, doc); err != nil {
			return err
		}
		VerboseLog("Wrote %d bytes to %s", len(doc), outPath)

		result := map[string]string{"path": outPath}
		return render(cmd.OutOrStdout(), currentFormat(), result, func(w io.Writer) {
			_, _ = fmt.Fprintf(w, "Saved %s\n", outPath)
		})
	}

	return render(cmd.OutOrStdout(), currentFormat(), map[string]string{key: doc}, func(w io.Writer) {
		_, _ = io.WriteString(w, doc)
		if len(doc) > 0 && doc[len(doc)-1] != '\n' {
			_, _ = fmt.Fprintln(w)
		}
	})
}
