// schema.go implements the "itms-transporter schema" command.
//
// The schema command downloads a metadata schema (RNG) for the given type
// and version, e.g. "strict" and "film5.0".

package cli

import (
	"github.com/spf13/cobra"
)

// schemaFlags are the schema-specific option flags.
var schemaFlags = []optionFlag{
	shortnameFlag,
	{name: "type", option: "type", usage: "Schema type: transitional or strict"},
	{name: "schema-version", option: "version", usage: "Schema version, e.g. film5.0"},
}

// NewSchemaCommand creates the "schema" cobra command.
func NewSchemaCommand() *cobra.Command {
	flags := with(modeFlags, schemaFlags...)

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Download a metadata schema",
		Long: `Download a metadata schema from the store.

Examples:
  itms-transporter schema -s luser --type strict --schema-version film5.0
  itms-transporter schema -s luser --type transitional --schema-version film5.0 -o film.rng`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, flags)
		},
	}

	addOptionFlags(cmd, flags...)
	cmd.Flags().StringP("output", "o", "", "Write the schema to this file instead of stdout")
	return cmd
}

// runSchema is the main logic function for the schema command.
func runSchema(cmd *cobra.Command, flags []optionFlag) error {
	opts, err := collectOptions(cmd, flags...)
	if err != nil {
		return err
	}

	itms, err := newTransporter(cmd)
	if err != nil {
		return err
	}

	schema, err := itms.Schema(commandContext(cmd), opts)
	if err != nil {
		return err
	}

	return writeDocument(cmd, "schema", schema)
}
