package command

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"

	"github.com/shinji-kodama/itms-transporter/internal/model"
	"github.com/shinji-kodama/itms-transporter/internal/option"
	"github.com/shinji-kodama/itms-transporter/internal/output"
	"github.com/shinji-kodama/itms-transporter/internal/xmlstatus"
)

// UnknownVersion is returned by the version operation when the tool's
// output carries no recognizable version number.
const UnknownVersion = "Unknown"

var (
	providerLine = regexp.MustCompile(`^\d+\s+(.+?)\s+(\w+)$`)
	versionText  = regexp.MustCompile(`(?i)version\s+(\d+(?:\.\d+)*)\b`)
)

// Providers lists the providers the credentials can deliver for.
var Providers = register(&Operation{
	Name:    "providers",
	Mode:    "provider",
	Rules:   ModeRules,
	Success: parseProviders,
})

// Upload delivers a package (or, with batch, a directory of packages).
var Upload = register(&Operation{
	Name: "upload",
	Mode: "upload",
	Rules: ModeRules.Extend(
		option.Pattern("rate", "-k", `^\d+[KM]?$`),
		shortnameRule,
		option.Enum("transport", "-t", "Aspera", "Signiant", "DAV"),
		option.Dir("on_success", "-success"),
		option.Dir("on_failure", "-failure"),
		option.Dir("log_history", "-loghistory"),
		option.Boolean("delete_on_success", "-delete"),
		option.Boolean("batch", ""),
		packageRule.WaivedBy("batch"),
	),
	Success: succeed,
})

// Verify validates a package's metadata and, unless disabled, its assets.
var Verify = register(&Operation{
	Name: "verify",
	Mode: "verify",
	Rules: ModeRules.Extend(
		shortnameRule,
		packageRule,
		option.Boolean("disable_asset_verification", "-disableAssetVerification"),
	),
	Success: verifySuccess,
})

// Lookup retrieves the metadata of a previously delivered package.
var Lookup = register(&Operation{
	Name: "lookup",
	Mode: "lookupMetadata",
	Rules: ModeRules.Extend(
		vendorIDRule,
		appleIDRule,
		shortnameRule.Require(),
		option.String("destination", "-destination"),
	),
	Validate: requireLookupID,
	Prepare:  prepareLookup,
	Success:  readLookupMetadata,
})

// Schema downloads a metadata schema.
var Schema = register(&Operation{
	Name: "schema",
	Mode: "generateSchema",
	Rules: ModeRules.Extend(
		shortnameRule.Require(),
		option.Pattern("type", "-schemaType", `(?i)^(transitional|strict)$`).Require(),
		option.Pattern("version", "-schema", `^[\w.]+$`).Require(),
	),
})

// statusRules is shared by the status and status_all operations.
var statusRules = ModeRules.Extend(
	vendorIDRule,
	appleIDRule,
	shortnameRule,
	option.Enum("output_format", "-outputFormat", "xml"),
)

// Status reports the status of one package.
var Status = register(&Operation{
	Name:    "status",
	Mode:    "status",
	Rules:   statusRules,
	Prepare: requestXML,
	Success: parseStatus,
})

// StatusAll reports the status of every package of the provider.
var StatusAll = register(&Operation{
	Name:    "status_all",
	Mode:    "statusAll",
	Rules:   statusRules,
	Prepare: requestXML,
	Success: parseStatus,
})

// Version reports the installed iTMSTransporter version.
var Version = register(&Operation{
	Name:  "version",
	Rules: option.NewSet(option.Flag("version", "-version")),
	Prepare: func(values option.Values) (func(), error) {
		values["version"] = true
		return nil, nil
	},
	Success: parseVersion,
})

// succeed is the Success hook of operations whose only result is success.
func succeed(*model.Outcome, option.Values) (any, error) {
	return true, nil
}

// parseProviders reads the provider table from stdout, e.g.
//
//	1  Some Great User  luser
func parseProviders(out *model.Outcome, _ option.Values) (any, error) {
	providers := []model.Provider{}
	for _, line := range out.Stdout {
		if m := providerLine.FindStringSubmatch(line); m != nil {
			providers = append(providers, model.Provider{ShortName: m[2], LongName: m[1]})
		}
	}
	return providers, nil
}

// verifySuccess checks stderr for errors: verify exits 0 even when, for
// example, there is no package to verify.
func verifySuccess(out *model.Outcome, _ option.Values) (any, error) {
	if res := output.Parse(out.Stderr); res.HasErrors() {
		return nil, model.NewExecutionError(res.Errors, out.ExitCode)
	}
	return true, nil
}

// requireLookupID requires an Apple ID or a vendor ID.
func requireLookupID(values option.Values) error {
	if lookupID(values) == "" {
		return model.NewOptionError("apple_id", "apple_id or vendor_id is required")
	}
	return nil
}

// prepareLookup points -destination at a fresh scratch directory, removed
// by the returned cleanup.
func prepareLookup(values option.Values) (func(), error) {
	dir, err := os.MkdirTemp("", "itms-lookup-")
	if err != nil {
		return nil, model.WrapTransporterError("failed to create lookup directory", err)
	}
	values["destination"] = dir

	return func() { _ = os.RemoveAll(dir) }, nil
}

// readLookupMetadata returns the metadata.xml written by lookupMetadata.
func readLookupMetadata(_ *model.Outcome, values option.Values) (any, error) {
	dest, _ := values["destination"].(string)
	path := filepath.Join(dest, lookupID(values)+".itmsp", "metadata.xml")

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, model.NewTransporterError(fmt.Sprintf("iTMSTransporter did not write %s", path))
	}
	if err != nil {
		return nil, model.WrapTransporterError("failed to read lookup metadata", err)
	}
	return string(data), nil
}

// lookupID returns the Apple ID, else the vendor ID, as a string.
func lookupID(values option.Values) string {
	for _, key := range []string{"apple_id", "vendor_id"} {
		if v, ok := values[key]; ok && v != nil {
			if s := fmt.Sprint(v); s != "" {
				return s
			}
		}
	}
	return ""
}

// requestXML forces the XML output format the status parser understands.
func requestXML(values option.Values) (func(), error) {
	values["output_format"] = "xml"
	return nil, nil
}

func parseStatus(out *model.Outcome, _ option.Values) (any, error) {
	records, err := xmlstatus.Parse(out.StdoutText())
	if err != nil {
		return nil, err
	}
	return records, nil
}

// parseVersion extracts "3.2.1" from output such as "iTMSTransporter,
// version 3.2.1". It returns UnknownVersion when no version is found.
func parseVersion(out *model.Outcome, _ option.Values) (any, error) {
	if m := versionText.FindStringSubmatch(out.StdoutText()); m != nil {
		return m[1], nil
	}
	return UnknownVersion, nil
}
