package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// outputFormat is the rendering selected by the global flags.
type outputFormat int

const (
	formatText outputFormat = iota
	formatJSON
	formatYAML
)

// currentFormat returns the format selected by --json / --yaml.
func currentFormat() outputFormat {
	switch {
	case jsonOutput:
		return formatJSON
	case yamlOutput:
		return formatYAML
	default:
		return formatText
	}
}

// render writes v as JSON or YAML, or calls text for the text format.
func render(w io.Writer, format outputFormat, v any, text func(io.Writer)) error {
	switch format {
	case formatJSON:
		return writeJSON(w, v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode YAML: %w", err)
		}
		return enc.Close()
	default:
		text(w)
		return nil
	}
}

// writeJSON writes v as indented JSON followed by a newline.
func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

// writeFileAtomic writes content to path through a temporary file in the
// same directory, so a failed write never leaves a truncated document.
func writeFileAtomic(path, content string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to create "+path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.WriteString(content); err != nil {
		_ = tmp.Close()
		return model.WrapCLIError(model.ExitGeneralError, "failed to write "+path, err)
	}
	if err := tmp.Close(); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write "+path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to write "+path, err)
	}
	return nil
}

// printProvidersText outputs providers as an aligned table:
//
//	SHORT NAME           LONG NAME
//	luser                Some Great User
func printProvidersText(w io.Writer, providers []model.Provider) {
	if len(providers) == 0 {
		_, _ = fmt.Fprintln(w, "No providers found.")
		return
	}

	_, _ = fmt.Fprintf(w, "%-20s %s\n", "SHORT NAME", "LONG NAME")
	for _, p := range providers {
		_, _ = fmt.Fprintf(w, "%-20s %s\n", p.ShortName, p.LongName)
	}
}

// printStatusText outputs status records, separated by blank lines.
func printStatusText(w io.Writer, records []model.StatusRecord) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(w, "No packages found.")
		return
	}

	for i, rec := range records {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		_, _ = fmt.Fprintf(w, "Apple ID:   %s\n", orDash(rec.AppleID))
		_, _ = fmt.Fprintf(w, "Vendor ID:  %s\n", orDash(rec.VendorID))

		if cs := rec.ContentStatus; cs != nil {
			_, _ = fmt.Fprintf(w, "Status:     %s (review: %s, iTunes Connect: %s)\n",
				orDash(cs.Status), orDash(cs.ReviewStatus), orDash(cs.ITunesConnectStatus))
			if cs.StoreStatus != nil {
				_, _ = fmt.Fprintf(w, "Store:      %s\n", FormatStoreStatus(cs.StoreStatus))
			}
			if len(cs.VideoComponents) > 0 {
				_, _ = fmt.Fprintln(w, "Components:")
				for _, c := range cs.VideoComponents {
					_, _ = fmt.Fprintf(w, "  %-10s %-8s %-12s %s\n",
						c.Name, orDash(c.Locale), orDash(c.Status), orDash(c.Delivered))
				}
			}
		}

		if len(rec.Info) > 0 {
			_, _ = fmt.Fprintln(w, "Uploads:")
			for _, info := range rec.Info {
				_, _ = fmt.Fprintf(w, "  %s\n", FormatUploadInfo(info))
			}
		}
	}
}

// FormatStoreStatus renders a store status map with sorted keys, e.g.
//
//	{"on_store": [], "ready_for_store": ["US", "CA"]} → "on_store=-, ready_for_store=US,CA"
func FormatStoreStatus(status map[string][]string) string {
	if len(status) == 0 {
		return "-"
	}

	keys := make([]string, 0, len(status))
	for k := range status {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		territories := "-"
		if len(status[k]) > 0 {
			territories = strings.Join(status[k], ",")
		}
		parts = append(parts, k+"="+territories)
	}
	return strings.Join(parts, ", ")
}

// FormatUploadInfo renders an upload info entry. The "created" and "status"
// attributes come first; any others follow as sorted key=value pairs.
func FormatUploadInfo(info model.UploadInfo) string {
	var parts []string
	for _, k := range []string{"created", "status"} {
		if v, ok := info[k]; ok {
			parts = append(parts, v)
		}
	}

	var rest []string
	for k, v := range info {
		if k != "created" && k != "status" {
			rest = append(rest, k+"="+v)
		}
	}
	sort.Strings(rest)

	return strings.Join(append(parts, rest...), "  ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
