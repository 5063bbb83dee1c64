package output

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shinji-kodama/itms-transporter/internal/model"
)

// Result holds the diagnostics found in a block of output.
type Result struct {
	// Errors lists error diagnostics, de-duplicated, in first-seen order.
	Errors []model.Message `json:"errors" yaml:"errors"`

	// Warnings lists warning diagnostics, de-duplicated, in first-seen order.
	Warnings []model.Message `json:"warnings" yaml:"warnings"`
}

// HasErrors reports whether any error diagnostic was found.
func (r Result) HasErrors() bool {
	return len(r.Errors) > 0
}

var (
	// errorLine and warningLine find a diagnostic after the logger prefix
	// ("... <main> ERROR: ") or at the start of a bare line.
	errorLine   = regexp.MustCompile(`(?:^|>\s+)ERROR:\s+(.+)`)
	warningLine = regexp.MustCompile(`(?:^|>\s+)WARN:\s+(.+)`)

	// noise lists generic errors that only summarize the real diagnostics.
	noise = []*regexp.Regexp{
		regexp.MustCompile(`(?i)\boperation was not successful`),
		regexp.MustCompile(`(?i)\bunable to verify the package`),
		regexp.MustCompile(`(?i)^an error occurred while`),
		regexp.MustCompile(`(?i)^unknown operation`),
		regexp.MustCompile(`(?i)\bunable to authenticate`),
	}

	// Code extraction, tried in order.
	vendorCode    = regexp.MustCompile(`^(?:ERROR\s+)?ITMS-(\d+):\s+(.+)`)
	errorCodeTail = regexp.MustCompile(`(.+)\s+errorCode\s+=\s+\((-?\d+)\)$`)
	parenCodeTail = regexp.MustCompile(`(.+)\s+\((-?\d+)\)$`)

	// quotedAt matches a quoted message followed by a source location,
	// e.g. `"Bad audio" at Asset`.
	quotedAt = regexp.MustCompile(`^"(.*)"\s+at\s+.+$`)
)

// Parse scans lines for diagnostics. It never fails: lines that carry no
// diagnostic are ignored.
//
// A line that matches the error marker is never tested for the warning marker.
func Parse(lines []string) Result {
	var (
		res          Result
		seenErrors   = make(map[string]struct{})
		seenWarnings = make(map[string]struct{})
	)

	for _, line := range lines {
		if m := errorLine.FindStringSubmatch(line); m != nil {
			if isNoise(m[1]) {
				continue
			}
			msg := NewMessage(m[1])
			if _, dup := seenErrors[msg.Text]; !dup {
				seenErrors[msg.Text] = struct{}{}
				res.Errors = append(res.Errors, msg)
			}
			continue
		}

		if m := warningLine.FindStringSubmatch(line); m != nil {
			msg := NewMessage(m[1])
			if _, dup := seenWarnings[msg.Text]; !dup {
				seenWarnings[msg.Text] = struct{}{}
				res.Warnings = append(res.Warnings, msg)
			}
		}
	}

	return res
}

// isNoise reports whether a raw error candidate is a generic summary.
func isNoise(candidate string) bool {
	for _, re := range noise {
		if re.MatchString(candidate) {
			return true
		}
	}
	return false
}

// NewMessage builds a Message from the text following a diagnostic marker.
//
// The code is extracted with the first matching form:
//  1. "ITMS-<code>: text" (optionally prefixed with "ERROR ")
//  2. "text errorCode = (<code>)"
//  3. "text (<code>)"
//
// Otherwise the whole text is used and the message has no code. A code too
// large for an int is treated as absent.
func NewMessage(raw string) model.Message {
	raw = strings.TrimSpace(raw)

	text, code, hasCode := raw, 0, false
	if m := vendorCode.FindStringSubmatch(raw); m != nil {
		text = m[2]
		code, hasCode = atoi(m[1])
		// "ITMS-9000: Audio is broken (9000)" repeats the code at the end.
		if t := parenCodeTail.FindStringSubmatch(text); t != nil && t[2] == m[1] {
			text = t[1]
		}
	} else if m := errorCodeTail.FindStringSubmatch(raw); m != nil {
		if code, hasCode = atoi(m[2]); hasCode {
			text = m[1]
		}
	} else if m := parenCodeTail.FindStringSubmatch(raw); m != nil {
		if code, hasCode = atoi(m[2]); hasCode {
			text = m[1]
		}
	}

	text = unquote(text)
	if hasCode {
		return model.NewCodedMessage(text, code)
	}
	return model.NewMessage(text)
}

// unquote reduces `"msg" at Location` to msg, then strips one leading and
// one trailing double quote.
func unquote(text string) string {
	if m := quotedAt.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	text = strings.TrimPrefix(text, `"`)
	text = strings.TrimSuffix(text, `"`)
	return text
}

// atoi converts a code captured by one of the code patterns. A code that
// does not fit in an int is dropped and the message has no code.
func atoi(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
