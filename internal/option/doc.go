// Package option declares the options accepted by iTMSTransporter and
// renders caller-supplied option maps into argument vectors.
//
// Each operation owns an ordered Set of Rules. A Rule names an option, the
// command-line token it maps to, and how its value is validated:
//
//   - Flag and Boolean rules emit their token alone (no "true"/"false" value)
//   - String, Pattern, Enum and Integer rules emit "<token> <value>"
//   - FileExists, DirExists and Path rules check the filesystem with os.Stat
//   - Multiple rules repeat the token once per value ("-X a -X b")
//
// Rendering is deterministic: tokens follow the order in which rules were
// registered, never the iteration order of the caller's map. Unknown option
// names are rejected so a typo can never silently change an invocation.
package option
