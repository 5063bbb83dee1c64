// Package shell runs the iTMSTransporter executable and streams its output.
//
// A Shell launches exactly one process per Exec call. Standard output and
// standard error are read concurrently, line by line, and every line is handed
// to a caller-supplied LineFunc on the calling goroutine, tagged with the
// stream it came from. Lines from one stream always arrive in the order the
// process wrote them; the interleaving across streams is best effort.
//
// Exec returns the process exit code. A non-zero exit code is not an error
// here: interpreting the outcome is the job of the command layer.
//
// The package also knows where iTMSTransporter is installed by default on
// each supported platform (see DefaultPath).
package shell
