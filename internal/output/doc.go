// Package output extracts error and warning diagnostics from the text that
// iTMSTransporter writes to its output streams.
//
// iTMSTransporter logs through a Java-style logger, so diagnostics look like:
//
//	[2011-11-30 01:41:10 PST] <main> ERROR: ITMS-9000: "Bad audio" at Asset (9000)
//	[2011-11-30 01:41:10 PST] <main>  WARN: You've been warned! (4010)
//
// When logging is turned down the logger prefix disappears and a bare
// "ERROR: ..." line remains; both forms are recognized. Generic summary errors
// the tool prints around real diagnostics ("operation was not successful" and
// similar) are dropped, and repeated messages are reported once.
package output
