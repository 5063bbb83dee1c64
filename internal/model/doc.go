// Package model defines the domain types and value objects for the
// itms-transporter module.
//
// This package contains pure data structures with no external dependencies.
// All entities (Message, Outcome, Provider, StatusRecord, etc.) are transient:
// they are created for a single iTMSTransporter invocation and discarded
// once its output has been interpreted. Nothing is persisted.
//
// The package also defines the error taxonomy shared by every layer
// (TransporterError, OptionError, ParseError, ExecutionError), the CLI exit
// codes (ExitCode) and a CLI error type (CLIError) that carries an exit code
// for proper OS process exit handling.
package model
