package model

import (
	"errors"
	"fmt"
	"strings"
)

// ErrTransporter is the root of the error taxonomy. Every error kind in
// this package matches it with errors.Is, so callers can tell transporter
// failures apart from unrelated errors without enumerating the kinds.
var ErrTransporter = errors.New("transporter error")

// TransporterError reports a failure to launch iTMSTransporter or an
// unexpected I/O failure while talking to it.
type TransporterError struct {
	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// NewTransporterError creates a TransporterError without an underlying cause.
func NewTransporterError(message string) *TransporterError {
	return &TransporterError{Message: message}
}

// WrapTransporterError creates a TransporterError that wraps an existing error.
func WrapTransporterError(message string, err error) *TransporterError {
	return &TransporterError{Message: message, Err: err}
}

// Error satisfies the error interface.
func (e *TransporterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *TransporterError) Unwrap() error {
	return e.Err
}

// Is makes every TransporterError match ErrTransporter.
func (e *TransporterError) Is(target error) bool {
	return target == ErrTransporter
}

// OptionError reports an invalid option map: a missing required option,
// a value that fails validation, or an unknown option name.
// It is always returned before any process is spawned.
type OptionError struct {
	// Option is the option name the error refers to.
	Option string

	// Reason describes what is wrong with the option.
	Reason string
}

// NewOptionError creates an OptionError for the named option.
func NewOptionError(option, format string, args ...any) *OptionError {
	return &OptionError{Option: option, Reason: fmt.Sprintf(format, args...)}
}

// Error satisfies the error interface. The option name always appears in
// the message.
func (e *OptionError) Error() string {
	if e.Option == "" {
		return e.Reason
	}
	return fmt.Sprintf("option %s: %s", e.Option, e.Reason)
}

// Is makes every OptionError match ErrTransporter.
func (e *OptionError) Is(target error) bool {
	return target == ErrTransporter
}

// ParseError reports tool output that could not be interpreted, such as
// malformed status XML.
type ParseError struct {
	Message string
}

// NewParseError creates a ParseError with a formatted message.
func NewParseError(format string, args ...any) *ParseError {
	return &ParseError{Message: fmt.Sprintf(format, args...)}
}

// Error satisfies the error interface.
func (e *ParseError) Error() string {
	return e.Message
}

// Is makes every ParseError match ErrTransporter.
func (e *ParseError) Is(target error) bool {
	return target == ErrTransporter
}

// ExecutionError is the failure outcome reported by iTMSTransporter itself.
// It carries at least one diagnostic message.
type ExecutionError struct {
	// Messages lists the diagnostics, in the order the tool emitted them.
	Messages []Message

	// ExitStatus is the process exit status, nil when unknown.
	ExitStatus *int
}

// NewExecutionError creates an ExecutionError with the given exit status.
// An empty message list is replaced by a single generic message so the
// error never carries zero messages.
func NewExecutionError(messages []Message, exitStatus int) *ExecutionError {
	if len(messages) == 0 {
		messages = []Message{NewMessage(fmt.Sprintf("transporter exited with status %d", exitStatus))}
	}
	return &ExecutionError{Messages: messages, ExitStatus: &exitStatus}
}

// Error joins every message (with its code) using ", ".
func (e *ExecutionError) Error() string {
	parts := make([]string, 0, len(e.Messages))
	for _, m := range e.Messages {
		parts = append(parts, m.String())
	}
	return strings.Join(parts, ", ")
}

// Is makes every ExecutionError match ErrTransporter.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrTransporter
}

// ExitCode defines the exit codes of the itms-transporter CLI.
// These codes allow scripts and CI systems to programmatically determine
// the outcome of a command.
type ExitCode int

const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess ExitCode = 0

	// ExitGeneralError indicates an unspecified error occurred.
	ExitGeneralError ExitCode = 1

	// ExitOptionError indicates invalid options; nothing was executed.
	ExitOptionError ExitCode = 2

	// ExitTransporterError indicates iTMSTransporter could not be launched.
	ExitTransporterError ExitCode = 3

	// ExitExecutionError indicates iTMSTransporter reported a failure.
	ExitExecutionError ExitCode = 4

	// ExitParseError indicates iTMSTransporter output could not be parsed.
	ExitParseError ExitCode = 5
)

// ExitCodeFor maps an error from the transporter layers to a CLI exit code.
func ExitCodeFor(err error) ExitCode {
	var (
		optErr   *OptionError
		execErr  *ExecutionError
		parseErr *ParseError
		tErr     *TransporterError
		cliErr   *CLIError
	)
	switch {
	case err == nil:
		return ExitSuccess
	case errors.As(err, &cliErr):
		return cliErr.Code
	case errors.As(err, &optErr):
		return ExitOptionError
	case errors.As(err, &execErr):
		return ExitExecutionError
	case errors.As(err, &parseErr):
		return ExitParseError
	case errors.As(err, &tErr):
		return ExitTransporterError
	default:
		return ExitGeneralError
	}
}

// CLIError is a custom error type that carries an exit code.
// This allows the CLI layer to translate domain errors into
// appropriate process exit codes.
type CLIError struct {
	// Code is the exit code to return to the OS.
	Code ExitCode

	// Message is the human-readable error description.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error satisfies the error interface. It returns the human-readable
// error message, optionally including the underlying error.
func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for use with errors.Is/errors.As.
func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a new CLIError with the given exit code and message.
func NewCLIError(code ExitCode, message string) *CLIError {
	return &CLIError{Code: code, Message: message}
}

// WrapCLIError creates a new CLIError that wraps an existing error.
func WrapCLIError(code ExitCode, message string, err error) *CLIError {
	return &CLIError{Code: code, Message: message, Err: err}
}
