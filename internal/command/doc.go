// Package command defines the operations supported by iTMSTransporter and
// runs them.
//
// An Operation is plain data: a name, the -m mode it selects, the option
// Set it accepts, and three optional hooks:
//
//   - Prepare adjusts the option map before rendering (injected values,
//     scratch directories) and may return a cleanup function
//   - Success turns a zero-exit Outcome into the operation's result
//   - Failure turns a non-zero Outcome into an error
//
// Operations that select a mode share a baseline rule set (mode, the
// Windows no-pause flag, credentials, logging, JVM options); the version
// operation calls the executable without a mode.
//
// A Runner executes an Operation: it renders the argument vector before
// anything is spawned, runs the process through an Executor, collects the
// output into a model.Outcome and applies the hooks.
package command
