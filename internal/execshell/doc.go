// Package execshell provides structured helpers for invoking the external
// account-management utilities.
//
// ShellExecutor wraps a CommandRunner with logging and lifecycle events,
// OSCommandRunner runs processes through os/exec, and CommandFailedError and
// CommandExecutionError let callers tell a non-zero exit apart from a process
// that could not be started at all.
package execshell
