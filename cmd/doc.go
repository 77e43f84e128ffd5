// Package cmd implements the command-line interface for inboxagent.
//
// This package provides the following commands:
//   - run: Process the campaign inbox once
//   - watch: Process the inbox on a schedule and serve metrics and health probes
//   - auth: Authorize access to the Gmail account
//   - report: Print the stored usage reports
//   - version: Display version information
//
// The run command is the default command when no subcommand is specified.
package cmd
