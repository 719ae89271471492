// Package cmd implements the command-line interface for shellstate. It
// provides a hierarchical command structure for executing child
// processes inside scoped mutations of the process working directory
// and environment.
//
// The package is organized into several subpackages:
//
//   - run: Command for executing a child process inside guards
//   - util: Shared utilities for command-line processing, configuration
//     and logging (internal use)
//
// See shellstate -help for a list of all commands.
package cmd
