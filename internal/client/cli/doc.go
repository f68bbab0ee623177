// Package cli provides the interactive registo journal client.
//
// It wires configuration, the local mirror, the optional remote store and
// the exporter into a read-eval-print loop. The REPL prompt shows whether
// entries sync with the remote store or live only in the local mirror, and
// which period the list, chart and export commands work on.
//
// Commands: add, list, delete <id>, chart, export [upload],
// period <all|day|week|month>, status, help, exit.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
