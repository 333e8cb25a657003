// Package cli provides the interactive SmartNotes command-line client.
//
// It wires configuration, the local session store, the API client and a
// REPL. A saved token is restored on start, a background watcher reports
// whether the server is reachable, and commands manage notes, tasks and the
// PIN-locked partition.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
