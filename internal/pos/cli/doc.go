// Package cli provides the interactive merch-point POS client.
//
// It wires configuration, the local SQLite store, the remote backends and the
// sync engine into an interactive REPL that works both online and offline.
// Typical flow: open the database, start a background connectivity monitor,
// and execute operator commands while sync runs in the background.
//
// Key features:
//   - Record sales against the local catalog
//   - Manage products (add, list, delete)
//   - Close out a selling session and review past close-outs
//   - Edit user settings and remote backend identifiers
//   - Trigger and observe synchronization
//
// The REPL is started via App.Root(ctx), which blocks until the user exits.
// See App, Monitor and runREPL for details.
package cli
