// Package cli provides the interactive CareKeeper command-line client.
//
// It wires configuration, the local database, the profile directory and the
// session manager, and runs a REPL whose commands map one-to-one onto
// session operations.
//
// Key features:
//   - Register / Login / Logout, demo accounts
//   - Profile update and password change
//   - Session expiry checks before protected commands
//   - Route and permission checks for the current role
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
