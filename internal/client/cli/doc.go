// Package cli provides the interactive Poputka terminal client.
//
// It wires configuration, the local token store, the API services and an
// interactive REPL. Typical flow: check the stored session (rotating the
// tokens if needed), ask for tokens when there is no session, then execute
// user commands.
//
// Key features:
//   - Login / Logout / Status / Profile
//   - Live trip feed with role filter, city search and paging (feed, more,
//     filter, search)
//   - Click-to-call phone lookup for a listed trip (call)
//   - The nine-step trip creation wizard (create)
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App and runREPL for details.
package cli
