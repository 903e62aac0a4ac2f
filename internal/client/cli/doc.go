// Package cli provides the interactive StudyShare terminal client.
//
// Every read command mounts a screen: it observes a query, waits for the
// first settle and renders one of the loading, error, empty or populated
// branches. Mutations print a short alert when they fail and rely on the
// query cache to refresh whatever screens they affect.
//
// The REPL is started with App.Run, which blocks until the user exits or
// input is exhausted. See runREPL for the command list.
package cli
