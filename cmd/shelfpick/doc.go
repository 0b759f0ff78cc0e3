// Package main hosts the shelfpick CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into
// recommendation cycles, outcome recording, blacklist maintenance, and
// configuration scaffolding. It centralizes configuration resolution,
// logger setup, and the single-writer lock so subcommands can focus on
// user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
