// Package logging wraps log/slog with the repository's handler setup and
// typed attribute helpers. Components receive a logger through construction
// and never write to a package-level default.
package logging
