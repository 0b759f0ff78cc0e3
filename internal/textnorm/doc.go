// Package textnorm canonicalizes titles and names for comparison. All
// functions are pure and idempotent; they exist so that every component that
// keys on a title or author agrees on the same normalized form.
package textnorm
