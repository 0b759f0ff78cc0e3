// Package blacklist persists the two exclusion stores: the per-category "no
// catalog match" blacklist and the time-aware artist blacklist with periodic
// re-validation. Both are JSON-file backed with write-through saves; a
// missing or unreadable file degrades to an empty store instead of failing
// startup.
package blacklist
