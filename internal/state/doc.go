// Package state persists the user's rejected items. Rejection is permanent
// for the life of the local state file; there is no expiry or re-check.
package state
