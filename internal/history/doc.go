// Package history keeps a durable journal of recommendation cycles in a
// local SQLite database, so past selections and their dispositions can be
// reviewed after the fact.
package history
