// Package history keeps a local SQLite ledger of pack-generation runs.
package history
