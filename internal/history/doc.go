// Package history persists successful disc reads in a local SQLite
// database so previously seen discs can be listed without a drive.
package history
