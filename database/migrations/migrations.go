// Package migrations registers the shopfront schema with pkg/migration.
// Import it for side effects wherever migrations must run (the CLI and the
// test database helper).
package migrations
