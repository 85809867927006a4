// Package migrations defines the ordered registry of system migrations and the
// reusable step shapes they are built from.
package migrations
