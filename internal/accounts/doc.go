// Package accounts models the local account directory.
//
// Loader reads registered shells and passwd/group entries through a Source and
// produces an immutable Snapshot of Accounts. The predicates IsActive, IsAdmin,
// and InGroup classify accounts without performing I/O, and the list-users
// command prints filtered views of a snapshot.
package accounts
