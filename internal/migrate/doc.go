// Package migrate runs the migration registry against the local account directory.
//
// A run requires root identity and the arming sentinel. It resumes from the
// persisted progress index, records progress after every successful migration,
// stops at the first failure, and disarms once no migrations remain.
package migrate
