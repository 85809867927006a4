// Package accountmod performs the privileged account mutations used by migrations.
//
// Gateway shells out to usermod and groupmod through an execshell executor and
// never trusts an exit status alone: every change is confirmed by re-reading the
// account directory, and an unmet post-condition yields MutationVerificationError.
package accountmod
