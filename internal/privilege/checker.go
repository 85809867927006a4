// Package privilege reports whether the process runs with root identity.
package privilege

import "golang.org/x/sys/unix"

const rootIdentifierConstant = 0

// Identity is an effective user and group id pair.
type Identity struct {
	UserID  int
	GroupID int
}

// IsRoot reports whether both ids are root.
func (identity Identity) IsRoot() bool {
	return identity.UserID == rootIdentifierConstant && identity.GroupID == rootIdentifierConstant
}

// IdentityProvider reports the effective identity of the process.
type IdentityProvider func() Identity

// EffectiveIdentity returns the effective uid and gid of the running process.
func EffectiveIdentity() Identity {
	return Identity{UserID: unix.Geteuid(), GroupID: unix.Getegid()}
}

// Checker decides whether privileged operations may proceed.
type Checker struct {
	identityProvider IdentityProvider
}

// NewChecker constructs a Checker. A nil provider uses EffectiveIdentity.
func NewChecker(identityProvider IdentityProvider) Checker {
	if identityProvider == nil {
		identityProvider = EffectiveIdentity
	}
	return Checker{identityProvider: identityProvider}
}

// StaticChecker returns a Checker that always reports identity.
func StaticChecker(identity Identity) Checker {
	return NewChecker(func() Identity { return identity })
}

// IsPrivileged reports whether the effective user and group ids are both root.
func (checker Checker) IsPrivileged() bool {
	provider := checker.identityProvider
	if provider == nil {
		provider = EffectiveIdentity
	}
	return provider().IsRoot()
}
