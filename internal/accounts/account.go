package accounts

import (
	"errors"
	"fmt"
)

// MinimumUID separates service accounts from human accounts, and members of
// AdministratorGroup are treated as administrators.
const (
	MinimumUID         = 1000
	AdministratorGroup = "sudo"
)

const (
	rootIdentifierConstant               = 0
	groupNotFoundMessageConstant         = "group not found"
	directoryReadErrorTemplateConstant   = "unable to read account directory (%s): %v"
	directoryReadSubjectTemplateConstant = "unable to read account directory (%s %s): %v"
)

// ErrGroupNotFound indicates that a group name or id does not resolve to a group entry.
var ErrGroupNotFound = errors.New(groupNotFoundMessageConstant)

// DirectoryReadError reports a failure to read shells, accounts, or group membership.
type DirectoryReadError struct {
	Operation string
	Subject   string
	Cause     error
}

// Error describes the failed read.
func (readError DirectoryReadError) Error() string {
	if len(readError.Subject) == 0 {
		return fmt.Sprintf(directoryReadErrorTemplateConstant, readError.Operation, readError.Cause)
	}
	return fmt.Sprintf(directoryReadSubjectTemplateConstant, readError.Operation, readError.Subject, readError.Cause)
}

// Unwrap exposes the underlying cause.
func (readError DirectoryReadError) Unwrap() error {
	return readError.Cause
}

// Account is a system user as seen by one snapshot load.
type Account struct {
	UID        int      `yaml:"uid"`
	GID        int      `yaml:"gid"`
	Name       string   `yaml:"name"`
	Groups     []string `yaml:"groups"`
	ValidShell bool     `yaml:"valid_shell"`
}

// GroupReference identifies a group by name and numeric id.
type GroupReference struct {
	Name string
	GID  int
}

// Snapshot owns the accounts and registered shells loaded together in one pass.
type Snapshot struct {
	accounts []Account
	shells   []string
}

// NewSnapshot builds a snapshot from already-resolved accounts and shells.
func NewSnapshot(accounts []Account, shells []string) *Snapshot {
	ownedAccounts := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		ownedAccounts = append(ownedAccounts, account.clone())
	}
	return &Snapshot{accounts: ownedAccounts, shells: append([]string{}, shells...)}
}

// Accounts returns a copy of every account in the snapshot.
func (snapshot *Snapshot) Accounts() []Account {
	if snapshot == nil {
		return nil
	}
	copied := make([]Account, 0, len(snapshot.accounts))
	for _, account := range snapshot.accounts {
		copied = append(copied, account.clone())
	}
	return copied
}

// Shells returns the registered shells the snapshot was built against.
func (snapshot *Snapshot) Shells() []string {
	if snapshot == nil {
		return nil
	}
	return append([]string{}, snapshot.shells...)
}

// Len reports the number of accounts.
func (snapshot *Snapshot) Len() int {
	if snapshot == nil {
		return 0
	}
	return len(snapshot.accounts)
}

// Lookup finds an account by login name.
func (snapshot *Snapshot) Lookup(name string) (Account, bool) {
	if snapshot == nil {
		return Account{}, false
	}
	for _, account := range snapshot.accounts {
		if account.Name == name {
			return account.clone(), true
		}
	}
	return Account{}, false
}

func (account Account) clone() Account {
	cloned := account
	cloned.Groups = append([]string(nil), account.Groups...)
	return cloned
}
