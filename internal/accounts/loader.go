package accounts

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
)

const (
	operationReadShellsConstant           = "read shells"
	operationEnumerateAccountsConstant    = "enumerate accounts"
	operationResolveGroupsConstant        = "resolve groups for"
	operationLookupGroupConstant          = "look up group"
	sourceNotConfiguredMessageConstant    = "account source not configured"
	unresolvedGroupSkippedMessageConstant = "Skipping group id that no longer resolves"
	snapshotLoadedMessageConstant         = "Account directory loaded"
	logFieldUserConstant                  = "user"
	logFieldGroupIDConstant               = "gid"
	logFieldAccountCountConstant          = "accounts"
	logFieldShellCountConstant            = "shells"
)

// ErrSourceNotConfigured indicates a Loader was built without an account source.
var ErrSourceNotConfigured = errors.New(sourceNotConfiguredMessageConstant)

// Loader builds snapshots of the account directory and re-resolves membership on demand.
type Loader struct {
	source Source
	logger *zap.Logger
}

// NewLoader constructs a Loader backed by source.
func NewLoader(source Source, logger *zap.Logger) (*Loader, error) {
	if source == nil {
		return nil, ErrSourceNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{source: source, logger: logger}, nil
}

// Load reads the registered shells, then every account with its resolved group names.
// The returned snapshot never mixes accounts with shells from a different load.
func (loader *Loader) Load(executionContext context.Context) (*Snapshot, error) {
	shells, shellsError := loader.source.Shells(executionContext)
	if shellsError != nil {
		return nil, DirectoryReadError{Operation: operationReadShellsConstant, Cause: shellsError}
	}

	registeredShells := make(map[string]struct{}, len(shells))
	for _, shell := range shells {
		registeredShells[strings.TrimSpace(shell)] = struct{}{}
	}

	records, recordsError := loader.source.Accounts(executionContext)
	if recordsError != nil {
		return nil, DirectoryReadError{Operation: operationEnumerateAccountsConstant, Cause: recordsError}
	}

	loadedAccounts := make([]Account, 0, len(records))
	for _, record := range records {
		account := Account{UID: record.UID, GID: record.GID, Name: record.Name}
		_, account.ValidShell = registeredShells[strings.TrimSpace(record.Shell)]

		groupNames, resolveError := loader.ResolveGroups(executionContext, account)
		if resolveError != nil {
			return nil, resolveError
		}
		account.Groups = groupNames
		loadedAccounts = append(loadedAccounts, account)
	}

	loader.logger.Debug(
		snapshotLoadedMessageConstant,
		zap.Int(logFieldAccountCountConstant, len(loadedAccounts)),
		zap.Int(logFieldShellCountConstant, len(shells)),
	)

	return &Snapshot{accounts: loadedAccounts, shells: append([]string{}, shells...)}, nil
}

// ResolveGroups re-reads the account's group names from the source of truth. Group ids
// that no longer resolve are skipped with a warning.
func (loader *Loader) ResolveGroups(executionContext context.Context, account Account) ([]string, error) {
	groupIDs, groupIDsError := loader.source.GroupIDs(executionContext, account.Name, account.GID)
	if groupIDsError != nil {
		return nil, DirectoryReadError{Operation: operationResolveGroupsConstant, Subject: account.Name, Cause: groupIDsError}
	}

	groupNames := make([]string, 0, len(groupIDs))
	seenNames := make(map[string]struct{}, len(groupIDs))
	for _, groupID := range groupIDs {
		group, lookupError := loader.source.LookupGroupByID(executionContext, groupID)
		if lookupError != nil {
			if errors.Is(lookupError, ErrGroupNotFound) {
				loader.logger.Warn(
					unresolvedGroupSkippedMessageConstant,
					zap.String(logFieldUserConstant, account.Name),
					zap.Int(logFieldGroupIDConstant, groupID),
				)
				continue
			}
			return nil, DirectoryReadError{Operation: operationResolveGroupsConstant, Subject: account.Name, Cause: lookupError}
		}
		if _, seen := seenNames[group.Name]; seen {
			continue
		}
		seenNames[group.Name] = struct{}{}
		groupNames = append(groupNames, group.Name)
	}
	return groupNames, nil
}

// LookupGroup resolves a group by name. A missing group yields ErrGroupNotFound
// unwrapped; any other failure is a DirectoryReadError.
func (loader *Loader) LookupGroup(executionContext context.Context, groupName string) (GroupReference, error) {
	group, lookupError := loader.source.LookupGroupByName(executionContext, groupName)
	if lookupError != nil {
		if errors.Is(lookupError, ErrGroupNotFound) {
			return GroupReference{}, ErrGroupNotFound
		}
		return GroupReference{}, DirectoryReadError{Operation: operationLookupGroupConstant, Subject: groupName, Cause: lookupError}
	}
	return group, nil
}
