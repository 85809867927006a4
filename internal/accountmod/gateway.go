package accountmod

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"

	"go.uber.org/zap"

	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/execshell"
)

const (
	userModAppendFlagConstant                   = "-a"
	userModGroupsFlagConstant                   = "-G"
	groupModGIDFlagConstant                     = "-g"
	resolverNotConfiguredMessageConstant        = "account resolver not configured"
	executorNotConfiguredMessageConstant        = "account command executor not configured"
	membershipVerificationTemplateConstant      = "user %s is still not a member of group %s after usermod"
	groupIDVerificationTemplateConstant         = "group %s has GID %d after groupmod, expected %d"
	addToGroupErrorTemplateConstant             = "unable to add %s to group %s: %w"
	changeGroupIDErrorTemplateConstant          = "unable to change GID of group %s to %d: %w"
	verificationFailedTemplateConstant          = "verification failed: %s"
	memberAddedMessageConstant                  = "Added user to group"
	groupIDChangedMessageConstant               = "Changed group GID"
	groupIDAlreadyCorrectMessageConstant        = "Group GID already correct"
	membershipVerificationFailedMessageConstant = "Group membership verification failed"
	groupIDVerificationFailedMessageConstant    = "Group GID verification failed"
	logFieldUserConstant                        = "user"
	logFieldGroupConstant                       = "group"
	logFieldGroupIDConstant                     = "gid"
	logFieldExpectedGroupIDConstant             = "expected_gid"
)

// AccountResolver re-reads account state from the system account directory.
type AccountResolver interface {
	ResolveGroups(executionContext context.Context, account accounts.Account) ([]string, error)
	LookupGroup(executionContext context.Context, groupName string) (accounts.GroupReference, error)
}

// CommandExecutor runs the account-management utilities.
type CommandExecutor interface {
	ExecuteUserMod(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
	ExecuteGroupMod(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// MutationVerificationError reports a utility that exited successfully without producing the requested state.
type MutationVerificationError struct {
	Subject string
	Detail  string
}

// Error describes the unmet post-condition.
func (verificationError MutationVerificationError) Error() string {
	return fmt.Sprintf(verificationFailedTemplateConstant, verificationError.Detail)
}

var (
	errResolverNotConfigured = errors.New(resolverNotConfiguredMessageConstant)
	errExecutorNotConfigured = errors.New(executorNotConfiguredMessageConstant)
)

// Gateway performs privileged account mutations and verifies each against a fresh read.
type Gateway struct {
	resolver AccountResolver
	executor CommandExecutor
	logger   *zap.Logger
}

// NewGateway constructs a Gateway.
func NewGateway(resolver AccountResolver, executor CommandExecutor, logger *zap.Logger) (*Gateway, error) {
	if resolver == nil {
		return nil, errResolverNotConfigured
	}
	if executor == nil {
		return nil, errExecutorNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{resolver: resolver, executor: executor, logger: logger}, nil
}

// AddToGroup appends the account to groupName with usermod and succeeds only when a
// re-read of the account's groups includes groupName.
func (gateway *Gateway) AddToGroup(executionContext context.Context, account accounts.Account, groupName string) error {
	_, executionError := gateway.executor.ExecuteUserMod(executionContext, execshell.CommandDetails{
		Arguments: []string{userModAppendFlagConstant, userModGroupsFlagConstant, groupName, account.Name},
	})
	if executionError != nil {
		return fmt.Errorf(addToGroupErrorTemplateConstant, account.Name, groupName, executionError)
	}

	refreshedGroups, resolveError := gateway.resolver.ResolveGroups(executionContext, account)
	if resolveError != nil {
		return fmt.Errorf(addToGroupErrorTemplateConstant, account.Name, groupName, resolveError)
	}

	if !slices.Contains(refreshedGroups, groupName) {
		gateway.logger.Error(
			membershipVerificationFailedMessageConstant,
			zap.String(logFieldUserConstant, account.Name),
			zap.String(logFieldGroupConstant, groupName),
		)
		return MutationVerificationError{
			Subject: account.Name,
			Detail:  fmt.Sprintf(membershipVerificationTemplateConstant, account.Name, groupName),
		}
	}

	gateway.logger.Info(
		memberAddedMessageConstant,
		zap.String(logFieldUserConstant, account.Name),
		zap.String(logFieldGroupConstant, groupName),
	)
	return nil
}

// GroupID resolves groupName to its numeric id, returning accounts.ErrGroupNotFound when absent.
func (gateway *Gateway) GroupID(executionContext context.Context, groupName string) (int, error) {
	group, lookupError := gateway.resolver.LookupGroup(executionContext, groupName)
	if lookupError != nil {
		return 0, lookupError
	}
	return group.GID, nil
}

// ChangeGroupID sets the numeric id of groupName with groupmod, skipping the call when
// the id already matches, and verifies the change with a fresh lookup.
func (gateway *Gateway) ChangeGroupID(executionContext context.Context, groupName string, groupID int) error {
	currentGroupID, lookupError := gateway.GroupID(executionContext, groupName)
	if lookupError != nil {
		return fmt.Errorf(changeGroupIDErrorTemplateConstant, groupName, groupID, lookupError)
	}
	if currentGroupID == groupID {
		gateway.logger.Debug(
			groupIDAlreadyCorrectMessageConstant,
			zap.String(logFieldGroupConstant, groupName),
			zap.Int(logFieldGroupIDConstant, groupID),
		)
		return nil
	}

	_, executionError := gateway.executor.ExecuteGroupMod(executionContext, execshell.CommandDetails{
		Arguments: []string{groupModGIDFlagConstant, strconv.Itoa(groupID), groupName},
	})
	if executionError != nil {
		return fmt.Errorf(changeGroupIDErrorTemplateConstant, groupName, groupID, executionError)
	}

	verifiedGroupID, verifyError := gateway.GroupID(executionContext, groupName)
	if verifyError != nil {
		return fmt.Errorf(changeGroupIDErrorTemplateConstant, groupName, groupID, verifyError)
	}
	if verifiedGroupID != groupID {
		gateway.logger.Error(
			groupIDVerificationFailedMessageConstant,
			zap.String(logFieldGroupConstant, groupName),
			zap.Int(logFieldGroupIDConstant, verifiedGroupID),
			zap.Int(logFieldExpectedGroupIDConstant, groupID),
		)
		return MutationVerificationError{
			Subject: groupName,
			Detail:  fmt.Sprintf(groupIDVerificationTemplateConstant, groupName, verifiedGroupID, groupID),
		}
	}

	gateway.logger.Info(
		groupIDChangedMessageConstant,
		zap.String(logFieldGroupConstant, groupName),
		zap.Int(logFieldGroupIDConstant, groupID),
	)
	return nil
}
