package migrations

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/temirov/qol-assist/internal/accounts"
)

const (
	pushToGroupErrorTemplateConstant      = "unable to add %s to group %s: %w"
	normalizeGroupIDErrorTemplateConstant = "unable to normalize GID of group %s: %w"
	accountAlreadyMemberMessageConstant   = "Account already in group"
	pushToGroupSummaryMessageConstant     = "Group push finished"
	groupIDAlreadyCorrectMessageConstant  = "Group GID already correct"
	logFieldUserConstant                  = "user"
	logFieldGroupConstant                 = "group"
	logFieldGroupIDConstant               = "gid"
	logFieldAddedConstant                 = "added"
)

// PushToGroup adds every active account, restricted to administrators when requireAdmin
// is set, to groupName. The first failed add aborts the step; earlier adds remain.
func PushToGroup(groupName string, requireAdmin bool) Action {
	return func(executionContext context.Context, environment Environment) error {
		if validationError := environment.validate(); validationError != nil {
			return validationError
		}
		logger := environment.logger()

		addedCount := 0
		for _, account := range environment.Snapshot.Accounts() {
			if !accounts.IsActive(account) {
				continue
			}
			if requireAdmin && !accounts.IsAdmin(account) {
				continue
			}
			if accounts.InGroup(account, groupName) {
				logger.Debug(
					accountAlreadyMemberMessageConstant,
					zap.String(logFieldUserConstant, account.Name),
					zap.String(logFieldGroupConstant, groupName),
				)
				continue
			}
			if addError := environment.Gateway.AddToGroup(executionContext, account, groupName); addError != nil {
				return fmt.Errorf(pushToGroupErrorTemplateConstant, account.Name, groupName, addError)
			}
			addedCount++
		}

		logger.Info(
			pushToGroupSummaryMessageConstant,
			zap.String(logFieldGroupConstant, groupName),
			zap.Int(logFieldAddedConstant, addedCount),
		)
		return nil
	}
}

// NormalizeGroupID sets the numeric id of groupName to groupID unless it already matches.
func NormalizeGroupID(groupName string, groupID int) Action {
	return func(executionContext context.Context, environment Environment) error {
		if environment.Gateway == nil {
			return ErrGatewayNotConfigured
		}

		currentGroupID, lookupError := environment.Gateway.GroupID(executionContext, groupName)
		if lookupError != nil {
			return fmt.Errorf(normalizeGroupIDErrorTemplateConstant, groupName, lookupError)
		}
		if currentGroupID == groupID {
			environment.logger().Debug(
				groupIDAlreadyCorrectMessageConstant,
				zap.String(logFieldGroupConstant, groupName),
				zap.Int(logFieldGroupIDConstant, groupID),
			)
			return nil
		}

		if changeError := environment.Gateway.ChangeGroupID(executionContext, groupName, groupID); changeError != nil {
			return fmt.Errorf(normalizeGroupIDErrorTemplateConstant, groupName, changeError)
		}
		return nil
	}
}
