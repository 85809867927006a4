package execshell

import (
	"fmt"
	"strings"
)

type messageStage int

const (
	messageStageStart messageStage = iota
	messageStageSuccess
	messageStageFailure
	messageStageExecutionFailure
)

const (
	genericStartTemplateConstant            = "Running %s"
	genericSuccessTemplateConstant          = "Completed %s"
	genericFailureTemplateConstant          = "%s failed with exit code %d%s"
	genericExecutionFailureTemplateConstant = "%s failed: %s"
	commandArgumentsJoinSeparatorConstant   = " "
	standardErrorSuffixTemplateConstant     = ": %s"
	unknownFailureMessageConstant           = "unknown error"
	emptyStringConstant                     = ""
	fallbackUnknownValueLabelConstant       = "unknown"
)

const (
	userModAppendFlagConstant = "-a"
	userModGroupsFlagConstant = "-G"
	groupModGIDFlagConstant   = "-g"
)

const (
	userModAppendStartTemplateConstant            = "Adding %s to group %s"
	userModAppendSuccessTemplateConstant          = "Added %s to group %s"
	userModAppendFailureTemplateConstant          = "Failed to add %s to group %s (exit code %d%s)"
	userModAppendExecutionFailureTemplateConstant = "Unable to add %s to group %s: %s"
	groupModGIDStartTemplateConstant              = "Changing GID of group %s to %s"
	groupModGIDSuccessTemplateConstant            = "Changed GID of group %s to %s"
	groupModGIDFailureTemplateConstant            = "Failed to change GID of group %s to %s (exit code %d%s)"
	groupModGIDExecutionFailureTemplateConstant   = "Unable to change GID of group %s to %s: %s"
)

// CommandMessageFormatter builds human-readable messages for command lifecycle events.
type CommandMessageFormatter struct{}

// BuildStartedMessage formats the message describing a command about to run.
func (formatter CommandMessageFormatter) BuildStartedMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageStart)
}

// BuildSuccessMessage formats the message describing a completed command with a zero exit code.
func (formatter CommandMessageFormatter) BuildSuccessMessage(command ShellCommand) string {
	return formatter.buildMessage(command, ExecutionResult{}, nil, messageStageSuccess)
}

// BuildFailureMessage formats the message describing a command that returned a non-zero exit code.
func (formatter CommandMessageFormatter) BuildFailureMessage(command ShellCommand, result ExecutionResult) string {
	return formatter.buildMessage(command, result, nil, messageStageFailure)
}

// BuildExecutionFailureMessage formats the message describing an unexpected execution failure.
func (formatter CommandMessageFormatter) BuildExecutionFailureMessage(command ShellCommand, failure error) string {
	return formatter.buildMessage(command, ExecutionResult{}, failure, messageStageExecutionFailure)
}

func (formatter CommandMessageFormatter) buildMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	switch command.Name {
	case CommandUserMod:
		return formatter.describeUserModMessage(command, result, failure, stage)
	case CommandGroupMod:
		return formatter.describeGroupModMessage(command, result, failure, stage)
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeUserModMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !containsArgument(arguments, userModAppendFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	groupName := formatter.ensureValue(formatter.valueAfterFlag(arguments, userModGroupsFlagConstant))
	userName := formatter.ensureValue(formatter.lastArgument(arguments))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(userModAppendStartTemplateConstant, userName, groupName)
	case messageStageSuccess:
		return fmt.Sprintf(userModAppendSuccessTemplateConstant, userName, groupName)
	case messageStageFailure:
		return fmt.Sprintf(userModAppendFailureTemplateConstant, userName, groupName, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(userModAppendExecutionFailureTemplateConstant, userName, groupName, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) describeGroupModMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	arguments := command.Details.Arguments
	if !containsArgument(arguments, groupModGIDFlagConstant) {
		return formatter.buildGenericMessage(command, result, failure, stage)
	}

	groupIdentifier := formatter.ensureValue(formatter.valueAfterFlag(arguments, groupModGIDFlagConstant))
	groupName := formatter.ensureValue(formatter.lastArgument(arguments))

	switch stage {
	case messageStageStart:
		return fmt.Sprintf(groupModGIDStartTemplateConstant, groupName, groupIdentifier)
	case messageStageSuccess:
		return fmt.Sprintf(groupModGIDSuccessTemplateConstant, groupName, groupIdentifier)
	case messageStageFailure:
		return fmt.Sprintf(groupModGIDFailureTemplateConstant, groupName, groupIdentifier, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(groupModGIDExecutionFailureTemplateConstant, groupName, groupIdentifier, formatter.describeFailure(failure))
	default:
		return formatter.buildGenericMessage(command, result, failure, stage)
	}
}

func (formatter CommandMessageFormatter) buildGenericMessage(command ShellCommand, result ExecutionResult, failure error, stage messageStage) string {
	commandLabel := formatter.formatCommandLabel(command)
	switch stage {
	case messageStageStart:
		return fmt.Sprintf(genericStartTemplateConstant, commandLabel)
	case messageStageSuccess:
		return fmt.Sprintf(genericSuccessTemplateConstant, commandLabel)
	case messageStageFailure:
		return fmt.Sprintf(genericFailureTemplateConstant, commandLabel, result.ExitCode, formatter.formatStandardErrorSuffix(result.StandardError))
	case messageStageExecutionFailure:
		return fmt.Sprintf(genericExecutionFailureTemplateConstant, commandLabel, formatter.describeFailure(failure))
	default:
		return emptyStringConstant
	}
}

func (formatter CommandMessageFormatter) formatCommandLabel(command ShellCommand) string {
	commandParts := []string{string(command.Name)}
	if len(command.Details.Arguments) > 0 {
		commandParts = append(commandParts, strings.Join(command.Details.Arguments, commandArgumentsJoinSeparatorConstant))
	}
	return strings.Join(commandParts, commandArgumentsJoinSeparatorConstant)
}

func (formatter CommandMessageFormatter) formatStandardErrorSuffix(standardError string) string {
	trimmedStandardError := strings.TrimSpace(standardError)
	if len(trimmedStandardError) == 0 {
		return emptyStringConstant
	}
	return fmt.Sprintf(standardErrorSuffixTemplateConstant, trimmedStandardError)
}

func (formatter CommandMessageFormatter) describeFailure(failure error) string {
	if failure == nil {
		return unknownFailureMessageConstant
	}
	return failure.Error()
}

func (formatter CommandMessageFormatter) valueAfterFlag(arguments []string, flag string) string {
	for index := 0; index+1 < len(arguments); index++ {
		if strings.TrimSpace(arguments[index]) == flag {
			return arguments[index+1]
		}
	}
	return emptyStringConstant
}

func (formatter CommandMessageFormatter) lastArgument(arguments []string) string {
	if len(arguments) == 0 {
		return emptyStringConstant
	}
	return arguments[len(arguments)-1]
}

func (formatter CommandMessageFormatter) ensureValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if len(trimmed) == 0 {
		return fallbackUnknownValueLabelConstant
	}
	return trimmed
}

func containsArgument(arguments []string, value string) bool {
	for _, argument := range arguments {
		if strings.TrimSpace(argument) == value {
			return true
		}
	}
	return false
}
