package ui

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/temirov/qol-assist/internal/execshell"
)

// ConsoleCommandEventLogger narrates usermod and groupmod invocations on the console logger.
// Any unsuccessful invocation is reported at error level because it aborts the migration step
// that issued it.
type ConsoleCommandEventLogger struct {
	logger    *zap.Logger
	formatter execshell.CommandMessageFormatter
}

// NewConsoleCommandEventLogger constructs a console event logger backed by the provided zap logger.
func NewConsoleCommandEventLogger(logger *zap.Logger) *ConsoleCommandEventLogger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsoleCommandEventLogger{logger: logger}
}

// CommandStarted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandStarted(command execshell.ShellCommand) {
	eventLogger.emit(zapcore.InfoLevel, func(formatter execshell.CommandMessageFormatter) string {
		return formatter.BuildStartedMessage(command)
	})
}

// CommandCompleted implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandCompleted(command execshell.ShellCommand, result execshell.ExecutionResult) {
	if result.ExitCode != 0 {
		eventLogger.emit(zapcore.ErrorLevel, func(formatter execshell.CommandMessageFormatter) string {
			return formatter.BuildFailureMessage(command, result)
		})
		return
	}
	eventLogger.emit(zapcore.InfoLevel, func(formatter execshell.CommandMessageFormatter) string {
		return formatter.BuildSuccessMessage(command)
	})
}

// CommandExecutionFailed implements execshell.CommandEventObserver.
func (eventLogger *ConsoleCommandEventLogger) CommandExecutionFailed(command execshell.ShellCommand, failure error) {
	eventLogger.emit(zapcore.ErrorLevel, func(formatter execshell.CommandMessageFormatter) string {
		return formatter.BuildExecutionFailureMessage(command, failure)
	})
}

func (eventLogger *ConsoleCommandEventLogger) emit(level zapcore.Level, render func(execshell.CommandMessageFormatter) string) {
	if eventLogger == nil || eventLogger.logger == nil {
		return
	}
	if checkedEntry := eventLogger.logger.Check(level, render(eventLogger.formatter)); checkedEntry != nil {
		checkedEntry.Write()
	}
}
