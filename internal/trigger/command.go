// Package trigger provides the command that arms the next migration run.
package trigger

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	migrate "github.com/temirov/qol-assist/internal/migrate"
	"github.com/temirov/qol-assist/internal/privilege"
	"github.com/temirov/qol-assist/internal/state"
)

const (
	commandUseConstant              = "trigger"
	commandAliasConstant            = "t"
	commandShortDescriptionConstant = "Schedule migrations to run on the next boot"
	commandLongDescriptionConstant  = "trigger creates the trigger file that permits the migrate command to run. It requires root privileges and succeeds when the trigger file already exists."
	stateDirectoryFlagNameConstant  = "state-dir"
	stateDirectoryFlagUsageConstant = "Directory holding the progress marker and trigger file"
	scheduledMessageConstant        = "Migration will run on next boot"
	armErrorTemplateConstant        = "unable to schedule migration: %w"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// PrivilegeChecker reports whether the process holds root identity.
type PrivilegeChecker interface {
	IsPrivileged() bool
}

// CommandBuilder assembles the trigger Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() migrate.CommandConfiguration
	PrivilegeChecker      PrivilegeChecker
	FileSystem            state.FileSystem
}

// Build constructs the trigger command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Aliases:       []string{commandAliasConstant},
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.run,
	}

	command.Flags().String(stateDirectoryFlagNameConstant, "", stateDirectoryFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	if !builder.resolvePrivilegeChecker().IsPrivileged() {
		return migrate.PrivilegeError{}
	}

	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(stateDirectoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(stateDirectoryFlagNameConstant)
		configuration = migrate.CommandConfiguration{StateDirectory: strings.TrimSpace(flagValue)}.Sanitize()
	}

	gate := state.NewArmingGate(builder.FileSystem, state.NewLayout(configuration.StateDirectory), builder.resolveLogger())
	if armError := gate.Arm(); armError != nil {
		return fmt.Errorf(armErrorTemplateConstant, armError)
	}

	fmt.Fprintln(command.OutOrStdout(), scheduledMessageConstant)
	return nil
}

func (builder *CommandBuilder) resolvePrivilegeChecker() PrivilegeChecker {
	if builder.PrivilegeChecker != nil {
		return builder.PrivilegeChecker
	}
	return privilege.NewChecker(nil)
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveConfiguration() migrate.CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return migrate.DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
