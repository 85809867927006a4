package migrate

import (
	"context"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/temirov/qol-assist/internal/accountmod"
	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/execshell"
	"github.com/temirov/qol-assist/internal/migrations"
	"github.com/temirov/qol-assist/internal/privilege"
	"github.com/temirov/qol-assist/internal/state"
	"github.com/temirov/qol-assist/internal/utils"
)

const (
	commandUseConstant                     = "migrate"
	commandAliasConstant                   = "m"
	commandShortDescriptionConstant        = "Applies migrations that are available on the system"
	commandLongDescriptionConstant         = "migrate runs every pending migration in order, recording progress after each one. It requires root privileges and a trigger file created by the trigger command, and removes the trigger file once all migrations have been applied."
	stateDirectoryFlagNameConstant         = "state-dir"
	stateDirectoryFlagUsageConstant        = "Directory holding the progress marker and trigger file"
	logMessageMigrationRunFailedConstant   = "Migration run failed"
	logMessageMigrationRunStartingConstant = "Migration run starting"
	logFieldStateDirectoryConstant         = "state_directory"
	logFieldConfigurationFileConstant      = "config_file"
	logFieldLogLevelConstant               = "log_level"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// MigrationRunner executes a migration run.
type MigrationRunner interface {
	Run(executionContext context.Context) (Result, error)
}

// ServiceProvider constructs a migration runner from dependencies.
type ServiceProvider func(dependencies ServiceDependencies) (MigrationRunner, error)

// CommandBuilder assembles the migrate Cobra command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ConfigurationProvider        func() CommandConfiguration
	ServiceProvider              ServiceProvider
	Registry                     *migrations.Registry
	PrivilegeChecker             PrivilegeChecker
	AccountSource                accounts.Source
	CommandRunner                execshell.CommandRunner
	CommandEventObserverProvider func() execshell.CommandEventObserver
	FileSystem                   state.FileSystem
}

// Build constructs the migrate command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Aliases:       []string{commandAliasConstant},
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.NoArgs,
		RunE:          builder.runMigrate,
	}

	command.Flags().String(stateDirectoryFlagNameConstant, "", stateDirectoryFlagUsageConstant)

	return command, nil
}

func (builder *CommandBuilder) runMigrate(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration()
	if command.Flags().Changed(stateDirectoryFlagNameConstant) {
		flagValue, _ := command.Flags().GetString(stateDirectoryFlagNameConstant)
		configuration = CommandConfiguration{StateDirectory: strings.TrimSpace(flagValue)}.Sanitize()
	}

	logger := builder.resolveLogger()
	contextAccessor := utils.NewCommandContextAccessor()
	configurationFile, _ := contextAccessor.ConfigurationFilePath(command.Context())
	logLevel, _ := contextAccessor.LogLevel(command.Context())
	logger.Debug(
		logMessageMigrationRunStartingConstant,
		zap.String(logFieldStateDirectoryConstant, configuration.StateDirectory),
		zap.String(logFieldConfigurationFileConstant, configurationFile),
		zap.String(logFieldLogLevelConstant, logLevel),
	)
	reporter := NewConsoleStepReporter(command.OutOrStdout(), command.ErrOrStderr())

	dependencies, dependencyError := builder.resolveDependencies(logger, configuration)
	if dependencyError != nil {
		return dependencyError
	}
	dependencies.Observer = reporter

	service, serviceError := builder.resolveService(dependencies)
	if serviceError != nil {
		return serviceError
	}

	result, runError := service.Run(command.Context())
	if runError != nil {
		logger.Error(
			logMessageMigrationRunFailedConstant,
			zap.String(logFieldStateDirectoryConstant, configuration.StateDirectory),
			zap.Error(runError),
		)
		return runError
	}

	reporter.ReportResult(result)
	return nil
}

func (builder *CommandBuilder) resolveDependencies(logger *zap.Logger, configuration CommandConfiguration) (ServiceDependencies, error) {
	source := builder.AccountSource
	if source == nil {
		source = accounts.NewSystemSource()
	}
	loader, loaderError := accounts.NewLoader(source, logger)
	if loaderError != nil {
		return ServiceDependencies{}, loaderError
	}

	commandRunner := builder.CommandRunner
	if commandRunner == nil {
		commandRunner = execshell.NewOSCommandRunner()
	}
	var eventObserver execshell.CommandEventObserver
	if builder.CommandEventObserverProvider != nil {
		eventObserver = builder.CommandEventObserverProvider()
	}
	executor, executorError := execshell.NewShellExecutor(logger, commandRunner, eventObserver)
	if executorError != nil {
		return ServiceDependencies{}, executorError
	}

	gateway, gatewayError := accountmod.NewGateway(loader, executor, logger)
	if gatewayError != nil {
		return ServiceDependencies{}, gatewayError
	}

	registry := migrations.DefaultRegistry()
	if builder.Registry != nil {
		registry = *builder.Registry
	}

	var privilegeChecker PrivilegeChecker = privilege.NewChecker(nil)
	if builder.PrivilegeChecker != nil {
		privilegeChecker = builder.PrivilegeChecker
	}

	layout := state.NewLayout(configuration.StateDirectory)
	return ServiceDependencies{
		Logger:         logger,
		Registry:       registry,
		Progress:       state.NewProgressTracker(builder.FileSystem, layout, logger),
		Arming:         state.NewArmingGate(builder.FileSystem, layout, logger),
		Privilege:      privilegeChecker,
		SnapshotLoader: loader,
		Gateway:        gateway,
	}, nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveService(dependencies ServiceDependencies) (MigrationRunner, error) {
	if builder.ServiceProvider != nil {
		return builder.ServiceProvider(dependencies)
	}
	return NewService(dependencies)
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
