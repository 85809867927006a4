package accounts

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/temirov/qol-assist/internal/utils/flags"
)

const (
	commandUseConstant                  = "list-users [system|all|admin|active]"
	commandShortDescriptionConstant     = "List users on the system"
	commandLongDescriptionConstant      = "list-users prints local accounts filtered by classification: system (inactive), all, admin (active administrators), or active (human accounts with a registered login shell)."
	outputFormatFlagNameConstant        = "format"
	outputFormatFlagDescriptionConstant = "Output format."
	classificationSubjectConstant       = "type"
	outputFormatSubjectConstant         = "format"
	userLineTemplateConstant            = "User: %s (%s)\n"
	groupSeparatorConstant              = ":"
	listLoadErrorTemplateConstant       = "unable to list users: %w"
	listRenderErrorTemplateConstant     = "unable to render users: %w"
	usersListedMessageConstant          = "Users listed"
	logFieldClassificationConstant      = "classification"
	logFieldListedCountConstant         = "count"
)

// LoggerProvider supplies a zap logger instance.
type LoggerProvider func() *zap.Logger

// SourceProvider supplies the account directory source.
type SourceProvider func() Source

// CommandBuilder assembles the list-users Cobra command.
type CommandBuilder struct {
	LoggerProvider        LoggerProvider
	ConfigurationProvider func() CommandConfiguration
	SourceProvider        SourceProvider
}

type userListDocument struct {
	Classification Classification `yaml:"classification"`
	Users          []Account      `yaml:"users"`
}

// Build constructs the list-users command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:           commandUseConstant,
		Short:         commandShortDescriptionConstant,
		Long:          commandLongDescriptionConstant,
		SilenceErrors: true,
		SilenceUsage:  true,
		Args:          cobra.ExactArgs(1),
		ValidArgs:     classificationNames(),
		RunE:          builder.run,
	}

	command.Flags().String(
		outputFormatFlagNameConstant,
		"",
		flags.FormatChoiceUsage(OutputFormatText, []string{OutputFormatText, OutputFormatYAML}, outputFormatFlagDescriptionConstant),
	)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
	classificationName, classificationError := flags.ParseChoice(classificationSubjectConstant, arguments[0], "", classificationNames())
	if classificationError != nil {
		return classificationError
	}
	classification := Classification(classificationName)

	configuration := builder.resolveConfiguration()
	requestedFormat := configuration.OutputFormat
	if command.Flags().Changed(outputFormatFlagNameConstant) {
		requestedFormat, _ = command.Flags().GetString(outputFormatFlagNameConstant)
	}
	outputFormat, formatError := flags.ParseChoice(outputFormatSubjectConstant, requestedFormat, OutputFormatText, []string{OutputFormatText, OutputFormatYAML})
	if formatError != nil {
		return formatError
	}

	logger := builder.resolveLogger()
	loader, loaderError := NewLoader(builder.resolveSource(), logger)
	if loaderError != nil {
		return loaderError
	}

	snapshot, loadError := loader.Load(command.Context())
	if loadError != nil {
		return fmt.Errorf(listLoadErrorTemplateConstant, loadError)
	}

	listed := Filter(snapshot.Accounts(), classification)
	logger.Debug(
		usersListedMessageConstant,
		zap.String(logFieldClassificationConstant, string(classification)),
		zap.Int(logFieldListedCountConstant, len(listed)),
	)

	if renderError := renderAccounts(command.OutOrStdout(), outputFormat, classification, listed); renderError != nil {
		return fmt.Errorf(listRenderErrorTemplateConstant, renderError)
	}
	return nil
}

func renderAccounts(writer io.Writer, outputFormat string, classification Classification, listed []Account) error {
	if outputFormat == OutputFormatYAML {
		encoder := yaml.NewEncoder(writer)
		encoder.SetIndent(2)
		if encodeError := encoder.Encode(userListDocument{Classification: classification, Users: listed}); encodeError != nil {
			return encodeError
		}
		return encoder.Close()
	}

	for _, account := range listed {
		if _, writeError := fmt.Fprintf(writer, userLineTemplateConstant, account.Name, strings.Join(account.Groups, groupSeparatorConstant)); writeError != nil {
			return writeError
		}
	}
	return nil
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider != nil {
		if logger := builder.LoggerProvider(); logger != nil {
			return logger
		}
	}
	return zap.NewNop()
}

func (builder *CommandBuilder) resolveSource() Source {
	if builder.SourceProvider != nil {
		if source := builder.SourceProvider(); source != nil {
			return source
		}
	}
	return NewSystemSource()
}

func (builder *CommandBuilder) resolveConfiguration() CommandConfiguration {
	if builder.ConfigurationProvider == nil {
		return DefaultCommandConfiguration()
	}
	return builder.ConfigurationProvider().Sanitize()
}
