package accounts

// Output formats supported by list-users. Text renders one "User: name (g1:g2)"
// line per account.
const (
	OutputFormatText = "text"
	OutputFormatYAML = "yaml"
)

const outputFormatConfigurationKeySuffixConstant = ".output_format"

// CommandConfiguration captures persisted configuration for list-users.
type CommandConfiguration struct {
	OutputFormat string `mapstructure:"output_format"`
}

// DefaultCommandConfiguration returns baseline configuration values for list-users.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{OutputFormat: OutputFormatText}
}

// DefaultConfigurationValues returns Viper defaults rooted at configurationKeyPrefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + outputFormatConfigurationKeySuffixConstant: defaults.OutputFormat,
	}
}

// Sanitize fills blank values with defaults.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	if len(sanitized.OutputFormat) == 0 {
		sanitized.OutputFormat = OutputFormatText
	}
	return sanitized
}
