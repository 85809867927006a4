package migrate

import (
	"path/filepath"
	"strings"

	"github.com/temirov/qol-assist/internal/state"
)

const stateDirectoryConfigurationKeySuffixConstant = ".state_directory"

// CommandConfiguration captures persisted configuration for the migrate command.
type CommandConfiguration struct {
	StateDirectory string `mapstructure:"state_directory"`
}

// DefaultCommandConfiguration returns baseline configuration values for migrate.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{StateDirectory: state.DefaultDirectory}
}

// DefaultConfigurationValues returns Viper defaults rooted at configurationKeyPrefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + stateDirectoryConfigurationKeySuffixConstant: defaults.StateDirectory,
	}
}

// Sanitize cleans the state directory and falls back to the default when blank.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration
	trimmedDirectory := strings.TrimSpace(configuration.StateDirectory)
	if len(trimmedDirectory) == 0 {
		sanitized.StateDirectory = state.DefaultDirectory
		return sanitized
	}
	sanitized.StateDirectory = filepath.Clean(trimmedDirectory)
	return sanitized
}
