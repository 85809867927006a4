package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	mapstructure "github.com/go-viper/mapstructure/v2"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/migrate"
	"github.com/temirov/qol-assist/internal/state"
	"github.com/temirov/qol-assist/internal/utils"
)

const (
	testConfigurationFileNameConstant = "config.yaml"
	testConfigurationTemplateConstant = "common:\n  log_level: debug\n  log_format: structured\ntools:\n  migrate:\n    state_directory: %s\n  accounts:\n    output_format: yaml\n"
	testStateDirectoryEnvironmentName = "QOLASSIST_TOOLS_MIGRATE_STATE_DIRECTORY"
)

func executeApplication(t *testing.T, application *Application, arguments ...string) error {
	t.Helper()
	application.rootCommand.SetOut(&bytes.Buffer{})
	application.rootCommand.SetErr(&bytes.Buffer{})
	application.rootCommand.SetArgs(arguments)
	return application.Execute()
}

func TestApplicationRegistersCommands(t *testing.T) {
	application := NewApplication()

	registered := map[string]bool{}
	for _, command := range application.rootCommand.Commands() {
		registered[command.Name()] = true
	}

	for _, expectedName := range []string{"migrate", "trigger", "list-users", "version"} {
		require.True(t, registered[expectedName], expectedName)
	}
}

func TestApplicationLoadsEmbeddedDefaults(t *testing.T) {
	application := NewApplication()

	require.NoError(t, executeApplication(t, application, "version"))
	require.Equal(t, state.DefaultDirectory, application.configuration.Tools.Migrate.StateDirectory)
	require.Equal(t, accounts.OutputFormatText, application.configuration.Tools.Accounts.OutputFormat)
	require.Equal(t, string(utils.LogFormatConsole), application.configuration.Common.LogFormat)
	require.NotNil(t, application.consoleLogger)
	require.NotNil(t, application.commandEventObserver())
}

func TestApplicationConfigurationSources(t *testing.T) {
	testCases := []struct {
		name              string
		prepare           func(t *testing.T) []string
		expectedDirectory func() string
	}{
		{
			name: "configuration_file",
			prepare: func(t *testing.T) []string {
				configurationPath := filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
				configurationContent := []byte(fmtConfiguration("/srv/qol-state"))
				require.NoError(t, os.WriteFile(configurationPath, configurationContent, 0o600))
				return []string{"--config", configurationPath, "version"}
			},
			expectedDirectory: func() string { return "/srv/qol-state" },
		},
		{
			name: "environment_override",
			prepare: func(t *testing.T) []string {
				t.Setenv(testStateDirectoryEnvironmentName, "/run/qol-assist")
				return []string{"version"}
			},
			expectedDirectory: func() string { return "/run/qol-assist" },
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			application := NewApplication()
			arguments := testCase.prepare(t)

			require.NoError(t, executeApplication(t, application, arguments...))
			require.Equal(t, testCase.expectedDirectory(), application.configuration.Tools.Migrate.Sanitize().StateDirectory)
		})
	}
}

func TestApplicationConfigurationFileSelectsFormats(t *testing.T) {
	configurationPath := filepath.Join(t.TempDir(), testConfigurationFileNameConstant)
	require.NoError(t, os.WriteFile(configurationPath, []byte(fmtConfiguration("/srv/qol-state")), 0o600))

	application := NewApplication()
	require.NoError(t, executeApplication(t, application, "--config", configurationPath, "version"))

	require.Equal(t, accounts.OutputFormatYAML, application.configuration.Tools.Accounts.OutputFormat)
	require.Equal(t, string(utils.LogLevelDebug), application.configuration.Common.LogLevel)
	require.Nil(t, application.consoleLogger)
	require.Nil(t, application.commandEventObserver())
}

func TestApplicationLogFlagsOverrideConfiguration(t *testing.T) {
	application := NewApplication()

	require.NoError(t, executeApplication(t, application, "--log-level", "error", "--log-format", "structured", "version"))
	require.Equal(t, "error", application.configuration.Common.LogLevel)
	require.Equal(t, "structured", application.configuration.Common.LogFormat)
}

func TestApplicationRejectsInvalidLoggingConfiguration(t *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
	}{
		{name: "log_level", arguments: []string{"--log-level", "verbose", "version"}},
		{name: "log_format", arguments: []string{"--log-format", "xml", "version"}},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			executionError := executeApplication(t, NewApplication(), testCase.arguments...)
			require.ErrorContains(t, executionError, "unable to create logger")
		})
	}
}

func TestApplicationRejectsMissingConfigurationFile(t *testing.T) {
	missingPath := filepath.Join(t.TempDir(), "absent.yaml")
	executionError := executeApplication(t, NewApplication(), "--config", missingPath, "version")
	require.ErrorContains(t, executionError, "unable to load configuration")
}

func TestEmbeddedDefaultConfigurationMatchesCommandDefaults(t *testing.T) {
	content, configurationType := EmbeddedDefaultConfiguration()
	require.Equal(t, configurationTypeConstant, configurationType)

	var rawConfiguration map[string]any
	require.NoError(t, yaml.Unmarshal(content, &rawConfiguration))

	var decoded ApplicationConfiguration
	decoder, decoderError := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  utils.ConfigurationDecodeHook(),
		ErrorUnused: true,
		Result:      &decoded,
	})
	require.NoError(t, decoderError)
	require.NoError(t, decoder.Decode(rawConfiguration))

	require.Equal(t, migrate.DefaultCommandConfiguration(), decoded.Tools.Migrate)
	require.Equal(t, accounts.DefaultCommandConfiguration(), decoded.Tools.Accounts)
	require.Equal(t, "warn", decoded.Common.LogLevel)
	require.Equal(t, string(utils.LogFormatConsole), decoded.Common.LogFormat)

	content[0] = '#'
	again, _ := EmbeddedDefaultConfiguration()
	require.NotEqual(t, content[0], again[0])
}

func fmtConfiguration(stateDirectory string) string {
	return fmt.Sprintf(testConfigurationTemplateConstant, stateDirectory)
}
