package accounts_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/accounts/testsupport"
	"github.com/temirov/qol-assist/internal/utils/flags"
)

type listedDocument struct {
	Classification string             `yaml:"classification"`
	Users          []accounts.Account `yaml:"users"`
}

func executeListUsers(testInstance *testing.T, builder accounts.CommandBuilder, arguments []string) (string, error) {
	testInstance.Helper()

	command, buildError := builder.Build()
	require.NoError(testInstance, buildError)

	outputBuffer := &bytes.Buffer{}
	command.SetOut(outputBuffer)
	command.SetErr(&bytes.Buffer{})
	command.SetArgs(arguments)
	command.SetContext(context.Background())

	executionError := command.Execute()
	return outputBuffer.String(), executionError
}

func TestListUsersCommandTextOutput(testInstance *testing.T) {
	testCases := []struct {
		name           string
		arguments      []string
		expectedOutput string
	}{
		{name: "active", arguments: []string{"active"}, expectedOutput: "User: alice (users:sudo:audio)\nUser: bob (audio)\n"},
		{name: "admin", arguments: []string{"admin"}, expectedOutput: "User: alice (users:sudo:audio)\n"},
		{name: "system", arguments: []string{"system"}, expectedOutput: "User: root (root)\nUser: daemon (daemon)\n"},
		{name: "all_case_insensitive", arguments: []string{"ALL"}, expectedOutput: "User: root (root)\nUser: daemon (daemon)\nUser: alice (users:sudo:audio)\nUser: bob (audio)\n"},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := accounts.CommandBuilder{
				SourceProvider: func() accounts.Source { return newDirectoryFixture() },
			}
			output, executionError := executeListUsers(testInstance, builder, testCase.arguments)
			require.NoError(testInstance, executionError)
			require.Equal(testInstance, testCase.expectedOutput, output)
		})
	}
}

func TestListUsersCommandYAMLOutput(testInstance *testing.T) {
	testCases := []struct {
		name          string
		configuration accounts.CommandConfiguration
		arguments     []string
	}{
		{name: "flag_selects_yaml", arguments: []string{"admin", "--format", "yaml"}},
		{name: "configuration_selects_yaml", configuration: accounts.CommandConfiguration{OutputFormat: accounts.OutputFormatYAML}, arguments: []string{"admin"}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := accounts.CommandBuilder{
				SourceProvider:        func() accounts.Source { return newDirectoryFixture() },
				ConfigurationProvider: func() accounts.CommandConfiguration { return testCase.configuration },
			}
			output, executionError := executeListUsers(testInstance, builder, testCase.arguments)
			require.NoError(testInstance, executionError)

			var document listedDocument
			require.NoError(testInstance, yaml.Unmarshal([]byte(output), &document))
			require.Equal(testInstance, "admin", document.Classification)
			require.Len(testInstance, document.Users, 1)
			require.Equal(testInstance, "alice", document.Users[0].Name)
			require.Equal(testInstance, 1000, document.Users[0].UID)
			require.True(testInstance, document.Users[0].ValidShell)
		})
	}
}

func TestListUsersCommandRejectsInput(testInstance *testing.T) {
	testCases := []struct {
		name      string
		arguments []string
		assertion func(testInstance *testing.T, executionError error)
	}{
		{
			name:      "missing_classification",
			arguments: []string{},
			assertion: func(testInstance *testing.T, executionError error) { require.Error(testInstance, executionError) },
		},
		{
			name:      "unknown_classification",
			arguments: []string{"humans"},
			assertion: func(testInstance *testing.T, executionError error) {
				var choiceError flags.UnsupportedChoiceError
				require.ErrorAs(testInstance, executionError, &choiceError)
				require.Equal(testInstance, "humans", choiceError.Value)
			},
		},
		{
			name:      "unknown_format",
			arguments: []string{"all", "--format", "json"},
			assertion: func(testInstance *testing.T, executionError error) {
				var choiceError flags.UnsupportedChoiceError
				require.ErrorAs(testInstance, executionError, &choiceError)
			},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			builder := accounts.CommandBuilder{
				SourceProvider: func() accounts.Source { return newDirectoryFixture() },
			}
			_, executionError := executeListUsers(testInstance, builder, testCase.arguments)
			testCase.assertion(testInstance, executionError)
		})
	}
}

func TestListUsersCommandSurfacesDirectoryErrors(testInstance *testing.T) {
	failure := errors.New(testDirectoryFailureConstant)
	builder := accounts.CommandBuilder{
		SourceProvider: func() accounts.Source {
			return &testsupport.SourceStub{ShellsError: failure}
		},
	}

	_, executionError := executeListUsers(testInstance, builder, []string{"all"})
	var readError accounts.DirectoryReadError
	require.ErrorAs(testInstance, executionError, &readError)
	require.ErrorIs(testInstance, executionError, failure)
}
