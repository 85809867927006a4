package execshell_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/qol-assist/internal/execshell"
)

const testShellPathConstant = "/bin/sh"

func TestOSCommandRunnerReportsExitCodesAndEnvironment(testInstance *testing.T) {
	if _, statError := os.Stat(testShellPathConstant); statError != nil {
		testInstance.Skip("no POSIX shell available")
	}

	testCases := []struct {
		name             string
		script           string
		environment      map[string]string
		expectedExitCode int
		expectedOutput   string
		expectedError    string
	}{
		{name: "success", script: "printf ok", expectedOutput: "ok"},
		{name: "non_zero_exit_is_not_an_error", script: "echo nope >&2; exit 3", expectedExitCode: 3, expectedError: "nope\n"},
		{name: "environment_merged", script: "printf \"$QOL_PROBE\"", environment: map[string]string{"QOL_PROBE": "armed"}, expectedOutput: "armed"},
		{name: "locale_pinned", script: "printf \"$LC_ALL\"", expectedOutput: "C"},
		{name: "locale_override_wins", script: "printf \"$LC_ALL\"", environment: map[string]string{"LC_ALL": "POSIX"}, expectedOutput: "POSIX"},
	}

	runner := execshell.NewOSCommandRunner()
	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			result, runError := runner.Run(context.Background(), execshell.ShellCommand{
				Name:    execshell.CommandName(testShellPathConstant),
				Details: execshell.CommandDetails{Arguments: []string{"-c", testCase.script}, EnvironmentVariables: testCase.environment},
			})
			require.NoError(testInstance, runError)
			require.Equal(testInstance, testCase.expectedExitCode, result.ExitCode)
			require.Equal(testInstance, testCase.expectedOutput, result.StandardOutput)
			require.Equal(testInstance, testCase.expectedError, result.StandardError)
		})
	}
}

func TestOSCommandRunnerMissingExecutable(testInstance *testing.T) {
	_, runError := execshell.NewOSCommandRunner().Run(context.Background(), execshell.ShellCommand{
		Name: execshell.CommandName("/nonexistent/qol-assist-probe"),
	})
	require.Error(testInstance, runError)
}
