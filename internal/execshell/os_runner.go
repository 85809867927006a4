package execshell

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
)

const (
	environmentAssignmentTemplateConstant = "%s=%s"
	localeEnvironmentNameConstant         = "LC_ALL"
	portableLocaleConstant                = "C"
)

// OSCommandRunner starts the account-management utilities as child processes.
// Children inherit the caller's environment with LC_ALL pinned to C unless the
// command details override it.
type OSCommandRunner struct{}

// NewOSCommandRunner constructs a runner backed by os/exec.
func NewOSCommandRunner() *OSCommandRunner {
	return &OSCommandRunner{}
}

// Run starts the command, waits for it to exit, and reports a non-zero exit through
// ExecutionResult.ExitCode. An error is returned only when the process could not run.
// Standard input is never connected; the utilities must not prompt.
func (runner *OSCommandRunner) Run(executionContext context.Context, command ShellCommand) (ExecutionResult, error) {
	process := exec.CommandContext(executionContext, string(command.Name), append([]string{}, command.Details.Arguments...)...)
	process.Env = childEnvironment(command.Details.EnvironmentVariables)

	var standardOutput, standardError bytes.Buffer
	process.Stdout = &standardOutput
	process.Stderr = &standardError

	result := ExecutionResult{}
	if runError := process.Run(); runError != nil {
		var exitError *exec.ExitError
		if !errors.As(runError, &exitError) {
			return ExecutionResult{}, runError
		}
		result.ExitCode = exitError.ExitCode()
	}

	result.StandardOutput = standardOutput.String()
	result.StandardError = standardError.String()
	return result, nil
}

func childEnvironment(overrides map[string]string) []string {
	environment := append([]string{}, os.Environ()...)
	environment = append(environment, fmt.Sprintf(environmentAssignmentTemplateConstant, localeEnvironmentNameConstant, portableLocaleConstant))

	overrideKeys := make([]string, 0, len(overrides))
	for overrideKey := range overrides {
		overrideKeys = append(overrideKeys, overrideKey)
	}
	sort.Strings(overrideKeys)
	for _, overrideKey := range overrideKeys {
		environment = append(environment, fmt.Sprintf(environmentAssignmentTemplateConstant, overrideKey, overrides[overrideKey]))
	}
	return environment
}
