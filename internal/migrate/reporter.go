package migrate

import (
	"fmt"
	"io"

	"github.com/temirov/qol-assist/internal/migrations"
)

const (
	stepStartedTemplateConstant    = "Begin migration %d: '%s'\n"
	stepSucceededTemplateConstant  = "Successful migration %d: '%s'\n"
	stepFailedLineTemplateConstant = "Failed migration %d: '%s'\n"
	performedTemplateConstant      = "Performed %d migrations\n"
	noMigrationsRequiredConstant   = "No migrations required\n"
	disarmWarningTemplateConstant  = "WARNING: Failed to remove trigger file: %v\n"
)

// ConsoleStepReporter writes migration progress lines for operators.
type ConsoleStepReporter struct {
	output      io.Writer
	errorOutput io.Writer
}

// NewConsoleStepReporter constructs a reporter writing progress to output and failures to errorOutput.
func NewConsoleStepReporter(output io.Writer, errorOutput io.Writer) *ConsoleStepReporter {
	if output == nil {
		output = io.Discard
	}
	if errorOutput == nil {
		errorOutput = output
	}
	return &ConsoleStepReporter{output: output, errorOutput: errorOutput}
}

// StepStarted implements StepObserver.
func (reporter *ConsoleStepReporter) StepStarted(step migrations.Step) {
	fmt.Fprintf(reporter.output, stepStartedTemplateConstant, step.Index, step.Name)
}

// StepSucceeded implements StepObserver.
func (reporter *ConsoleStepReporter) StepSucceeded(step migrations.Step) {
	fmt.Fprintf(reporter.output, stepSucceededTemplateConstant, step.Index, step.Name)
}

// StepFailed implements StepObserver.
func (reporter *ConsoleStepReporter) StepFailed(step migrations.Step, _ error) {
	fmt.Fprintf(reporter.errorOutput, stepFailedLineTemplateConstant, step.Index, step.Name)
}

// ReportResult writes the run summary.
func (reporter *ConsoleStepReporter) ReportResult(result Result) {
	if result.MigrationsRequired() {
		fmt.Fprintf(reporter.output, performedTemplateConstant, len(result.Performed))
	} else {
		fmt.Fprint(reporter.output, noMigrationsRequiredConstant)
	}
	if result.DisarmFailure != nil {
		fmt.Fprintf(reporter.errorOutput, disarmWarningTemplateConstant, result.DisarmFailure)
	}
}
