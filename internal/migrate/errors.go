package migrate

import "fmt"

const (
	privilegeRequiredMessageConstant = "This command must be run with root privileges."
	notArmedMessageConstant          = "Refusing to run migration without trigger file"
	stepFailedTemplateConstant       = "Failed migration %d: '%s': %v"
)

// PrivilegeError reports an attempt to run without root identity.
type PrivilegeError struct{}

// Error describes the missing privilege.
func (PrivilegeError) Error() string {
	return privilegeRequiredMessageConstant
}

// NotArmedError reports an attempt to run while the arming sentinel is absent.
type NotArmedError struct{}

// Error describes the missing sentinel.
func (NotArmedError) Error() string {
	return notArmedMessageConstant
}

// StepError reports the migration that halted a run.
type StepError struct {
	Index int
	Name  string
	Cause error
}

// Error describes the failed step.
func (stepError StepError) Error() string {
	return fmt.Sprintf(stepFailedTemplateConstant, stepError.Index, stepError.Name, stepError.Cause)
}

// Unwrap exposes the underlying cause.
func (stepError StepError) Unwrap() error {
	return stepError.Cause
}
