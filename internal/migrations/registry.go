package migrations

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/qol-assist/internal/accounts"
)

const (
	snapshotNotConfiguredMessageConstant = "migration environment snapshot not configured"
	gatewayNotConfiguredMessageConstant  = "migration environment gateway not configured"
	actionNotConfiguredMessageConstant   = "migration action not configured"
)

var (
	// ErrSnapshotNotConfigured indicates a step ran without an account snapshot.
	ErrSnapshotNotConfigured = errors.New(snapshotNotConfiguredMessageConstant)
	// ErrGatewayNotConfigured indicates a step ran without a mutation gateway.
	ErrGatewayNotConfigured = errors.New(gatewayNotConfiguredMessageConstant)
	// ErrActionNotConfigured indicates a registered step has no action.
	ErrActionNotConfigured = errors.New(actionNotConfiguredMessageConstant)
)

// AccountGateway performs the privileged mutations available to steps.
type AccountGateway interface {
	AddToGroup(executionContext context.Context, account accounts.Account, groupName string) error
	GroupID(executionContext context.Context, groupName string) (int, error)
	ChangeGroupID(executionContext context.Context, groupName string, groupID int) error
}

// Environment carries the collaborators a step operates against.
type Environment struct {
	Snapshot *accounts.Snapshot
	Gateway  AccountGateway
	Logger   *zap.Logger
}

func (environment Environment) logger() *zap.Logger {
	if environment.Logger == nil {
		return zap.NewNop()
	}
	return environment.Logger
}

func (environment Environment) validate() error {
	if environment.Snapshot == nil {
		return ErrSnapshotNotConfigured
	}
	if environment.Gateway == nil {
		return ErrGatewayNotConfigured
	}
	return nil
}

// Action applies one migration. It reports success or failure only.
type Action func(executionContext context.Context, environment Environment) error

// Step is a named migration at a fixed registry position.
type Step struct {
	Index int
	Name  string
	Run   Action
}

// Definition names an action prior to registration.
type Definition struct {
	Name string
	Run  Action
}

// Registry is an ordered, immutable list of steps addressed by index.
type Registry struct {
	steps []Step
}

// NewRegistry assigns indices to definitions by position.
func NewRegistry(definitions ...Definition) Registry {
	steps := make([]Step, 0, len(definitions))
	for index, definition := range definitions {
		steps = append(steps, Step{Index: index, Name: definition.Name, Run: definition.Run})
	}
	return Registry{steps: steps}
}

// Len reports the number of registered steps.
func (registry Registry) Len() int {
	return len(registry.steps)
}

// Step returns the step at index.
func (registry Registry) Step(index int) (Step, bool) {
	if index < 0 || index >= len(registry.steps) {
		return Step{}, false
	}
	return registry.steps[index], true
}

// Steps returns a copy of the registered steps in order.
func (registry Registry) Steps() []Step {
	return append([]Step{}, registry.steps...)
}
