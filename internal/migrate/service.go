package migrate

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/migrations"
)

const (
	progressStoreMissingMessageConstant    = "progress store not configured"
	armingGateMissingMessageConstant       = "arming gate not configured"
	privilegeCheckerMissingMessageConstant = "privilege checker not configured"
	snapshotLoaderMissingMessageConstant   = "account snapshot loader not configured"
	gatewayMissingMessageConstant          = "account gateway not configured"
	progressClampedMessageConstant         = "Progress marker beyond registry, clamping"
	runRefusedMessageConstant              = "Migration run refused"
	migrationStartedMessageConstant        = "Migration started"
	migrationSucceededMessageConstant      = "Migration succeeded"
	migrationFailedMessageConstant         = "Migration failed"
	runCompletedMessageConstant            = "Migration run completed"
	disarmFailedMessageConstant            = "Failed to remove arming sentinel"
	logFieldIndexConstant                  = "index"
	logFieldNameConstant                   = "name"
	logFieldStartIndexConstant             = "start_index"
	logFieldRegistryLengthConstant         = "registry_length"
	logFieldPerformedConstant              = "performed"
)

// ProgressStore persists the next migration index.
type ProgressStore interface {
	Read() (int, error)
	Write(index int) error
}

// ArmingGate reports and clears the arming sentinel.
type ArmingGate interface {
	IsArmed() bool
	Disarm() error
}

// PrivilegeChecker reports whether the process holds root identity.
type PrivilegeChecker interface {
	IsPrivileged() bool
}

// SnapshotLoader reads the account directory.
type SnapshotLoader interface {
	Load(executionContext context.Context) (*accounts.Snapshot, error)
}

// StepObserver receives migration lifecycle notifications.
type StepObserver interface {
	StepStarted(step migrations.Step)
	StepSucceeded(step migrations.Step)
	StepFailed(step migrations.Step, failure error)
}

type noopStepObserver struct{}

func (noopStepObserver) StepStarted(migrations.Step)       {}
func (noopStepObserver) StepSucceeded(migrations.Step)     {}
func (noopStepObserver) StepFailed(migrations.Step, error) {}

// ServiceDependencies describes required collaborators for a migration run.
type ServiceDependencies struct {
	Logger         *zap.Logger
	Registry       migrations.Registry
	Progress       ProgressStore
	Arming         ArmingGate
	Privilege      PrivilegeChecker
	SnapshotLoader SnapshotLoader
	Gateway        migrations.AccountGateway
	Observer       StepObserver
}

// Result captures the observable outcome of a run.
type Result struct {
	StartIndex    int
	EndIndex      int
	Performed     []int
	DisarmFailure error
}

// MigrationsRequired reports whether the run applied any migration.
func (result Result) MigrationsRequired() bool {
	return len(result.Performed) > 0
}

// Service runs pending migrations in registry order, persisting progress after each.
type Service struct {
	logger         *zap.Logger
	registry       migrations.Registry
	progress       ProgressStore
	arming         ArmingGate
	privilege      PrivilegeChecker
	snapshotLoader SnapshotLoader
	gateway        migrations.AccountGateway
	observer       StepObserver
}

var (
	errProgressStoreMissing    = errors.New(progressStoreMissingMessageConstant)
	errArmingGateMissing       = errors.New(armingGateMissingMessageConstant)
	errPrivilegeCheckerMissing = errors.New(privilegeCheckerMissingMessageConstant)
	errSnapshotLoaderMissing   = errors.New(snapshotLoaderMissingMessageConstant)
	errGatewayMissing          = errors.New(gatewayMissingMessageConstant)
)

// NewService constructs a Service with the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.Progress == nil {
		return nil, errProgressStoreMissing
	}
	if dependencies.Arming == nil {
		return nil, errArmingGateMissing
	}
	if dependencies.Privilege == nil {
		return nil, errPrivilegeCheckerMissing
	}
	if dependencies.SnapshotLoader == nil {
		return nil, errSnapshotLoaderMissing
	}
	if dependencies.Gateway == nil {
		return nil, errGatewayMissing
	}

	logger := dependencies.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	observer := dependencies.Observer
	if observer == nil {
		observer = noopStepObserver{}
	}

	return &Service{
		logger:         logger,
		registry:       dependencies.Registry,
		progress:       dependencies.Progress,
		arming:         dependencies.Arming,
		privilege:      dependencies.Privilege,
		snapshotLoader: dependencies.SnapshotLoader,
		gateway:        dependencies.Gateway,
		observer:       observer,
	}, nil
}

// Run applies every migration from the persisted index to the end of the registry.
// It refuses to start unless the process is privileged and the run is armed, halts
// on the first failed step leaving progress at that step and the run armed, and
// disarms once the registry is exhausted.
func (service *Service) Run(executionContext context.Context) (Result, error) {
	if !service.privilege.IsPrivileged() {
		service.logger.Warn(runRefusedMessageConstant, zap.Error(PrivilegeError{}))
		return Result{}, PrivilegeError{}
	}
	if !service.arming.IsArmed() {
		service.logger.Warn(runRefusedMessageConstant, zap.Error(NotArmedError{}))
		return Result{}, NotArmedError{}
	}

	startIndex, readError := service.progress.Read()
	if readError != nil {
		return Result{}, readError
	}
	registryLength := service.registry.Len()
	if startIndex > registryLength {
		service.logger.Warn(
			progressClampedMessageConstant,
			zap.Int(logFieldStartIndexConstant, startIndex),
			zap.Int(logFieldRegistryLengthConstant, registryLength),
		)
		startIndex = registryLength
	}

	result := Result{StartIndex: startIndex, EndIndex: startIndex, Performed: []int{}}

	if startIndex < registryLength {
		snapshot, loadError := service.snapshotLoader.Load(executionContext)
		if loadError != nil {
			return result, loadError
		}
		environment := migrations.Environment{Snapshot: snapshot, Gateway: service.gateway, Logger: service.logger}

		for index := startIndex; index < registryLength; index++ {
			step, _ := service.registry.Step(index)
			if stepError := service.runStep(executionContext, step, environment); stepError != nil {
				return result, stepError
			}
			if writeError := service.progress.Write(index + 1); writeError != nil {
				return result, writeError
			}
			result.EndIndex = index + 1
			result.Performed = append(result.Performed, index)
		}
	}

	service.logger.Info(
		runCompletedMessageConstant,
		zap.Int(logFieldStartIndexConstant, result.StartIndex),
		zap.Ints(logFieldPerformedConstant, result.Performed),
	)

	if disarmError := service.arming.Disarm(); disarmError != nil {
		service.logger.Warn(disarmFailedMessageConstant, zap.Error(disarmError))
		result.DisarmFailure = disarmError
	}
	return result, nil
}

func (service *Service) runStep(executionContext context.Context, step migrations.Step, environment migrations.Environment) error {
	service.observer.StepStarted(step)
	service.logger.Debug(migrationStartedMessageConstant, zap.Int(logFieldIndexConstant, step.Index), zap.String(logFieldNameConstant, step.Name))

	var stepError error
	if contextError := executionContext.Err(); contextError != nil {
		stepError = contextError
	} else if step.Run == nil {
		stepError = migrations.ErrActionNotConfigured
	} else {
		stepError = step.Run(executionContext, environment)
	}

	if stepError != nil {
		service.observer.StepFailed(step, stepError)
		service.logger.Error(
			migrationFailedMessageConstant,
			zap.Int(logFieldIndexConstant, step.Index),
			zap.String(logFieldNameConstant, step.Name),
			zap.Error(stepError),
		)
		return StepError{Index: step.Index, Name: step.Name, Cause: stepError}
	}

	service.observer.StepSucceeded(step)
	service.logger.Info(migrationSucceededMessageConstant, zap.Int(logFieldIndexConstant, step.Index), zap.String(logFieldNameConstant, step.Name))
	return nil
}
