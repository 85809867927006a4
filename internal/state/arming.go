package state

import (
	"errors"
	"io/fs"

	"go.uber.org/zap"
)

const (
	armOperationConstant        = "create arming sentinel"
	disarmOperationConstant     = "remove arming sentinel"
	armedMessageConstant        = "Armed migration run"
	alreadyArmedMessageConstant = "Migration run already armed"
	disarmedMessageConstant     = "Disarmed migration run"
)

// ArmingGate controls the sentinel that must exist before migrations run.
type ArmingGate struct {
	fileSystem FileSystem
	layout     Layout
	logger     *zap.Logger
}

// NewArmingGate constructs an ArmingGate. A nil file system uses OSFileSystem.
func NewArmingGate(fileSystem FileSystem, layout Layout, logger *zap.Logger) *ArmingGate {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArmingGate{fileSystem: fileSystem, layout: layout, logger: logger}
}

// IsArmed reports whether the sentinel exists.
func (gate *ArmingGate) IsArmed() bool {
	_, statError := gate.fileSystem.Stat(gate.layout.ArmingPath())
	return statError == nil
}

// Arm creates the state directory and an empty sentinel. Arming twice succeeds.
func (gate *ArmingGate) Arm() error {
	armingPath := gate.layout.ArmingPath()
	if gate.IsArmed() {
		gate.logger.Debug(alreadyArmedMessageConstant, zap.String(logFieldPathConstant, armingPath))
		return nil
	}

	if mkdirError := gate.fileSystem.MkdirAll(gate.layout.Directory, directoryPermissionsConstant); mkdirError != nil {
		return PersistenceError{Operation: createDirectoryOperationConstant, Path: gate.layout.Directory, Cause: mkdirError}
	}
	if writeError := gate.fileSystem.WriteFile(armingPath, nil, filePermissionsConstant); writeError != nil {
		return PersistenceError{Operation: armOperationConstant, Path: armingPath, Cause: writeError}
	}

	gate.logger.Info(armedMessageConstant, zap.String(logFieldPathConstant, armingPath))
	return nil
}

// Disarm removes the sentinel. A missing sentinel is not an error.
func (gate *ArmingGate) Disarm() error {
	armingPath := gate.layout.ArmingPath()
	if removeError := gate.fileSystem.Remove(armingPath); removeError != nil && !errors.Is(removeError, fs.ErrNotExist) {
		return PersistenceError{Operation: disarmOperationConstant, Path: armingPath, Cause: removeError}
	}
	gate.logger.Info(disarmedMessageConstant, zap.String(logFieldPathConstant, armingPath))
	return nil
}
