package state

import (
	"errors"
	"io/fs"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	readOperationConstant            = "read progress marker"
	writeOperationConstant           = "write progress marker"
	createDirectoryOperationConstant = "create state directory"
	malformedProgressMessageConstant = "Ignoring malformed progress marker"
	negativeIndexMessageConstant     = "negative index"
	progressPersistedMessageConstant = "Persisted migration progress"
	logFieldPathConstant             = "path"
	logFieldContentConstant          = "content"
	logFieldIndexConstant            = "index"
	progressLineTerminatorConstant   = "\n"
)

// ProgressTracker persists the index of the next migration to run.
type ProgressTracker struct {
	fileSystem FileSystem
	layout     Layout
	logger     *zap.Logger
}

// NewProgressTracker constructs a ProgressTracker. A nil file system uses OSFileSystem.
func NewProgressTracker(fileSystem FileSystem, layout Layout, logger *zap.Logger) *ProgressTracker {
	if fileSystem == nil {
		fileSystem = OSFileSystem{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProgressTracker{fileSystem: fileSystem, layout: layout, logger: logger}
}

// Read returns the persisted index. A missing marker reads as zero, as does a marker
// that is not a non-negative decimal integer.
func (tracker *ProgressTracker) Read() (int, error) {
	progressPath := tracker.layout.ProgressPath()
	contents, readError := tracker.fileSystem.ReadFile(progressPath)
	if readError != nil {
		if errors.Is(readError, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, PersistenceError{Operation: readOperationConstant, Path: progressPath, Cause: readError}
	}

	trimmed := strings.TrimSpace(string(contents))
	index, parseError := strconv.Atoi(trimmed)
	if parseError == nil && index < 0 {
		parseError = errors.New(negativeIndexMessageConstant)
	}
	if parseError != nil {
		tracker.logger.Warn(
			malformedProgressMessageConstant,
			zap.String(logFieldPathConstant, progressPath),
			zap.String(logFieldContentConstant, trimmed),
			zap.Error(parseError),
		)
		return 0, nil
	}
	return index, nil
}

// Write atomically replaces the marker with index, creating the state directory first.
func (tracker *ProgressTracker) Write(index int) error {
	if mkdirError := tracker.fileSystem.MkdirAll(tracker.layout.Directory, directoryPermissionsConstant); mkdirError != nil {
		return PersistenceError{Operation: createDirectoryOperationConstant, Path: tracker.layout.Directory, Cause: mkdirError}
	}

	progressPath := tracker.layout.ProgressPath()
	contents := []byte(strconv.Itoa(index) + progressLineTerminatorConstant)
	if writeError := tracker.fileSystem.WriteFile(progressPath, contents, filePermissionsConstant); writeError != nil {
		return PersistenceError{Operation: writeOperationConstant, Path: progressPath, Cause: writeError}
	}

	tracker.logger.Debug(
		progressPersistedMessageConstant,
		zap.String(logFieldPathConstant, progressPath),
		zap.Int(logFieldIndexConstant, index),
	)
	return nil
}
