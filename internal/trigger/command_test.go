package trigger_test

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	migrate "github.com/temirov/qol-assist/internal/migrate"
	"github.com/temirov/qol-assist/internal/privilege"
	"github.com/temirov/qol-assist/internal/state"
	"github.com/temirov/qol-assist/internal/trigger"
)

const scheduledOutputConstant = "Migration will run on next boot\n"

type readOnlyFileSystem struct {
	state.OSFileSystem
}

func (readOnlyFileSystem) WriteFile(string, []byte, fs.FileMode) error {
	return errors.New("read-only file system")
}

func executeTrigger(testInstance *testing.T, builder trigger.CommandBuilder, arguments ...string) (string, error) {
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

func TestTriggerCommandArms(testInstance *testing.T) {
	layout := state.NewLayout(filepath.Join(testInstance.TempDir(), "qol-assist"))
	builder := trigger.CommandBuilder{
		ConfigurationProvider: func() migrate.CommandConfiguration {
			return migrate.CommandConfiguration{StateDirectory: layout.Directory}
		},
		PrivilegeChecker: privilege.StaticChecker(privilege.Identity{}),
	}

	for attempt := 0; attempt < 2; attempt++ {
		output, executionError := executeTrigger(testInstance, builder)
		require.NoError(testInstance, executionError)
		require.Equal(testInstance, scheduledOutputConstant, output)
		require.FileExists(testInstance, layout.ArmingPath())
	}

	require.NoFileExists(testInstance, layout.ProgressPath())
}

func TestTriggerCommandStateDirectoryFlag(testInstance *testing.T) {
	directory := filepath.Join(testInstance.TempDir(), "custom")
	builder := trigger.CommandBuilder{PrivilegeChecker: privilege.StaticChecker(privilege.Identity{})}

	_, executionError := executeTrigger(testInstance, builder, "--state-dir", directory)
	require.NoError(testInstance, executionError)
	require.FileExists(testInstance, state.NewLayout(directory).ArmingPath())
}

func TestTriggerCommandFailures(testInstance *testing.T) {
	testInstance.Run("unprivileged", func(testInstance *testing.T) {
		directory := filepath.Join(testInstance.TempDir(), "qol-assist")
		builder := trigger.CommandBuilder{
			ConfigurationProvider: func() migrate.CommandConfiguration {
				return migrate.CommandConfiguration{StateDirectory: directory}
			},
			PrivilegeChecker: privilege.StaticChecker(privilege.Identity{UserID: 1000, GroupID: 1000}),
		}

		output, executionError := executeTrigger(testInstance, builder)
		require.ErrorAs(testInstance, executionError, &migrate.PrivilegeError{})
		require.Empty(testInstance, output)
		_, statError := os.Stat(directory)
		require.True(testInstance, os.IsNotExist(statError))
	})

	testInstance.Run("sentinel_not_written", func(testInstance *testing.T) {
		directory := filepath.Join(testInstance.TempDir(), "qol-assist")
		builder := trigger.CommandBuilder{
			ConfigurationProvider: func() migrate.CommandConfiguration {
				return migrate.CommandConfiguration{StateDirectory: directory}
			},
			PrivilegeChecker: privilege.StaticChecker(privilege.Identity{}),
			FileSystem:       readOnlyFileSystem{},
		}

		output, executionError := executeTrigger(testInstance, builder)
		var persistenceError state.PersistenceError
		require.ErrorAs(testInstance, executionError, &persistenceError)
		require.Empty(testInstance, output)
	})
}
