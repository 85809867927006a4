package accounts_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/qol-assist/internal/accounts"
)

const (
	testPasswdContentConstant = "root:x:0:0:root:/root:/bin/bash\n" +
		"daemon:x:1:1:daemon:/usr/sbin:/usr/sbin/nologin\n" +
		"alice:x:1000:1000:Alice:/home/alice:/bin/bash\n"
	testGroupContentConstant = "root:x:0:\n" +
		"sudo:x:27:alice\n" +
		"users:x:100:\n" +
		"alice:x:1000:\n" +
		"scanner:x:964:alice,bob\n"
	testShellsContentConstant = "# /etc/shells: valid login shells\n\n/bin/sh\n  /bin/bash  \n"
)

func writeSystemDatabases(testInstance *testing.T) accounts.SystemSource {
	testInstance.Helper()
	directory := testInstance.TempDir()
	source := accounts.SystemSource{
		PasswdPath: filepath.Join(directory, "passwd"),
		GroupPath:  filepath.Join(directory, "group"),
		ShellsPath: filepath.Join(directory, "shells"),
	}
	require.NoError(testInstance, os.WriteFile(source.PasswdPath, []byte(testPasswdContentConstant), 0o644))
	require.NoError(testInstance, os.WriteFile(source.GroupPath, []byte(testGroupContentConstant), 0o644))
	require.NoError(testInstance, os.WriteFile(source.ShellsPath, []byte(testShellsContentConstant), 0o644))
	return source
}

func TestSystemSourceReadsDatabases(testInstance *testing.T) {
	source := writeSystemDatabases(testInstance)
	executionContext := context.Background()

	shells, shellsError := source.Shells(executionContext)
	require.NoError(testInstance, shellsError)
	require.Equal(testInstance, []string{"/bin/sh", "/bin/bash"}, shells)

	records, recordsError := source.Accounts(executionContext)
	require.NoError(testInstance, recordsError)
	require.Len(testInstance, records, 3)
	require.Equal(testInstance, accounts.AccountRecord{Name: "alice", UID: 1000, GID: 1000, Shell: "/bin/bash"}, records[2])

	groupIDs, groupIDsError := source.GroupIDs(executionContext, "alice", 1000)
	require.NoError(testInstance, groupIDsError)
	require.Equal(testInstance, []int{1000, 27, 964}, groupIDs)

	group, lookupError := source.LookupGroupByName(executionContext, "users")
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, accounts.GroupReference{Name: "users", GID: 100}, group)

	group, lookupError = source.LookupGroupByID(executionContext, 964)
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, "scanner", group.Name)

	_, missingError := source.LookupGroupByName(executionContext, "plugdev")
	require.ErrorIs(testInstance, missingError, accounts.ErrGroupNotFound)
}

func TestSystemSourceMissingFiles(testInstance *testing.T) {
	directory := testInstance.TempDir()
	source := accounts.SystemSource{
		PasswdPath: filepath.Join(directory, "passwd"),
		GroupPath:  filepath.Join(directory, "group"),
		ShellsPath: filepath.Join(directory, "shells"),
	}
	executionContext := context.Background()

	_, shellsError := source.Shells(executionContext)
	require.Error(testInstance, shellsError)
	_, recordsError := source.Accounts(executionContext)
	require.Error(testInstance, recordsError)
	_, lookupError := source.LookupGroupByID(executionContext, 0)
	require.Error(testInstance, lookupError)
	require.NotErrorIs(testInstance, lookupError, accounts.ErrGroupNotFound)
}

func TestSystemSourceHonorsCancellation(testInstance *testing.T) {
	source := writeSystemDatabases(testInstance)
	cancelledContext, cancel := context.WithCancel(context.Background())
	cancel()

	_, shellsError := source.Shells(cancelledContext)
	require.ErrorIs(testInstance, shellsError, context.Canceled)
}

func TestLoaderOverSystemSource(testInstance *testing.T) {
	loader, loaderError := accounts.NewLoader(writeSystemDatabases(testInstance), nil)
	require.NoError(testInstance, loaderError)

	snapshot, loadError := loader.Load(context.Background())
	require.NoError(testInstance, loadError)

	alice, found := snapshot.Lookup("alice")
	require.True(testInstance, found)
	require.True(testInstance, accounts.IsActive(alice))
	require.True(testInstance, accounts.IsAdmin(alice))
	require.Equal(testInstance, []string{"alice", "sudo", "scanner"}, alice.Groups)

	daemon, found := snapshot.Lookup("daemon")
	require.True(testInstance, found)
	require.False(testInstance, daemon.ValidShell)
	require.Empty(testInstance, daemon.Groups)
}
