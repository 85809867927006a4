package accounts_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/accounts/testsupport"
)

const (
	testBashShellConstant        = "/bin/bash"
	testNologinConstant          = "/usr/sbin/nologin"
	testStaleGroupIDConstant     = 4242
	testDirectoryFailureConstant = "permission denied"
	testUsersGroupConstant       = "users"
)

func newDirectoryFixture() *testsupport.SourceStub {
	return &testsupport.SourceStub{
		ShellPaths: []string{testBashShellConstant, "/bin/zsh"},
		Records: []accounts.AccountRecord{
			{Name: "root", UID: 0, GID: 0, Shell: testBashShellConstant},
			{Name: "daemon", UID: 2, GID: 2, Shell: testNologinConstant},
			{Name: "alice", UID: 1000, GID: 100, Shell: testBashShellConstant},
			{Name: "bob", UID: 1001, GID: testStaleGroupIDConstant, Shell: "/bin/zsh"},
		},
		Groups: []testsupport.GroupEntry{
			{Name: "root", GID: 0},
			{Name: "daemon", GID: 2},
			{Name: testUsersGroupConstant, GID: 100},
			{Name: "sudo", GID: 27, Members: []string{"alice"}},
			{Name: "audio", GID: 29, Members: []string{"alice", "bob"}},
		},
	}
}

func TestLoaderLoadBuildsAccounts(testInstance *testing.T) {
	observerCore, observedLogs := observer.New(zapcore.WarnLevel)
	loader, loaderError := accounts.NewLoader(newDirectoryFixture(), zap.New(observerCore))
	require.NoError(testInstance, loaderError)

	snapshot, loadError := loader.Load(context.Background())
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, 4, snapshot.Len())
	require.Equal(testInstance, []string{testBashShellConstant, "/bin/zsh"}, snapshot.Shells())

	alice, aliceFound := snapshot.Lookup("alice")
	require.True(testInstance, aliceFound)
	require.Equal(testInstance, []string{testUsersGroupConstant, "sudo", "audio"}, alice.Groups)
	require.True(testInstance, alice.ValidShell)

	daemon, daemonFound := snapshot.Lookup("daemon")
	require.True(testInstance, daemonFound)
	require.False(testInstance, daemon.ValidShell)

	bob, bobFound := snapshot.Lookup("bob")
	require.True(testInstance, bobFound)
	require.Equal(testInstance, []string{"audio"}, bob.Groups)

	warnings := observedLogs.All()
	require.Len(testInstance, warnings, 1)
	require.Equal(testInstance, "bob", warnings[0].ContextMap()["user"])
	require.EqualValues(testInstance, testStaleGroupIDConstant, warnings[0].ContextMap()["gid"])
}

func TestLoaderLoadFailures(testInstance *testing.T) {
	failure := errors.New(testDirectoryFailureConstant)

	testCases := []struct {
		name      string
		configure func(source *testsupport.SourceStub)
	}{
		{name: "shells_unreadable", configure: func(source *testsupport.SourceStub) { source.ShellsError = failure }},
		{name: "accounts_unreadable", configure: func(source *testsupport.SourceStub) { source.AccountsError = failure }},
		{name: "group_list_unreadable", configure: func(source *testsupport.SourceStub) { source.GroupIDsError = failure }},
		{name: "group_lookup_failed", configure: func(source *testsupport.SourceStub) { source.LookupError = failure }},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			source := newDirectoryFixture()
			testCase.configure(source)
			loader, loaderError := accounts.NewLoader(source, nil)
			require.NoError(testInstance, loaderError)

			snapshot, loadError := loader.Load(context.Background())
			require.Nil(testInstance, snapshot)

			var readError accounts.DirectoryReadError
			require.ErrorAs(testInstance, loadError, &readError)
			require.ErrorIs(testInstance, loadError, failure)
		})
	}
}

func TestLoaderLoadReplacesSnapshotWholesale(testInstance *testing.T) {
	source := newDirectoryFixture()
	loader, loaderError := accounts.NewLoader(source, nil)
	require.NoError(testInstance, loaderError)

	firstSnapshot, firstError := loader.Load(context.Background())
	require.NoError(testInstance, firstError)

	source.ShellPaths = []string{"/bin/zsh"}
	secondSnapshot, secondError := loader.Load(context.Background())
	require.NoError(testInstance, secondError)

	firstAlice, _ := firstSnapshot.Lookup("alice")
	secondAlice, _ := secondSnapshot.Lookup("alice")
	require.True(testInstance, firstAlice.ValidShell)
	require.False(testInstance, secondAlice.ValidShell)
	require.Equal(testInstance, 2, source.ShellsCalls)
}

func TestLoaderResolveGroupsReflectsMutations(testInstance *testing.T) {
	source := newDirectoryFixture()
	loader, loaderError := accounts.NewLoader(source, nil)
	require.NoError(testInstance, loaderError)

	snapshot, loadError := loader.Load(context.Background())
	require.NoError(testInstance, loadError)
	bob, _ := snapshot.Lookup("bob")
	require.False(testInstance, accounts.InGroup(bob, "sudo"))

	require.True(testInstance, source.AddMember("sudo", "bob"))
	refreshedGroups, resolveError := loader.ResolveGroups(context.Background(), bob)
	require.NoError(testInstance, resolveError)
	require.Contains(testInstance, refreshedGroups, "sudo")

	unchangedBob, _ := snapshot.Lookup("bob")
	require.NotContains(testInstance, unchangedBob.Groups, "sudo")
}

func TestLoaderLookupGroup(testInstance *testing.T) {
	source := newDirectoryFixture()
	loader, loaderError := accounts.NewLoader(source, nil)
	require.NoError(testInstance, loaderError)

	group, lookupError := loader.LookupGroup(context.Background(), testUsersGroupConstant)
	require.NoError(testInstance, lookupError)
	require.Equal(testInstance, 100, group.GID)

	_, missingError := loader.LookupGroup(context.Background(), "plugdev")
	require.ErrorIs(testInstance, missingError, accounts.ErrGroupNotFound)

	source.LookupError = errors.New(testDirectoryFailureConstant)
	_, failedError := loader.LookupGroup(context.Background(), testUsersGroupConstant)
	var readError accounts.DirectoryReadError
	require.ErrorAs(testInstance, failedError, &readError)
	require.Equal(testInstance, testUsersGroupConstant, readError.Subject)
}

func TestNewLoaderRequiresSource(testInstance *testing.T) {
	loader, loaderError := accounts.NewLoader(nil, nil)
	require.Nil(testInstance, loader)
	require.ErrorIs(testInstance, loaderError, accounts.ErrSourceNotConfigured)
}
