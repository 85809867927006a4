package privilege_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/qol-assist/internal/privilege"
)

func TestStaticCheckerRequiresRootUserAndGroup(testInstance *testing.T) {
	testCases := []struct {
		name             string
		identity         privilege.Identity
		expectPrivileged bool
	}{
		{name: "root", identity: privilege.Identity{}, expectPrivileged: true},
		{name: "root_user_other_group", identity: privilege.Identity{GroupID: 100}},
		{name: "other_user_root_group", identity: privilege.Identity{UserID: 1000}},
		{name: "unprivileged", identity: privilege.Identity{UserID: 1000, GroupID: 1000}},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			require.Equal(testInstance, testCase.expectPrivileged, privilege.StaticChecker(testCase.identity).IsPrivileged())
		})
	}
}

func TestEffectiveIdentityMatchesProcess(testInstance *testing.T) {
	identity := privilege.EffectiveIdentity()
	require.Equal(testInstance, os.Geteuid(), identity.UserID)
	require.Equal(testInstance, os.Getegid(), identity.GroupID)

	expected := os.Geteuid() == 0 && os.Getegid() == 0
	require.Equal(testInstance, expected, privilege.NewChecker(nil).IsPrivileged())
	require.Equal(testInstance, expected, privilege.Checker{}.IsPrivileged())
}
