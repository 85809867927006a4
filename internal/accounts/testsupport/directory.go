// Package testsupport provides an in-memory account directory and a command runner
// that applies usermod/groupmod invocations to it.
package testsupport

import (
	"context"
	"slices"
	"strconv"

	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/execshell"
)

// GroupEntry is a group stored by SourceStub.
type GroupEntry struct {
	Name    string
	GID     int
	Members []string
}

// SourceStub implements accounts.Source over mutable in-memory data.
type SourceStub struct {
	ShellPaths    []string
	Records       []accounts.AccountRecord
	Groups        []GroupEntry
	ShellsError   error
	AccountsError error
	GroupIDsError error
	LookupError   error
	ShellsCalls   int
}

// Shells returns the configured shells.
func (source *SourceStub) Shells(context.Context) ([]string, error) {
	source.ShellsCalls++
	if source.ShellsError != nil {
		return nil, source.ShellsError
	}
	return append([]string{}, source.ShellPaths...), nil
}

// Accounts returns the configured account records.
func (source *SourceStub) Accounts(context.Context) ([]accounts.AccountRecord, error) {
	if source.AccountsError != nil {
		return nil, source.AccountsError
	}
	return append([]accounts.AccountRecord{}, source.Records...), nil
}

// GroupIDs returns the primary gid followed by the gids of groups listing the user.
func (source *SourceStub) GroupIDs(_ context.Context, userName string, primaryGID int) ([]int, error) {
	if source.GroupIDsError != nil {
		return nil, source.GroupIDsError
	}
	groupIDs := []int{primaryGID}
	for _, group := range source.Groups {
		if slices.Contains(group.Members, userName) && !slices.Contains(groupIDs, group.GID) {
			groupIDs = append(groupIDs, group.GID)
		}
	}
	return groupIDs, nil
}

// LookupGroupByID resolves a gid.
func (source *SourceStub) LookupGroupByID(_ context.Context, groupID int) (accounts.GroupReference, error) {
	if source.LookupError != nil {
		return accounts.GroupReference{}, source.LookupError
	}
	for _, group := range source.Groups {
		if group.GID == groupID {
			return accounts.GroupReference{Name: group.Name, GID: group.GID}, nil
		}
	}
	return accounts.GroupReference{}, accounts.ErrGroupNotFound
}

// LookupGroupByName resolves a group name.
func (source *SourceStub) LookupGroupByName(_ context.Context, groupName string) (accounts.GroupReference, error) {
	if source.LookupError != nil {
		return accounts.GroupReference{}, source.LookupError
	}
	for _, group := range source.Groups {
		if group.Name == groupName {
			return accounts.GroupReference{Name: group.Name, GID: group.GID}, nil
		}
	}
	return accounts.GroupReference{}, accounts.ErrGroupNotFound
}

// AddMember appends userName to the named group, reporting whether the group exists.
func (source *SourceStub) AddMember(groupName string, userName string) bool {
	for index := range source.Groups {
		if source.Groups[index].Name != groupName {
			continue
		}
		if !slices.Contains(source.Groups[index].Members, userName) {
			source.Groups[index].Members = append(source.Groups[index].Members, userName)
		}
		return true
	}
	return false
}

// SetGroupID changes the gid of the named group, reporting whether the group exists.
func (source *SourceStub) SetGroupID(groupName string, groupID int) bool {
	for index := range source.Groups {
		if source.Groups[index].Name == groupName {
			source.Groups[index].GID = groupID
			return true
		}
	}
	return false
}

// DirectoryCommandRunner implements execshell.CommandRunner by applying usermod and
// groupmod argument vectors to a SourceStub.
type DirectoryCommandRunner struct {
	Source        *SourceStub
	ExitCode      int
	RunError      error
	SkipApply     bool
	ExecutedNames []execshell.CommandName
	ExecutedArgs  [][]string
}

// Run records the command and, unless configured otherwise, applies its effect.
func (runner *DirectoryCommandRunner) Run(_ context.Context, command execshell.ShellCommand) (execshell.ExecutionResult, error) {
	arguments := append([]string{}, command.Details.Arguments...)
	runner.ExecutedNames = append(runner.ExecutedNames, command.Name)
	runner.ExecutedArgs = append(runner.ExecutedArgs, arguments)

	if runner.RunError != nil {
		return execshell.ExecutionResult{}, runner.RunError
	}
	if runner.ExitCode != 0 {
		return execshell.ExecutionResult{ExitCode: runner.ExitCode, StandardError: "simulated failure"}, nil
	}
	if runner.SkipApply || runner.Source == nil {
		return execshell.ExecutionResult{}, nil
	}

	switch command.Name {
	case execshell.CommandUserMod:
		if len(arguments) == 4 && arguments[0] == "-a" && arguments[1] == "-G" {
			if !runner.Source.AddMember(arguments[2], arguments[3]) {
				return execshell.ExecutionResult{ExitCode: 6}, nil
			}
		}
	case execshell.CommandGroupMod:
		if len(arguments) == 3 && arguments[0] == "-g" {
			groupID, parseError := strconv.Atoi(arguments[1])
			if parseError != nil || !runner.Source.SetGroupID(arguments[2], groupID) {
				return execshell.ExecutionResult{ExitCode: 6}, nil
			}
		}
	}
	return execshell.ExecutionResult{}, nil
}

// CountFor reports how many times the named utility ran.
func (runner *DirectoryCommandRunner) CountFor(commandName execshell.CommandName) int {
	count := 0
	for _, executedName := range runner.ExecutedNames {
		if executedName == commandName {
			count++
		}
	}
	return count
}
