package accounts

import (
	"bufio"
	"context"
	"os"
	"slices"
	"strings"

	"github.com/moby/sys/user"
)

const (
	defaultPasswdPathConstant = "/etc/passwd"
	defaultGroupPathConstant  = "/etc/group"
	defaultShellsPathConstant = "/etc/shells"
	shellsCommentPrefix       = "#"
)

// AccountRecord is a raw account directory entry.
type AccountRecord struct {
	Name  string
	UID   int
	GID   int
	Shell string
}

// Source reads the system account directory.
type Source interface {
	Shells(executionContext context.Context) ([]string, error)
	Accounts(executionContext context.Context) ([]AccountRecord, error)
	GroupIDs(executionContext context.Context, userName string, primaryGID int) ([]int, error)
	LookupGroupByID(executionContext context.Context, groupID int) (GroupReference, error)
	LookupGroupByName(executionContext context.Context, groupName string) (GroupReference, error)
}

// SystemSource reads passwd, group, and shells databases from the local filesystem.
type SystemSource struct {
	PasswdPath string
	GroupPath  string
	ShellsPath string
}

// NewSystemSource returns a source backed by the standard /etc databases.
func NewSystemSource() SystemSource {
	return SystemSource{
		PasswdPath: defaultPasswdPathConstant,
		GroupPath:  defaultGroupPathConstant,
		ShellsPath: defaultShellsPathConstant,
	}
}

// Shells returns the registered login shells, ignoring comments and blank lines.
func (source SystemSource) Shells(executionContext context.Context) ([]string, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	shellsFile, openError := os.Open(source.ShellsPath)
	if openError != nil {
		return nil, openError
	}
	defer shellsFile.Close()

	var shells []string
	scanner := bufio.NewScanner(shellsFile)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if len(line) == 0 || strings.HasPrefix(line, shellsCommentPrefix) {
			continue
		}
		shells = append(shells, line)
	}
	if scanError := scanner.Err(); scanError != nil {
		return nil, scanError
	}
	return shells, nil
}

// Accounts enumerates every passwd entry.
func (source SystemSource) Accounts(executionContext context.Context) ([]AccountRecord, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	entries, parseError := user.ParsePasswdFile(source.PasswdPath)
	if parseError != nil {
		return nil, parseError
	}

	records := make([]AccountRecord, 0, len(entries))
	for _, entry := range entries {
		records = append(records, AccountRecord{Name: entry.Name, UID: entry.Uid, GID: entry.Gid, Shell: entry.Shell})
	}
	return records, nil
}

// GroupIDs returns the primary gid followed by every group listing the user as a member.
func (source SystemSource) GroupIDs(executionContext context.Context, userName string, primaryGID int) ([]int, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return nil, contextError
	}

	memberGroups, parseError := user.ParseGroupFileFilter(source.GroupPath, func(group user.Group) bool {
		return group.Gid != primaryGID && slices.Contains(group.List, userName)
	})
	if parseError != nil {
		return nil, parseError
	}

	groupIDs := []int{primaryGID}
	for _, group := range memberGroups {
		if !slices.Contains(groupIDs, group.Gid) {
			groupIDs = append(groupIDs, group.Gid)
		}
	}
	return groupIDs, nil
}

// LookupGroupByID resolves a numeric gid, returning ErrGroupNotFound when absent.
func (source SystemSource) LookupGroupByID(executionContext context.Context, groupID int) (GroupReference, error) {
	return source.lookupGroup(executionContext, func(group user.Group) bool {
		return group.Gid == groupID
	})
}

// LookupGroupByName resolves a group name, returning ErrGroupNotFound when absent.
func (source SystemSource) LookupGroupByName(executionContext context.Context, groupName string) (GroupReference, error) {
	return source.lookupGroup(executionContext, func(group user.Group) bool {
		return group.Name == groupName
	})
}

func (source SystemSource) lookupGroup(executionContext context.Context, filter func(user.Group) bool) (GroupReference, error) {
	if contextError := executionContext.Err(); contextError != nil {
		return GroupReference{}, contextError
	}

	groups, parseError := user.ParseGroupFileFilter(source.GroupPath, filter)
	if parseError != nil {
		return GroupReference{}, parseError
	}
	if len(groups) == 0 {
		return GroupReference{}, ErrGroupNotFound
	}
	return GroupReference{Name: groups[0].Name, GID: groups[0].Gid}, nil
}
