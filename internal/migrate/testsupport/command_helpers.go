// Package testsupport provides in-memory collaborators for migration run tests.
package testsupport

import (
	"context"

	"github.com/temirov/qol-assist/internal/accounts"
	"github.com/temirov/qol-assist/internal/migrations"
)

// ProgressStoreStub keeps the progress index in memory.
type ProgressStoreStub struct {
	Index        int
	ReadError    error
	WriteError   error
	FailWriteAt  int
	WrittenIndex []int
}

// Read returns the stored index.
func (store *ProgressStoreStub) Read() (int, error) {
	if store.ReadError != nil {
		return 0, store.ReadError
	}
	return store.Index, nil
}

// Write records index, failing when it equals FailWriteAt and WriteError is set.
func (store *ProgressStoreStub) Write(index int) error {
	if store.WriteError != nil && (store.FailWriteAt == 0 || store.FailWriteAt == index) {
		return store.WriteError
	}
	store.Index = index
	store.WrittenIndex = append(store.WrittenIndex, index)
	return nil
}

// ArmingGateStub tracks the arming flag in memory.
type ArmingGateStub struct {
	Armed       bool
	DisarmError error
	DisarmCalls int
}

// IsArmed reports the flag.
func (gate *ArmingGateStub) IsArmed() bool {
	return gate.Armed
}

// Disarm clears the flag unless DisarmError is set.
func (gate *ArmingGateStub) Disarm() error {
	gate.DisarmCalls++
	if gate.DisarmError != nil {
		return gate.DisarmError
	}
	gate.Armed = false
	return nil
}

// PrivilegeCheckerStub reports a fixed privilege decision.
type PrivilegeCheckerStub struct {
	Privileged bool
}

// IsPrivileged returns the configured decision.
func (checker PrivilegeCheckerStub) IsPrivileged() bool {
	return checker.Privileged
}

// SnapshotLoaderStub returns a fixed snapshot.
type SnapshotLoaderStub struct {
	Snapshot  *accounts.Snapshot
	LoadError error
	LoadCalls int
}

// Load returns the configured snapshot.
func (loader *SnapshotLoaderStub) Load(context.Context) (*accounts.Snapshot, error) {
	loader.LoadCalls++
	if loader.LoadError != nil {
		return nil, loader.LoadError
	}
	if loader.Snapshot == nil {
		return accounts.NewSnapshot(nil, nil), nil
	}
	return loader.Snapshot, nil
}

// GatewayStub records mutation requests without applying them.
type GatewayStub struct {
	GroupIDs      map[string]int
	AddedMembers  []string
	ChangedGroups []string
}

// AddToGroup records the request.
func (gateway *GatewayStub) AddToGroup(_ context.Context, account accounts.Account, groupName string) error {
	gateway.AddedMembers = append(gateway.AddedMembers, account.Name+":"+groupName)
	return nil
}

// GroupID returns the configured id or accounts.ErrGroupNotFound.
func (gateway *GatewayStub) GroupID(_ context.Context, groupName string) (int, error) {
	groupID, exists := gateway.GroupIDs[groupName]
	if !exists {
		return 0, accounts.ErrGroupNotFound
	}
	return groupID, nil
}

// ChangeGroupID records the request and updates the configured id.
func (gateway *GatewayStub) ChangeGroupID(_ context.Context, groupName string, groupID int) error {
	gateway.ChangedGroups = append(gateway.ChangedGroups, groupName)
	if gateway.GroupIDs == nil {
		gateway.GroupIDs = map[string]int{}
	}
	gateway.GroupIDs[groupName] = groupID
	return nil
}

// RecordingRegistry builds a registry whose steps append their index to Executed and
// fail at the indices listed in Failures.
type RecordingRegistry struct {
	Executed []int
	Failures map[int]error
}

// Build returns a registry of count recording steps.
func (recorder *RecordingRegistry) Build(count int) migrations.Registry {
	definitions := make([]migrations.Definition, 0, count)
	for index := 0; index < count; index++ {
		stepIndex := index
		definitions = append(definitions, migrations.Definition{
			Name: stepName(stepIndex),
			Run: func(context.Context, migrations.Environment) error {
				recorder.Executed = append(recorder.Executed, stepIndex)
				return recorder.Failures[stepIndex]
			},
		})
	}
	return migrations.NewRegistry(definitions...)
}

func stepName(index int) string {
	return "step-" + string(rune('a'+index))
}
