package migrations_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/qol-assist/internal/migrations"
)

func TestNewRegistryAssignsIndicesByPosition(testInstance *testing.T) {
	noop := func(context.Context, migrations.Environment) error { return nil }
	registry := migrations.NewRegistry(
		migrations.Definition{Name: "first", Run: noop},
		migrations.Definition{Name: "second", Run: noop},
	)

	require.Equal(testInstance, 2, registry.Len())
	for index, step := range registry.Steps() {
		require.Equal(testInstance, index, step.Index)
	}

	second, found := registry.Step(1)
	require.True(testInstance, found)
	require.Equal(testInstance, "second", second.Name)

	_, found = registry.Step(2)
	require.False(testInstance, found)
	_, found = registry.Step(-1)
	require.False(testInstance, found)
}

func TestRegistryStepsReturnsCopy(testInstance *testing.T) {
	registry := migrations.NewRegistry(migrations.Definition{Name: "only"})
	steps := registry.Steps()
	steps[0].Name = "mutated"

	step, _ := registry.Step(0)
	require.Equal(testInstance, "only", step.Name)
}

func TestDefaultRegistryOrder(testInstance *testing.T) {
	registry := migrations.DefaultRegistry()

	names := make([]string, 0, registry.Len())
	for _, step := range registry.Steps() {
		require.NotNil(testInstance, step.Run)
		names = append(names, step.Name)
	}
	require.Equal(testInstance, []string{
		"Add users to scanner group",
		"Add users to plugdev group",
		"Fix users group GID",
	}, names)
}
