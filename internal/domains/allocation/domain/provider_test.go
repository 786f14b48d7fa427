package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewProvider_Validates(t *testing.T) {
	_, err := NewProvider(0, "north crew", nil)
	require.ErrorIs(t, err, ErrInvalidProviderID)

	_, err = NewProvider(9, " ", nil)
	require.ErrorIs(t, err, ErrEmptyProviderName)
}

func TestProvider_ServiceSet(t *testing.T) {
	assembly := mustTestService(t, 20, "assembly", 15, 2)
	mounting := mustTestService(t, 21, "mounting", 20, 2)

	provider, err := NewProvider(9, "north crew", []Service{assembly})
	require.NoError(t, err)

	require.True(t, provider.CanPerform(assembly))
	require.False(t, provider.CanPerform(mounting))

	require.True(t, provider.AddService(mounting))
	require.False(t, provider.AddService(mounting))
	require.True(t, provider.CanPerform(mounting))

	require.True(t, provider.RemoveService(assembly))
	require.False(t, provider.RemoveService(assembly))
	require.False(t, provider.CanPerform(assembly))
}

func TestProvider_AssignRelease(t *testing.T) {
	provider, err := NewProvider(9, "north crew", nil)
	require.NoError(t, err)

	require.ErrorIs(t, provider.Release(), ErrNotBusy)

	require.NoError(t, provider.Assign())
	require.True(t, provider.Busy())
	require.ErrorIs(t, provider.Assign(), ErrAlreadyBusy)

	require.NoError(t, provider.Release())
	require.False(t, provider.Busy())
	require.Equal(t, 0, provider.Cycle())
}

func TestProvider_AdvanceCycleIgnoresIdle(t *testing.T) {
	provider, err := NewProvider(9, "north crew", nil)
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		provider.AdvanceCycle()
	}
	require.False(t, provider.Busy())
	require.Equal(t, 0, provider.Cycle())
}

func TestProvider_FourthAdvanceReleases(t *testing.T) {
	provider, err := NewProvider(9, "north crew", nil)
	require.NoError(t, err)
	require.NoError(t, provider.Assign())

	for round := 1; round <= 3; round++ {
		provider.AdvanceCycle()
		require.True(t, provider.Busy())
		require.Equal(t, round, provider.Cycle())
	}

	provider.AdvanceCycle()
	require.False(t, provider.Busy())
	require.Equal(t, 0, provider.Cycle())
}

func TestProvider_ReassignResetsCycle(t *testing.T) {
	provider, err := NewProvider(9, "north crew", nil)
	require.NoError(t, err)

	require.NoError(t, provider.Assign())
	provider.AdvanceCycle()
	provider.AdvanceCycle()
	require.NoError(t, provider.Release())

	require.NoError(t, provider.Assign())
	require.Equal(t, 0, provider.Cycle())
}
