package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestThrottle_FirstAlertAlwaysAllowed(t *testing.T) {
	th := NewThrottle(time.Minute)
	require.True(t, th.ShouldNotify(1, "BTC"))
}

func TestThrottle_CooldownBoundaries(t *testing.T) {
	th := NewThrottle(time.Minute)
	clock := time.Now()
	th.now = func() time.Time { return clock }

	th.MarkNotified(1, "BTC")
	require.False(t, th.ShouldNotify(1, "BTC"), "inside cooldown")

	clock = clock.Add(time.Minute - time.Millisecond)
	require.False(t, th.ShouldNotify(1, "BTC"), "one tick before cooldown expires")

	clock = clock.Add(time.Millisecond)
	require.True(t, th.ShouldNotify(1, "BTC"), "exactly at cooldown")
}

func TestThrottle_KeysAreIndependent(t *testing.T) {
	th := NewThrottle(time.Minute)
	clock := time.Now()
	th.now = func() time.Time { return clock }

	th.MarkNotified(1, "BTC")

	require.True(t, th.ShouldNotify(1, "ETH"), "different coin")
	require.True(t, th.ShouldNotify(2, "BTC"), "different user")
	require.False(t, th.ShouldNotify(1, "BTC"))
}

func TestThrottle_ShouldNotifyDoesNotConsumeWindow(t *testing.T) {
	th := NewThrottle(time.Minute)
	clock := time.Now()
	th.now = func() time.Time { return clock }

	// Checking repeatedly without a delivery must not start the cooldown.
	for i := 0; i < 5; i++ {
		require.True(t, th.ShouldNotify(1, "BTC"))
	}
}
