package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
)

func TestMemoryProfiles_SnapshotIsSortedByID(t *testing.T) {
	s := NewMemoryProfiles()
	s.Upsert(domain.Profile{ID: 3})
	s.Upsert(domain.Profile{ID: 1})
	s.Upsert(domain.Profile{ID: 2})

	snapshot, err := s.Snapshot(context.Background())
	require.NoError(t, err)
	require.Len(t, snapshot, 3)
	require.Equal(t, domain.UserID(1), snapshot[0].ID)
	require.Equal(t, domain.UserID(3), snapshot[2].ID)
}

func TestMemoryProfiles_GetMissing(t *testing.T) {
	s := NewMemoryProfiles()
	_, ok, err := s.Get(context.Background(), 42)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryProfiles_UpsertNormalizesCoins(t *testing.T) {
	s := NewMemoryProfiles()
	s.Upsert(domain.Profile{ID: 1, Coins: []string{"btc", "ETHUSDT", "BTC"}})

	p, ok, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, []string{"BTC", "ETH"}, p.Coins)
}

func TestMemoryProfiles_SetScanActive(t *testing.T) {
	s := NewMemoryProfiles()
	s.Upsert(domain.Profile{ID: 1, ScanActive: true})

	require.True(t, s.SetScanActive(1, false))
	p, ok, err := s.Get(context.Background(), 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.False(t, p.ScanActive)

	require.False(t, s.SetScanActive(99, true), "unknown user")
}
