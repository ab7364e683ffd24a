// Package store provides profile persistence backends.
package store

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
	"github.com/arbsentry/spread-bot/internal/symbol"
)

// MemoryProfiles keeps subscriber profiles in process memory. Snapshot
// order is stable so scan iterations visit users deterministically.
type MemoryProfiles struct {
	mu       sync.RWMutex
	profiles map[domain.UserID]domain.Profile
}

func NewMemoryProfiles() *MemoryProfiles {
	return &MemoryProfiles{profiles: make(map[domain.UserID]domain.Profile)}
}

func (s *MemoryProfiles) Snapshot(context.Context) ([]domain.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *MemoryProfiles) Get(_ context.Context, id domain.UserID) (domain.Profile, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	return p, ok, nil
}

// Upsert stores or replaces a profile. Coin selections are normalized to
// bare uppercase tickers so user input like "btc, ethusdt" matches the
// catalog.
func (s *MemoryProfiles) Upsert(p domain.Profile) {
	p.Coins = symbol.NormalizeList(strings.Join(p.Coins, ","))

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
}

// Delete removes a profile.
func (s *MemoryProfiles) Delete(id domain.UserID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.profiles, id)
}

// SetScanActive flips the scan flag for one user.
func (s *MemoryProfiles) SetScanActive(id domain.UserID, active bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return false
	}
	p.ScanActive = active
	s.profiles[id] = p
	return true
}
