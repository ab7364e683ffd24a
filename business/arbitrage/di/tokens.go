// Package di exposes the arbitrage context's service tokens.
package di

import (
	"github.com/arbsentry/spread-bot/business/arbitrage/app"
	"github.com/arbsentry/spread-bot/business/arbitrage/infra/store"
	"github.com/arbsentry/spread-bot/internal/di"
)

var (
	// ScannerToken resolves the scan loop driver.
	ScannerToken = di.NewToken[*app.Scanner]("arbitrage.scanner")
	// ProfileStoreToken resolves the subscriber profile store.
	ProfileStoreToken = di.NewToken[*store.MemoryProfiles]("arbitrage.profiles")
)
