package arbitrage

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arbsentry/spread-bot/business/arbitrage/infra/sink"
)

func TestNewAlertSink_SelectsConfiguredBackend(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.IsType(t, &sink.Slog{}, newAlertSink("slog", log))
	require.IsType(t, &sink.Console{}, newAlertSink("console", log))
}
