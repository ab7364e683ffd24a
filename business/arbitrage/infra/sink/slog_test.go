package sink

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlog_EmitsStructuredRecord(t *testing.T) {
	var buf bytes.Buffer
	sink := NewSlog(slog.New(slog.NewJSONHandler(&buf, nil)))

	require.NoError(t, sink.Deliver(context.Background(), sampleAlert()))

	out := buf.String()
	for _, want := range []string{
		`"msg":"arbitrage opportunity"`,
		`"coin":"BTC"`,
		`"long_venue":"bybit"`,
		`"short_venue":"okx"`,
		`"market_net_usd":"16.49"`,
	} {
		require.True(t, strings.Contains(out, want), "record missing %q:\n%s", want, out)
	}
}
