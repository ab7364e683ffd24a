// Package symbol normalizes user-supplied coin tickers.
package symbol

import (
	"regexp"
	"strings"
)

// Quote-currency affixes stripped from pair-style input (BTCUSDT, BTC/USDT,
// USDT-BTC all normalize to BTC). Order matters: longer suffixes first.
var quoteAffixes = []string{"USDT", "USDC", "BUSD", "TUSD", "USD", "DAI", "EUR", "BTC", "ETH"}

// Bare stablecoin/fiat tokens left over from splitting a pair ("BTC/USDT")
// are not tradable tickers here and are dropped. BTC and ETH stay: they are
// real base assets even though they appear as quote affixes.
var bareQuoteCurrencies = map[string]struct{}{
	"USDT": {}, "USDC": {}, "BUSD": {}, "TUSD": {}, "USD": {}, "DAI": {}, "EUR": {},
}

var (
	separators  = regexp.MustCompile(`[\s,;|/\-_.]+`)
	nonAlphaNum = regexp.MustCompile(`[^A-Z0-9]`)
)

// Normalize extracts a bare uppercase ticker from a single token.
// "btcusdt" -> "BTC", "ETH-USDT" handled by NormalizeList's splitting,
// "eth" -> "ETH". Returns "" for empty input.
func Normalize(token string) string {
	t := strings.ToUpper(strings.TrimSpace(token))
	if t == "" {
		return ""
	}

	for _, affix := range quoteAffixes {
		if strings.HasSuffix(t, affix) && len(t) > len(affix) {
			t = strings.TrimSuffix(t, affix)
			break
		}
		if strings.HasPrefix(t, affix) && len(t) > len(affix) {
			t = strings.TrimPrefix(t, affix)
			break
		}
	}

	return nonAlphaNum.ReplaceAllString(t, "")
}

// NormalizeList splits raw input on common separators and normalizes each
// part, preserving order and dropping duplicates.
func NormalizeList(raw string) []string {
	parts := separators.Split(strings.TrimSpace(raw), -1)

	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		ticker := Normalize(part)
		if ticker == "" {
			continue
		}
		if _, quoteOnly := bareQuoteCurrencies[ticker]; quoteOnly {
			continue
		}
		if _, dup := seen[ticker]; dup {
			continue
		}
		seen[ticker] = struct{}{}
		out = append(out, ticker)
	}
	return out
}
