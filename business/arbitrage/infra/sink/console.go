// Package sink provides alert delivery backends.
package sink

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/arbsentry/spread-bot/business/arbitrage/domain"
	pricing "github.com/arbsentry/spread-bot/business/pricing/domain"
)

var (
	consoleTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	consoleVenueStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	consoleGainStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	consoleLossStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	consoleDetailStyle = lipgloss.NewStyle().Faint(true)
	consoleBoxStyle    = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(0, 1)
)

// Console renders alerts as styled terminal cards.
type Console struct {
	mu  sync.Mutex
	out io.Writer
}

func NewConsole(out io.Writer) *Console {
	return &Console{out: out}
}

func (c *Console) Deliver(_ context.Context, alert domain.Alert) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, err := fmt.Fprintln(c.out, c.render(alert))
	return err
}

func (c *Console) render(a domain.Alert) string {
	var b strings.Builder

	b.WriteString(consoleTitleStyle.Render(
		fmt.Sprintf("%s  spread %s%%", a.Coin, a.SpreadPct.StringFixed(2))))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("LONG  %s  market %s  limit %s\n",
		consoleVenueStyle.Render(a.Long.VenueName),
		a.Long.MarketEntry.String(),
		a.Long.LimitEntry.String()))
	b.WriteString(consoleDetailStyle.Render("      "+a.Long.DealURL) + "\n")

	b.WriteString(fmt.Sprintf("SHORT %s  market %s  limit %s\n",
		consoleVenueStyle.Render(a.Short.VenueName),
		a.Short.MarketEntry.String(),
		a.Short.LimitEntry.String()))
	b.WriteString(consoleDetailStyle.Render("      "+a.Short.DealURL) + "\n\n")

	est := a.Estimate
	b.WriteString(fmt.Sprintf("market net %s  (fees %s)\n",
		profitString(est.MarketProfitUSD),
		est.MarketFeesUSD.StringFixed(2)))
	b.WriteString(fmt.Sprintf("limit net  %s  (fees %s)\n",
		profitString(est.LimitProfitUSD),
		est.LimitFeesUSD.StringFixed(2)))

	if len(a.VenuePrices) > 0 {
		b.WriteString("\n")
		venues := make([]string, 0, len(a.VenuePrices))
		for venue := range a.VenuePrices {
			venues = append(venues, string(venue))
		}
		sort.Strings(venues)
		parts := make([]string, 0, len(venues))
		for _, venue := range venues {
			parts = append(parts, fmt.Sprintf("%s %s", venue, a.VenuePrices[pricing.ExchangeID(venue)].String()))
		}
		b.WriteString(consoleDetailStyle.Render(strings.Join(parts, "  ")) + "\n")
	}

	b.WriteString(consoleDetailStyle.Render(fmt.Sprintf(
		"size $%s x%s  |  %d venues  |  %s",
		est.PositionSizeUSD.StringFixed(0),
		est.Leverage.StringFixed(0),
		a.QuoteCount,
		a.CreatedAt.Format("15:04:05"),
	)))

	return consoleBoxStyle.Render(b.String())
}

func profitString(usd decimal.Decimal) string {
	s := "$" + usd.StringFixed(2)
	if usd.IsNegative() {
		return consoleLossStyle.Render(s)
	}
	return consoleGainStyle.Render(s)
}
