package monitor

import (
	"fmt"
	"strings"

	"xprem/internal/domain"

	"github.com/shopspring/decimal"
)

const (
	ansiReset    = "\033[0m"
	ansiRed      = "\033[31m"
	ansiGreen    = "\033[32m"
	ansiYellow   = "\033[33m"
	ansiCyan     = "\033[36m"
	ansiDim      = "\033[2m"
	ansiClearEOL = "\033[K"
	ansiHome     = "\033[H\033[2J"
)

func colorize(s, c string) string { return c + s + ansiReset }

type Formatter struct {
	// Threshold is the premium (as a ratio) above which rows are highlighted.
	Threshold float64
	MaxRows   int
}

func NewFormatter(threshold float64) *Formatter {
	return &Formatter{Threshold: threshold, MaxRows: 40}
}

// PriceText prints the price exactly as received, no rounding.
func PriceText(p float64) string {
	if p <= 0 {
		return "--"
	}
	return decimal.NewFromFloat(p).String()
}

// PremiumText is the signed percentage with two decimals, e.g. "+2.31%".
func PremiumText(premium float64) string {
	return fmt.Sprintf("%+.2f%%", premium*100)
}

func (f *Formatter) rateText(v View) string {
	if !v.CrossRateKnown {
		return "--"
	}
	return decimal.NewFromFloat(v.CrossRate).String()
}

// Render draws the whole table, clearing the screen first.
func (f *Formatter) Render(v View) string {
	var sb strings.Builder
	sb.WriteString(ansiHome)

	sb.WriteString(colorize("[XPREM] ", ansiDim))
	sb.WriteString(v.Pair)
	sb.WriteString(colorize("  rate ", ansiDim))
	sb.WriteString(f.rateText(v))
	sb.WriteString(colorize(" ("+v.CrossRateMode+")", ansiDim))
	fmt.Fprintf(&sb, "  A:%s B:%s", stateText(v.States[0].String()), stateText(v.States[1].String()))
	if v.Paused {
		sb.WriteString(colorize("  PAUSED", ansiYellow))
	}
	if v.Frozen {
		sb.WriteString(colorize("  FROZEN", ansiCyan))
	}
	sb.WriteString(ansiClearEOL + "\n")

	fmt.Fprintf(&sb, "%-2s %-10s %18s %18s %9s%s\n", "", "TICKER", v.A.Key(), v.B.Key(), "PREMIUM", ansiClearEOL)

	rows := v.Rows
	if f.MaxRows > 0 && len(rows) > f.MaxRows {
		rows = rows[:f.MaxRows]
	}
	for _, r := range rows {
		mark := "  "
		switch {
		case r.Expanded:
			mark = "v*"
		case r.IsPinned:
			mark = " *"
		case r.IsMuted:
			mark = " ~"
		}

		prem := "--"
		col := ansiDim
		if r.Premium != 0 {
			prem = PremiumText(r.Premium)
			switch domain.PremiumBand(r.Premium, f.Threshold) {
			case +1:
				col = ansiGreen
			case -1:
				col = ansiRed
			default:
				col = ansiYellow
			}
		}
		line := fmt.Sprintf("%-2s %-10s %18s %18s ", mark, r.Ticker, PriceText(r.PriceA), PriceText(r.PriceB))
		prem = fmt.Sprintf("%9s", prem)
		if r.IsMuted {
			sb.WriteString(colorize(line+prem, ansiDim))
		} else {
			sb.WriteString(line + colorize(prem, col))
		}
		if r.Arbitrage {
			sb.WriteString(colorize(" ARB", ansiCyan))
		}
		sb.WriteString(ansiClearEOL + "\n")

		if r.Expanded {
			sb.WriteString(networksText(r.WalletStatus))
		}
	}
	if hidden := len(v.Rows) - len(rows); hidden > 0 {
		sb.WriteString(colorize(fmt.Sprintf("   ... %d more", hidden), ansiDim))
		sb.WriteString(ansiClearEOL + "\n")
	}
	return sb.String()
}

func stateText(s string) string {
	if s == "Connected" {
		return colorize(s, ansiGreen)
	}
	return colorize(s, ansiYellow)
}

func networksText(ws []domain.WalletStatus) string {
	if len(ws) == 0 {
		return colorize("     no network info", ansiDim) + ansiClearEOL + "\n"
	}
	var sb strings.Builder
	for _, w := range ws {
		fmt.Fprintf(&sb, "     %-8s A[%s] B[%s]%s\n", w.Network, flags(w.MarketA), flags(w.MarketB), ansiClearEOL)
	}
	return sb.String()
}

func flags(n domain.NetworkStatus) string {
	d, w := "-", "-"
	if n.Deposit {
		d = "D"
	}
	if n.Withdraw {
		w = "W"
	}
	return d + w
}

// Summary is a single line with the top n unmuted rows, for snapshots.
func (f *Formatter) Summary(v View, n int) string {
	var sb strings.Builder
	sb.WriteString("[XPREM] ")
	sb.WriteString(v.Pair)
	sb.WriteString(" rate=")
	sb.WriteString(f.rateText(v))
	count := 0
	for _, r := range v.Rows {
		if count >= n {
			break
		}
		if r.IsMuted || r.Premium == 0 {
			continue
		}
		sb.WriteString("  ")
		sb.WriteString(r.Ticker)
		sb.WriteString(" ")
		sb.WriteString(PremiumText(r.Premium))
		count++
	}
	return sb.String()
}
