package content

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var usd = message.NewPrinter(language.English)

func fmtPrice(v float64) string {
	return usd.Sprintf("$%.2f", v)
}

func signStr(v float64, suffix string) string {
	if v >= 0 {
		return fmt.Sprintf("+%.2f%s", v, suffix)
	}
	return fmt.Sprintf("%.2f%s", v, suffix)
}

func arrow(v float64) string {
	if v >= 0 {
		return "▲"
	}
	return "▼"
}

func greenRed(v float64) string {
	if v >= 0 {
		return "#16a34a"
	}
	return "#dc2626"
}

func rsiLabel(rsi *float64) string {
	if rsi == nil {
		return "N/A"
	}
	switch {
	case *rsi >= 70:
		return fmt.Sprintf("%.1f Overbought", *rsi)
	case *rsi <= 30:
		return fmt.Sprintf("%.1f Oversold", *rsi)
	default:
		return fmt.Sprintf("%.1f Neutral", *rsi)
	}
}
