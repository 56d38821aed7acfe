package dataflows

import "math"

// CalcRSI computes a simple RSI over the trailing period. Returns nil when
// there are fewer than period+1 closes.
func CalcRSI(closes []float64, period int) *float64 {
	if len(closes) < period+1 {
		return nil
	}

	var gains, losses []float64
	for i := 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gains = append(gains, math.Max(d, 0))
		losses = append(losses, math.Max(-d, 0))
	}

	var avgGain, avgLoss float64
	for _, g := range gains[len(gains)-period:] {
		avgGain += g
	}
	for _, l := range losses[len(losses)-period:] {
		avgLoss += l
	}
	avgGain /= float64(period)
	avgLoss /= float64(period)

	if avgLoss == 0 {
		v := 100.0
		return &v
	}
	rs := avgGain / avgLoss
	v := math.Round((100-100/(1+rs))*10) / 10
	return &v
}

// Levels holds approximate support and resistance prices.
type Levels struct {
	S1 float64
	S2 float64
	R1 float64
	R2 float64
}

// SupportResistance derives key levels from percentage bands off the spot
// price, rounded to the nearest ten dollars.
func SupportResistance(price float64) Levels {
	roundTen := func(v float64) float64 {
		return math.Round(v/10) * 10
	}
	return Levels{
		S1: roundTen(price * 0.990),
		S2: roundTen(price * 0.975),
		R1: roundTen(price * 1.010),
		R2: roundTen(price * 1.025),
	}
}

// Bias classifies short-term direction from RSI and daily momentum.
func Bias(rsi *float64, dayChgPct float64) string {
	if rsi == nil {
		return "NEUTRAL"
	}
	switch {
	case *rsi < 40 && dayChgPct < 0:
		return "BEARISH"
	case *rsi > 60 && dayChgPct > 0:
		return "BULLISH"
	case *rsi < 45:
		return "MILD BEARISH"
	case *rsi > 55:
		return "MILD BULLISH"
	default:
		return "NEUTRAL"
	}
}
