package chart

import (
	"math"

	"github.com/c9s/smcchart/pkg/types"
)

// HeikinAshi derives the Heikin-Ashi candles of the given slice. The recurrence
// chains every candle to its predecessor, so it must run over the whole slice at once.
//
//	haClose[i] = (open + high + low + close) / 4
//	haOpen[0]  = (open[0] + close[0]) / 2
//	haOpen[i]  = (haOpen[i-1] + haClose[i-1]) / 2
//	haHigh[i]  = max(high, haOpen, haClose)
//	haLow[i]   = min(low, haOpen, haClose)
func HeikinAshi(candles types.Series) types.Series {
	if len(candles) == 0 {
		return nil
	}

	out := make(types.Series, len(candles))
	for i, k := range candles {
		haClose := (k.Open + k.High + k.Low + k.Close) / 4.0

		var haOpen float64
		if i == 0 {
			haOpen = (k.Open + k.Close) / 2.0
		} else {
			haOpen = (out[i-1].Open + out[i-1].Close) / 2.0
		}

		out[i] = types.Candle{
			Timestamp: k.Timestamp,
			Open:      haOpen,
			High:      math.Max(k.High, math.Max(haOpen, haClose)),
			Low:       math.Min(k.Low, math.Min(haOpen, haClose)),
			Close:     haClose,
			Volume:    k.Volume,
		}
	}
	return out
}
