package types

import (
	"fmt"
	"math"
	"time"
)

type Direction int

const DirectionUp = 1
const DirectionNone = 0
const DirectionDown = -1

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	}
	return "doji"
}

// Candle is one OHLCV bar. Timestamp is the bar open time in unix milliseconds.
type Candle struct {
	Timestamp int64   `json:"timestamp" yaml:"timestamp"`
	Open      float64 `json:"open" yaml:"open"`
	High      float64 `json:"high" yaml:"high"`
	Low       float64 `json:"low" yaml:"low"`
	Close     float64 `json:"close" yaml:"close"`
	Volume    float64 `json:"volume" yaml:"volume"`
}

func (c Candle) Time() time.Time {
	return time.UnixMilli(c.Timestamp)
}

func (c Candle) Direction() Direction {
	switch {
	case c.Close > c.Open:
		return DirectionUp
	case c.Close < c.Open:
		return DirectionDown
	}
	return DirectionNone
}

// IsBullish reports close > open. A doji is not bullish.
func (c Candle) IsBullish() bool {
	return c.Close > c.Open
}

func (c Candle) GetChange() float64 {
	return c.Close - c.Open
}

// GetChangePercentage returns the open-to-close change in percent, 0 for a zero open.
func (c Candle) GetChangePercentage() float64 {
	if c.Open == 0 {
		return 0
	}
	return (c.Close - c.Open) / c.Open * 100.0
}

func (c Candle) BodyTop() float64 {
	return math.Max(c.Open, c.Close)
}

func (c Candle) BodyBottom() float64 {
	return math.Min(c.Open, c.Close)
}

// Validate checks low <= min(open, close) <= max(open, close) <= high.
func (c Candle) Validate() error {
	if c.Low > c.BodyBottom() || c.BodyTop() > c.High {
		return fmt.Errorf("candle %d: inconsistent ohlc o=%f h=%f l=%f c=%f", c.Timestamp, c.Open, c.High, c.Low, c.Close)
	}
	return nil
}

func (c Candle) String() string {
	return fmt.Sprintf("%s O: %.4f H: %.4f L: %.4f C: %.4f V: %.4f",
		c.Time().UTC().Format(time.RFC3339), c.Open, c.High, c.Low, c.Close, c.Volume)
}

// Series is an ascending-by-timestamp slice of candles.
type Series []Candle

func (s Series) Len() int {
	return len(s)
}

// Slice returns the [start, end) sub-series with the bounds clamped to the series length.
func (s Series) Slice(start, end int) Series {
	if start < 0 {
		start = 0
	}
	if end > len(s) {
		end = len(s)
	}
	if start >= end {
		return nil
	}
	return s[start:end]
}

// HighLow returns the highest high and lowest low. ok is false for an empty series.
func (s Series) HighLow() (high, low float64, ok bool) {
	if len(s) == 0 {
		return 0, 0, false
	}

	high, low = s[0].High, s[0].Low
	for _, c := range s[1:] {
		high = math.Max(high, c.High)
		low = math.Min(low, c.Low)
	}
	return high, low, true
}

// MaxVolume returns the largest volume, 0 for an empty series.
func (s Series) MaxVolume() (v float64) {
	for _, c := range s {
		v = math.Max(v, c.Volume)
	}
	return v
}

// IsSorted reports whether timestamps never decrease.
func (s Series) IsSorted() bool {
	for i := 1; i < len(s); i++ {
		if s[i].Timestamp < s[i-1].Timestamp {
			return false
		}
	}
	return true
}
