package types

import (
	"fmt"
	"strings"
)

type Polarity string

const (
	PolarityBullish Polarity = "bullish"
	PolarityBearish Polarity = "bearish"
)

func (p *Polarity) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "bullish", "bull", "long":
		*p = PolarityBullish
	case "bearish", "bear", "short":
		*p = PolarityBearish
	default:
		return fmt.Errorf("invalid polarity %q", string(b))
	}
	return nil
}

func (p Polarity) IsBullish() bool {
	return p == PolarityBullish
}

func (p Polarity) IsValid() bool {
	return p == PolarityBullish || p == PolarityBearish
}

type ZoneKind string

const (
	ZoneKindSupport    ZoneKind = "support"
	ZoneKindResistance ZoneKind = "resistance"
)

func (k *ZoneKind) UnmarshalText(b []byte) error {
	switch strings.ToLower(string(b)) {
	case "support":
		*k = ZoneKindSupport
	case "resistance":
		*k = ZoneKindResistance
	default:
		return fmt.Errorf("invalid liquidity zone kind %q", string(b))
	}
	return nil
}

func (k ZoneKind) IsValid() bool {
	return k == ZoneKindSupport || k == ZoneKindResistance
}

// OrderBlock is a rectangle in (index, price) space.
type OrderBlock struct {
	X1         float64  `json:"x1" yaml:"x1"`
	X2         float64  `json:"x2" yaml:"x2"`
	Y1         float64  `json:"y1" yaml:"y1"`
	Y2         float64  `json:"y2" yaml:"y2"`
	Polarity   Polarity `json:"polarity" yaml:"polarity"`
	Confidence float64  `json:"confidence" yaml:"confidence"`
}

type FairValueGap struct {
	X1       float64  `json:"x1" yaml:"x1"`
	X2       float64  `json:"x2" yaml:"x2"`
	Y1       float64  `json:"y1" yaml:"y1"`
	Y2       float64  `json:"y2" yaml:"y2"`
	Polarity Polarity `json:"polarity" yaml:"polarity"`
	Filled   bool     `json:"filled" yaml:"filled"`
}

// LiquidityZone is a horizontal price level where resting orders cluster.
type LiquidityZone struct {
	Price    float64  `json:"price" yaml:"price"`
	Strength float64  `json:"strength" yaml:"strength"`
	Kind     ZoneKind `json:"kind" yaml:"kind"`
}

type BreakOfStructure struct {
	Index        float64  `json:"index" yaml:"index"`
	Price        float64  `json:"price" yaml:"price"`
	Polarity     Polarity `json:"polarity" yaml:"polarity"`
	Significance float64  `json:"significance" yaml:"significance"`
}

// OverlayBundle aggregates the structural annotations drawn beneath the price series.
type OverlayBundle struct {
	OrderBlocks       []OrderBlock       `json:"orderBlocks,omitempty" yaml:"orderBlocks,omitempty"`
	FairValueGaps     []FairValueGap     `json:"fairValueGaps,omitempty" yaml:"fairValueGaps,omitempty"`
	LiquidityZones    []LiquidityZone    `json:"liquidityZones,omitempty" yaml:"liquidityZones,omitempty"`
	BreakOfStructures []BreakOfStructure `json:"breakOfStructures,omitempty" yaml:"breakOfStructures,omitempty"`
}

func (b *OverlayBundle) IsEmpty() bool {
	return b == nil ||
		len(b.OrderBlocks) == 0 &&
			len(b.FairValueGaps) == 0 &&
			len(b.LiquidityZones) == 0 &&
			len(b.BreakOfStructures) == 0
}

func (b *OverlayBundle) Len() int {
	if b == nil {
		return 0
	}
	return len(b.OrderBlocks) + len(b.FairValueGaps) + len(b.LiquidityZones) + len(b.BreakOfStructures)
}
