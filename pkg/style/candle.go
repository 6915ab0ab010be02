package style

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/leekchan/accounting"

	"github.com/c9s/smcchart/pkg/types"
)

var (
	BullishColor = color.New(color.FgGreen)
	BearishColor = color.New(color.FgRed)
)

// DirectionColor picks the console color of a candle, dojis count as bearish like on the chart.
func DirectionColor(c types.Candle) *color.Color {
	if c.IsBullish() {
		return BullishColor
	}
	return BearishColor
}

// ChangeString formats the percent change with an explicit sign.
func ChangeString(c types.Candle) string {
	change := c.GetChangePercentage()
	if change > 0 {
		return fmt.Sprintf("+%.2f%%", change)
	}
	return fmt.Sprintf("%.2f%%", change)
}

func FormatPrice(v float64) string {
	return accounting.FormatNumberFloat64(v, 4, ",", ".")
}

func FormatVolume(v float64) string {
	return accounting.FormatNumberFloat64(v, 2, ",", ".")
}
