package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gonum.org/v1/gonum/stat"

	"github.com/c9s/smcchart/pkg/chart"
	"github.com/c9s/smcchart/pkg/cmd/cmdutil"
	"github.com/c9s/smcchart/pkg/server"
	"github.com/c9s/smcchart/pkg/style"
	"github.com/c9s/smcchart/pkg/types"
)

func init() {
	cmdutil.ChartFlags(InspectCmd.Flags())
	InspectCmd.Flags().Float64("x", 0, "the pointer x to hit-test, in logical pixels")
	InspectCmd.Flags().Float64("y", 0, "the pointer y, used for the crosshair price")
	RootCmd.AddCommand(InspectCmd)
}

var InspectCmd = &cobra.Command{
	Use:   "inspect --candles file.csv --x 420",
	Short: "hit-test a pointer position and print the visible candles",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := cmdutil.LoadChartConfig(cmd.Flags(), viper.GetString("config"))
		if err != nil {
			return err
		}

		if len(cfg.Candles) == 0 {
			return fmt.Errorf("--candles or the candles field of the config file is required")
		}

		ch, err := cfg.NewChart()
		if err != nil {
			return err
		}

		series, overlays, err := server.LoadSource(cmd.Context(), server.FileLoader{}, server.Source{
			Candles:   cfg.Candles,
			CSVFormat: cfg.CSVFormat,
			Overlays:  cfg.Overlays,
		})
		if err != nil {
			return err
		}
		ch.SetData(series, overlays)

		x, _ := cmd.Flags().GetFloat64("x")
		y, _ := cmd.Flags().GetFloat64("y")
		return inspect(os.Stdout, ch, x, y)
	},
}

// inspect moves the pointer to (x, y) and prints the hit-test result with the visible window.
func inspect(w io.Writer, ch *chart.Chart, x, y float64) error {
	cur := ch.PointerEnter(x, y)

	m, window, ok := chart.NewEngine().Mapper(ch.Snapshot())
	if !ok {
		return fmt.Errorf("surface %vx%v is too small to plot", ch.Width, ch.Height)
	}

	loc := ch.Location
	if loc == nil {
		loc = time.UTC
	}

	series := ch.Series()
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(*style.NewDefaultTableStyle())
	t.SetTitle(fmt.Sprintf("%s %s candles [%d, %d)", ch.Symbol, ch.Interval, window.Start, window.End))
	t.AppendHeader(table.Row{"#", "Time", "Open", "High", "Low", "Close", "Volume", "Change", "X"})
	for i := window.Start; i < window.End; i++ {
		c := series[i]
		label := strconv.Itoa(i)
		if i == cur.HoveredIndex {
			label = "> " + label
		}
		row := table.Row{
			label,
			c.Time().In(loc).Format("2006-01-02 15:04"),
			style.FormatPrice(c.Open),
			style.FormatPrice(c.High),
			style.FormatPrice(c.Low),
			style.FormatPrice(c.Close),
			style.FormatVolume(c.Volume),
			style.ChangeString(c),
			fmt.Sprintf("%.1f", m.XOf(float64(i))),
		}
		t.AppendRow(row)
	}
	t.SetRowPainter(table.RowPainter(func(row table.Row) text.Colors {
		if s, ok := row[0].(string); ok && strings.HasPrefix(s, "> ") {
			return style.HoveredRowColors
		}
		return nil
	}))
	t.Render()

	fmt.Fprintf(w, "price at y=%.1f: %s\n", y, style.FormatPrice(m.PriceOf(y)))
	printSummary(w, series.Slice(window.Start, window.End))

	hovered, ok := ch.HoveredCandle()
	if !ok {
		fmt.Fprintf(w, "x=%.1f does not hover any candle\n", x)
		return nil
	}

	fmt.Fprintf(w, "x=%.1f hovers candle %d: ", x, cur.HoveredIndex)
	style.DirectionColor(hovered).Fprintf(w, "%s %s\n", hovered.Direction(), style.ChangeString(hovered))
	return nil
}

func printSummary(w io.Writer, visible types.Series) {
	if len(visible) == 0 {
		fmt.Fprintln(w, "no visible candles")
		return
	}

	closes := make([]float64, len(visible))
	for i, c := range visible {
		closes[i] = c.Close
	}

	high, low, _ := visible.HighLow()
	fmt.Fprintf(w, "visible: %d candles, high %s, low %s, mean close %s, stddev %s\n",
		len(visible),
		style.FormatPrice(high),
		style.FormatPrice(low),
		style.FormatPrice(stat.Mean(closes, nil)),
		style.FormatPrice(stat.StdDev(closes, nil)),
	)
}
