package cmdutil

import (
	"github.com/spf13/pflag"

	"github.com/c9s/smcchart/pkg/chart"
	"github.com/c9s/smcchart/pkg/config"
	"github.com/c9s/smcchart/pkg/datasource/csvsource"
	"github.com/c9s/smcchart/pkg/types"
)

// ChartFlags defines the flags that override fields of the chart config file.
func ChartFlags(flags *pflag.FlagSet) {
	flags.String("symbol", config.DefaultSymbol, "the symbol shown in the export file name, e.g. BTCUSDT")
	flags.String("interval", config.DefaultInterval.String(), "the candle interval, e.g. 1h, 15m")
	flags.StringSlice("candles", nil, "candle csv files or directories")
	flags.String("csv-format", string(csvsource.FormatBinance), "csv layout: binance or metatrader")
	flags.String("overlays", "", "annotation document, json or yaml")
	flags.Float64("width", chart.DefaultWidth, "surface width in logical pixels")
	flags.Float64("height", chart.DefaultHeight, "surface height in logical pixels")
	flags.Float64("dpr", 1.0, "device pixel ratio")
	flags.String("timezone", "", "time axis timezone, UTC by default")
	flags.String("mode", "candlestick", "render mode: candlestick, line, area or heikin-ashi")
	flags.String("theme", string(chart.ThemeDark), "color theme: dark or light")
	flags.Float64("zoom", 1.0, "viewport zoom, clamped to [0.1, 5]")
	flags.Float64("pan-x", 0, "horizontal pan offset in pixels")
	flags.Float64("pan-y", 0, "vertical pan offset in pixels")
}

// ApplyChartFlags copies the flags the user set explicitly onto cfg and validates the result.
func ApplyChartFlags(flags *pflag.FlagSet, cfg *config.Config) (err error) {
	if flags.Changed("symbol") {
		if cfg.Symbol, err = flags.GetString("symbol"); err != nil {
			return err
		}
	}

	if flags.Changed("interval") {
		s, err := flags.GetString("interval")
		if err != nil {
			return err
		}
		cfg.Interval = types.Interval(s)
	}

	if flags.Changed("candles") {
		candles, err := flags.GetStringSlice("candles")
		if err != nil {
			return err
		}
		cfg.Candles = candles
	}

	if flags.Changed("csv-format") {
		s, err := flags.GetString("csv-format")
		if err != nil {
			return err
		}
		cfg.CSVFormat = csvsource.Format(s)
	}

	if flags.Changed("overlays") {
		if cfg.Overlays, err = flags.GetString("overlays"); err != nil {
			return err
		}
	}

	if flags.Changed("timezone") {
		if cfg.Timezone, err = flags.GetString("timezone"); err != nil {
			return err
		}
	}

	floats := map[string]*float64{
		"width":  &cfg.Width,
		"height": &cfg.Height,
		"dpr":    &cfg.DevicePixelRatio,
		"zoom":   &cfg.Viewport.Zoom,
		"pan-x":  &cfg.Viewport.PanX,
		"pan-y":  &cfg.Viewport.PanY,
	}
	for name, target := range floats {
		if !flags.Changed(name) {
			continue
		}
		if *target, err = flags.GetFloat64(name); err != nil {
			return err
		}
	}

	if flags.Changed("mode") {
		s, err := flags.GetString("mode")
		if err != nil {
			return err
		}
		if cfg.Settings.Mode, err = chart.ParseRenderMode(s); err != nil {
			return err
		}
	}

	if flags.Changed("theme") {
		s, err := flags.GetString("theme")
		if err != nil {
			return err
		}
		cfg.Settings.Theme = chart.Theme(s)
	}

	return cfg.Validate()
}

// LoadChartConfig loads the --config file when given, otherwise starts from the defaults,
// and applies the chart flags on top.
func LoadChartConfig(flags *pflag.FlagSet, configFile string) (*config.Config, error) {
	cfg := config.Default()
	if configFile != "" {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return nil, err
		}
	}

	if err := ApplyChartFlags(flags, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
