package config

import (
	"fmt"
	"math"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/c9s/smcchart/pkg/chart"
	"github.com/c9s/smcchart/pkg/datasource/csvsource"
	"github.com/c9s/smcchart/pkg/types"
)

var DefaultInterval = types.Interval1h

const (
	DefaultSymbol    = "BTCUSDT"
	DefaultOutputDir = "."
	DefaultBind      = ":8080"
	DefaultRateLimit = "60+30/1s"
)

// Cursor places a pointer on the rendered frame so that the crosshair and
// the info panel show up in a static export.
type Cursor struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

type Server struct {
	Bind string `json:"bind" yaml:"bind"`

	// RateLimit bounds pointer events per chart, in the "burst+n/duration" syntax.
	RateLimit string `json:"rateLimit" yaml:"rateLimit"`

	// SnapshotSchedule is a cron spec; when set, every live chart is exported to SnapshotDir.
	SnapshotSchedule string `json:"snapshotSchedule,omitempty" yaml:"snapshotSchedule,omitempty"`
	SnapshotDir      string `json:"snapshotDir,omitempty" yaml:"snapshotDir,omitempty"`

	// DataDir confines the source files a chart request may load, relative paths only.
	DataDir string `json:"dataDir,omitempty" yaml:"dataDir,omitempty"`
}

type Config struct {
	Symbol   string         `json:"symbol" yaml:"symbol"`
	Interval types.Interval `json:"interval" yaml:"interval"`

	Width            float64 `json:"width" yaml:"width"`
	Height           float64 `json:"height" yaml:"height"`
	DevicePixelRatio float64 `json:"devicePixelRatio" yaml:"devicePixelRatio"`

	// Timezone is an IANA name used for the time axis labels, UTC when empty.
	Timezone string `json:"timezone,omitempty" yaml:"timezone,omitempty"`

	Candles   StringSlice      `json:"candles" yaml:"candles"`
	CSVFormat csvsource.Format `json:"csvFormat" yaml:"csvFormat"`
	Overlays  string           `json:"overlays,omitempty" yaml:"overlays,omitempty"`
	Output    string           `json:"output" yaml:"output"`

	Settings chart.Settings `json:"settings" yaml:"settings"`
	Viewport chart.Viewport `json:"viewport" yaml:"viewport"`
	Cursor   *Cursor        `json:"cursor,omitempty" yaml:"cursor,omitempty"`

	Server Server `json:"server" yaml:"server"`
}

// Default returns a configuration with every field populated.
func Default() *Config {
	return &Config{
		Symbol:           DefaultSymbol,
		Interval:         DefaultInterval,
		Width:            chart.DefaultWidth,
		Height:           chart.DefaultHeight,
		DevicePixelRatio: 1.0,
		CSVFormat:        csvsource.FormatBinance,
		Output:           DefaultOutputDir,
		Settings:         chart.DefaultSettings(),
		Viewport:         chart.DefaultViewport(),
		Server: Server{
			Bind:      DefaultBind,
			RateLimit: DefaultRateLimit,
		},
	}
}

// Load reads the YAML file on top of the defaults and validates the result.
func Load(configFile string) (*Config, error) {
	data, err := os.ReadFile(configFile)
	if err != nil {
		return nil, err
	}

	config, err := Parse(data)
	if err != nil {
		return nil, errors.Wrapf(err, "config %s", configFile)
	}

	return config, nil
}

func Parse(data []byte) (*Config, error) {
	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() (err error) {
	if c.Symbol == "" {
		err = multierr.Append(err, errors.New("symbol is required"))
	}

	if !c.Interval.IsSupported() {
		err = multierr.Append(err, fmt.Errorf("unsupported interval %q", c.Interval))
	}

	if !(c.Width > 0) || !(c.Height > 0) {
		err = multierr.Append(err, fmt.Errorf("invalid surface size %vx%v", c.Width, c.Height))
	}

	if !(c.DevicePixelRatio > 0) || math.IsInf(c.DevicePixelRatio, 0) {
		err = multierr.Append(err, fmt.Errorf("invalid devicePixelRatio %v", c.DevicePixelRatio))
	}

	if _, e := csvsource.ReaderFor(c.CSVFormat); e != nil {
		err = multierr.Append(err, fmt.Errorf("csvFormat %q: %w", c.CSVFormat, e))
	}

	switch c.Settings.Theme {
	case chart.ThemeDark, chart.ThemeLight:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown theme %q", c.Settings.Theme))
	}

	if c.Viewport.Zoom < 0 {
		err = multierr.Append(err, fmt.Errorf("negative zoom %v", c.Viewport.Zoom))
	}

	if _, e := c.Location(); e != nil {
		err = multierr.Append(err, e)
	}

	return err
}

// Location resolves the label timezone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "timezone %q", c.Timezone)
	}
	return loc, nil
}

// NewChart builds a chart instance from the configuration. Data is not loaded.
func (c *Config) NewChart() (*chart.Chart, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}

	ch := chart.New(c.Symbol, c.Interval)
	ch.Resize(c.Width, c.Height, c.DevicePixelRatio)
	ch.Settings = c.Settings
	ch.Location = loc
	ch.Controller().SetViewport(c.Viewport)
	return ch, nil
}
