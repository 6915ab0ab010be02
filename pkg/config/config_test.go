package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/c9s/smcchart/pkg/chart"
	"github.com/c9s/smcchart/pkg/types"
)

func TestLoadConfig(t *testing.T) {
	tests := []struct {
		name       string
		configFile string
		wantErr    bool
		f          func(t *testing.T, config *Config)
	}{
		{
			name:       "full",
			configFile: "testdata/chart.yaml",
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, "ETHUSDT", config.Symbol)
				assert.Equal(t, types.Interval15m, config.Interval)
				assert.Equal(t, 1280.0, config.Width)
				assert.Equal(t, 2.0, config.DevicePixelRatio)
				assert.Equal(t, StringSlice{"data/ETHUSDT-15m-a.csv", "data/ETHUSDT-15m-b.csv"}, config.Candles)
				assert.Equal(t, chart.ModeHeikinAshi, config.Settings.Mode)
				assert.Equal(t, chart.ThemeLight, config.Settings.Theme)
				assert.False(t, config.Settings.ShowVolume)
				// fields absent from the file keep their defaults
				assert.True(t, config.Settings.ShowGrid)
				assert.Equal(t, chart.Viewport{Zoom: 2, PanX: -120}, config.Viewport)
				require.NotNil(t, config.Cursor)
				assert.Equal(t, 400.0, config.Cursor.X)
				assert.Equal(t, ":9090", config.Server.Bind)
				assert.Equal(t, DefaultRateLimit, config.Server.RateLimit)
				assert.Equal(t, "@every 5m", config.Server.SnapshotSchedule)
				assert.Equal(t, "data", config.Server.DataDir)
			},
		},
		{
			name:       "minimal",
			configFile: "testdata/minimal.yaml",
			f: func(t *testing.T, config *Config) {
				assert.Equal(t, DefaultSymbol, config.Symbol)
				assert.Equal(t, StringSlice{"data/BTCUSDT-1h.csv"}, config.Candles)
				assert.Equal(t, chart.DefaultSettings(), config.Settings)
				assert.Equal(t, chart.DefaultViewport(), config.Viewport)
				assert.Nil(t, config.Cursor)
			},
		},
		{
			name:       "invalid",
			configFile: "testdata/invalid.yaml",
			wantErr:    true,
		},
		{
			name:       "missing",
			configFile: "testdata/missing.yaml",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := Load(tt.configFile)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			require.NotNil(t, config)
			if tt.f != nil {
				tt.f(t, config)
			}
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	config := Default()
	config.Symbol = ""
	config.Interval = "7m"
	config.Width = 0
	config.DevicePixelRatio = -1
	config.CSVFormat = "excel"
	config.Settings.Theme = "neon"
	config.Timezone = "Mars/Olympus"

	err := config.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 7)
}

func TestConfig_NewChart(t *testing.T) {
	config, err := Load("testdata/chart.yaml")
	require.NoError(t, err)

	c, err := config.NewChart()
	require.NoError(t, err)
	assert.Equal(t, "ETHUSDT", c.Symbol)
	assert.Equal(t, 1280.0, c.Width)
	assert.Equal(t, 2.0, c.PixelRatio)
	assert.Equal(t, "Asia/Taipei", c.Location.String())
	assert.Equal(t, chart.Viewport{Zoom: 2, PanX: -120}, c.Viewport())
	assert.Equal(t, "ETHUSDT_15m_advanced_chart.png", c.ExportFileName())
}

func TestStringSlice(t *testing.T) {
	var s StringSlice
	require.NoError(t, s.UnmarshalJSON([]byte(`"a.csv"`)))
	assert.Equal(t, StringSlice{"a.csv"}, s)

	require.NoError(t, s.UnmarshalJSON([]byte(`["a.csv", "b.csv"]`)))
	assert.Equal(t, StringSlice{"a.csv", "b.csv"}, s)

	assert.Error(t, s.UnmarshalJSON([]byte(`{"a": 1}`)))
}
