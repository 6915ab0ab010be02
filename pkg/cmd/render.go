package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c9s/smcchart/pkg/cmd/cmdutil"
	"github.com/c9s/smcchart/pkg/config"
	"github.com/c9s/smcchart/pkg/server"
)

func init() {
	cmdutil.ChartFlags(RenderCmd.Flags())
	RenderCmd.Flags().String("output", "", "the output directory of the png file")
	RenderCmd.Flags().Float64("cursor-x", 0, "place the cursor at this x to draw the crosshair")
	RenderCmd.Flags().Float64("cursor-y", 0, "place the cursor at this y to draw the crosshair")
	RootCmd.AddCommand(RenderCmd)
}

var RenderCmd = &cobra.Command{
	Use:   "render [--config chart.yaml] [--candles file.csv] [--overlays overlays.json] [--output dir]",
	Short: "render one chart frame into a png file",
	RunE:  render,
}

func render(cmd *cobra.Command, args []string) error {
	cfg, err := cmdutil.LoadChartConfig(cmd.Flags(), viper.GetString("config"))
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("output") {
		if cfg.Output, err = cmd.Flags().GetString("output"); err != nil {
			return err
		}
	}

	if cmd.Flags().Changed("cursor-x") || cmd.Flags().Changed("cursor-y") {
		x, _ := cmd.Flags().GetFloat64("cursor-x")
		y, _ := cmd.Flags().GetFloat64("cursor-y")
		cfg.Cursor = &config.Cursor{X: x, Y: y}
	}

	if len(cfg.Candles) == 0 {
		return fmt.Errorf("--candles or the candles field of the config file is required")
	}

	filePath, err := renderToFile(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	log.Infof("chart saved to %s", filePath)
	return nil
}

func renderToFile(ctx context.Context, cfg *config.Config) (string, error) {
	ch, err := cfg.NewChart()
	if err != nil {
		return "", err
	}

	series, overlays, err := server.LoadSource(ctx, server.FileLoader{}, server.Source{
		Candles:   cfg.Candles,
		CSVFormat: cfg.CSVFormat,
		Overlays:  cfg.Overlays,
	})
	if err != nil {
		return "", err
	}

	if len(series) == 0 {
		log.Warnf("no candles found in %v, the frame will be blank", cfg.Candles)
	}

	ch.SetData(series, overlays)
	if cfg.Cursor != nil {
		cur := ch.PointerEnter(cfg.Cursor.X, cfg.Cursor.Y)
		log.Debugf("cursor at %.1f,%.1f hovers candle %d", cur.X, cur.Y, cur.HoveredIndex)
	}

	if err := os.MkdirAll(cfg.Output, 0755); err != nil {
		return "", errors.Wrapf(err, "unable to create output directory %s", cfg.Output)
	}

	// concurrent renders of the same symbol and interval write the same file
	fileLock := flock.New(filepath.Join(cfg.Output, "."+ch.ExportFileName()+".lock"))
	if err := fileLock.Lock(); err != nil {
		return "", errors.Wrap(err, "export file lock error")
	}
	defer func() {
		if err := fileLock.Unlock(); err != nil {
			log.WithError(err).Errorf("export file unlock error")
		}
	}()

	return ch.SaveAs(cfg.Output)
}
