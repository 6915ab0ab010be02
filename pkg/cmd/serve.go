package cmd

import (
	"errors"
	"net/http"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/c9s/smcchart/pkg/config"
	"github.com/c9s/smcchart/pkg/server"
)

func init() {
	ServeCmd.Flags().String("bind", config.DefaultBind, "the address the preview server listens on")
	ServeCmd.Flags().String("rate-limit", config.DefaultRateLimit, "pointer events per chart, burst+n/duration")
	ServeCmd.Flags().String("snapshot-schedule", "", "cron spec for exporting every chart, e.g. @every 5m")
	ServeCmd.Flags().String("snapshot-dir", "snapshots", "the directory of scheduled exports")
	ServeCmd.Flags().String("data-dir", "", "the directory chart requests may load source files from")
	RootCmd.AddCommand(ServeCmd)
}

var ServeCmd = &cobra.Command{
	Use:   "serve [--bind :8080]",
	Short: "run the chart preview server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Default()
		if configFile := viper.GetString("config"); configFile != "" {
			var err error
			if cfg, err = config.Load(configFile); err != nil {
				return err
			}
		}

		flags := cmd.Flags()
		if flags.Changed("bind") || cfg.Server.Bind == "" {
			cfg.Server.Bind, _ = flags.GetString("bind")
		}
		if flags.Changed("rate-limit") {
			cfg.Server.RateLimit, _ = flags.GetString("rate-limit")
		}
		if flags.Changed("snapshot-schedule") {
			cfg.Server.SnapshotSchedule, _ = flags.GetString("snapshot-schedule")
		}
		if flags.Changed("snapshot-dir") || cfg.Server.SnapshotDir == "" {
			cfg.Server.SnapshotDir, _ = flags.GetString("snapshot-dir")
		}
		if flags.Changed("data-dir") {
			cfg.Server.DataDir, _ = flags.GetString("data-dir")
		}

		srv, err := server.New(server.FileLoader{}, server.Options{
			RateLimit:        cfg.Server.RateLimit,
			SnapshotSchedule: cfg.Server.SnapshotSchedule,
			SnapshotDir:      cfg.Server.SnapshotDir,
			DataDir:          cfg.Server.DataDir,
		})
		if err != nil {
			return err
		}

		if err := srv.Run(cmd.Context(), cfg.Server.Bind); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		log.Info("chart preview server stopped")
		return nil
	},
}
