package cmd

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/rifflock/lfshook"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"
	"gopkg.in/natefinch/lumberjack.v2"
)

var RootCmd = &cobra.Command{
	Use:   "smcchart",
	Short: "smart money concept chart renderer",
	Long:  "render candlestick charts with order blocks, fair value gaps, liquidity zones and break of structure markers",

	// SilenceUsage is an option to silence usage when an error occurs.
	SilenceUsage: true,

	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := loadDotenv(); err != nil {
			return err
		}

		setupLogging()
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

func init() {
	RootCmd.PersistentFlags().Bool("debug", false, "debug flag")
	RootCmd.PersistentFlags().String("config", "", "chart config file")
	RootCmd.PersistentFlags().String("log-file", "", "write json logs to a rotating file")
	RootCmd.PersistentFlags().String("dotenv", ".env.local", "the dotenv file to load before the .env file")
}

func loadDotenv() error {
	for _, dotenvFile := range []string{viper.GetString("dotenv"), ".env"} {
		if dotenvFile == "" {
			continue
		}

		if _, err := os.Stat(dotenvFile); err != nil {
			continue
		}

		// godotenv.Load never overrides variables that are already set
		if err := godotenv.Load(dotenvFile); err != nil {
			log.WithError(err).Errorf("error loading dotenv file %s", dotenvFile)
			return err
		}
	}

	return nil
}

func setupLogging() {
	logger := log.StandardLogger()

	switch os.Getenv("SMCCHART_ENV") {
	case "production", "prod", "staging":
		logger.SetFormatter(&log.JSONFormatter{})
	default:
		logger.SetFormatter(&prefixed.TextFormatter{})
	}

	if viper.GetBool("debug") {
		logger.SetLevel(log.DebugLevel)
	}

	if logFile := viper.GetString("log-file"); logFile != "" {
		writer := &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    100, // megabytes
			MaxBackups: 7,
			MaxAge:     28, // days
		}
		logger.AddHook(
			lfshook.NewHook(
				lfshook.WriterMap{
					log.DebugLevel: writer,
					log.InfoLevel:  writer,
					log.WarnLevel:  writer,
					log.ErrorLevel: writer,
					log.FatalLevel: writer,
				},
				&log.JSONFormatter{},
			),
		)
	}
}

func Execute() {
	viper.SetEnvPrefix("smcchart")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Enable environment variable binding, the env vars are not overloaded yet.
	viper.AutomaticEnv()

	// Once the flags are defined, we can bind config keys with flags.
	if err := viper.BindPFlags(RootCmd.PersistentFlags()); err != nil {
		log.WithError(err).Errorf("failed to bind persistent flags. please check the flag settings.")
	}

	if err := viper.BindPFlags(RootCmd.Flags()); err != nil {
		log.WithError(err).Errorf("failed to bind local flags. please check the flag settings.")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := RootCmd.ExecuteContext(ctx); err != nil {
		log.WithError(err).Fatalf("cannot execute command")
	}
}
