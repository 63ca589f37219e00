package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"BizBoost/internal/config"
)

var (
	flagConfig string

	cfg    *config.Config
	logger *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:           "bizboost",
	Short:         "What-if scenario engine for small-business dashboards",
	Long:          "Simulate revenue, headcount and expense changes on a business snapshot and get advisory feedback.",
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// A missing .env is fine; real environment variables still apply.
		_ = godotenv.Load()

		c, err := config.Load(flagConfig)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if err := c.Validate(); err != nil {
			return fmt.Errorf("config validation: %w", err)
		}
		cfg = c
		logger = newLogger(c, cmd.ErrOrStderr())
		return nil
	},
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", defaultConfig, "Path to the YAML config file")
}
