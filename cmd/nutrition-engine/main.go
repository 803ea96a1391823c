// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the nutrition-engine CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/nutrition-engine/internal/logging"
	"github.com/pdiddy/nutrition-engine/internal/secrets"
	"github.com/pdiddy/nutrition-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	// cfg is the resolved configuration, filled in PersistentPreRunE.
	cfg types.EngineConfig

	// logger writes to stderr at the configured level.
	logger = logging.Discard()
)

// rootCmd is the base command for the nutrition-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "nutrition-engine",
	Short: "Find nutrition facts for foods and compute recipe totals",
	Long: `nutrition-engine searches the Open Food Facts database by name or barcode,
ranks results across the device language and English, and computes the
nutrients of recipes with weight and volume units.

Search results are cached on disk so repeated queries need no network.
Recipes can be saved to a local SQLite recipe book. The serve command
exposes the same operations as a JSON HTTP API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		cfg = loaded
		logger = logging.New(cfg.Log, os.Stderr)

		s, err := secrets.Load(secrets.DefaultDir, logger)
		if err != nil {
			return err
		}
		secrets.Apply(&cfg, s)
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			logger.Debug("loaded secrets", slog.String("keys", strings.Join(keys, ",")))
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./nutrition-engine.yaml or ~/.config/nutrition-engine/nutrition-engine.yaml)")
	rootCmd.PersistentFlags().String("locale", "", "device locale, e.g. sv, sv_SE.UTF-8 or Swedish (default: $LANG)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("no-cache", false, "neither read nor write the search cache")
	rootCmd.PersistentFlags().Bool("no-translate", false, "search in the device language only")

	viper.BindPFlag("locale", rootCmd.PersistentFlags().Lookup("locale"))
	viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("cache.disabled", rootCmd.PersistentFlags().Lookup("no-cache"))

	setDefaults(viper.GetViper())
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("nutrition-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "nutrition-engine"))
		}
	}

	viper.SetEnvPrefix("NUTRITION_ENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
