package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chrisdamba/foodcloud/internal/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "foodcloud",
	Short: "Food ordering storefront with live order tracking",
	Long: `foodcloud serves a food ordering storefront: menu browsing, per-session carts,
checkout, order history with a live auto-advancing tracker, and a restaurant
dashboard. All state lives in memory for the lifetime of the process.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.foodcloud.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Int64("seed", 42, "Random seed for generated data")
	rootCmd.PersistentFlags().String("menu-source", "static", "Menu source (static, faker, postgres)")
	rootCmd.PersistentFlags().String("output-format", "none", "Order event output (none, console, json, csv, parquet, kafka)")

	bindFlag(rootCmd, "log_level", "log-level")
	bindFlag(rootCmd, "seed", "seed")
	bindFlag(rootCmd, "menu.source", "menu-source")
	bindFlag(rootCmd, "output.format", "output-format")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	f := cmd.PersistentFlags().Lookup(flag)
	if f == nil {
		f = cmd.Flags().Lookup(flag)
	}
	cobra.CheckErr(viper.BindPFlag(key, f))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".foodcloud")
	}

	viper.SetEnvPrefix("FOODCLOUD")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged configuration and configures logging.
func loadConfig() (*models.Config, error) {
	cfg, err := models.LoadConfig(viper.GetViper(), "")
	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
