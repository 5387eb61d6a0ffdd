package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "traveltime",
	Short: "Estimates urban travel times",
	Long: `traveltime predicts how long a trip across the city takes for a given day and
departure time, combining road and traffic heuristics with a trained model.`,
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.json)")

	rootCmd.PersistentFlags().Int64("seed", 0, "Random seed for the heuristics (0 picks one from the clock)")
	rootCmd.PersistentFlags().String("model-path", "", "Path of the model artifact")
	rootCmd.PersistentFlags().String("output-format", "", "Output format for prediction records: console, json, csv or parquet")
	rootCmd.PersistentFlags().String("output-path", "", "Base directory for file output")
	rootCmd.PersistentFlags().Bool("kafka-enabled", false, "Publish prediction records to Kafka")
	rootCmd.PersistentFlags().Int("workers", 0, "Concurrent predictions for batch and simulate")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error")

	bindFlag("seed", "seed")
	bindFlag("model_path", "model-path")
	bindFlag("output_format", "output-format")
	bindFlag("output_path", "output-path")
	bindFlag("kafka_enabled", "kafka-enabled")
	bindFlag("workers", "workers")
	bindFlag("log_level", "log-level")

	rootCmd.AddCommand(predictCmd, trafficCmd, historyCmd, batchCmd, simulateCmd)
}

// bindFlag binds a flag to a config key. Unset flags leave the config value
// alone.
func bindFlag(key, flag string) {
	if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(flag)); err != nil {
		cobra.CheckErr(fmt.Errorf("failed to bind flag %s: %w", flag, err))
	}
}

// initConfig loads a .env file into the environment so viper.AutomaticEnv
// sees it.
func initConfig() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Error loading .env file: %v\n", err)
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
