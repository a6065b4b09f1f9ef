// Package cli provides the blueprint command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Work with Render-style deployment blueprints",
	Long: `blueprint reads, checks, and writes render.yaml deployment manifests:

  validate   Parse blueprints and check manifest rules
  env        Compare declared env vars against the source tree
  convert    Produce a blueprint from docker-compose, fly.toml, or a Procfile
  init       Detect the app framework and write a starter blueprint
  export     Emit the normalized deployment model as JSON or YAML`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.blueprint.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".blueprint")
	}

	viper.SetEnvPrefix("BLUEPRINT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}
