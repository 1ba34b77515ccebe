package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/toonforge/toonforge/internal/config"
)

var (
	cfgFile string

	// rootCmd represents the base command when called without any subcommands
	rootCmd = &cobra.Command{
		Use:   "toonforge",
		Short: "Rules-driven character builder and tracker",
		Long: `toonforge builds and tracks tabletop characters from declarative
rulebook data. Classes, races and backgrounds are JSON documents; every
derived number (armor class, hit points, resource pools, spell slots)
is recalculated from them, so data fixes reach existing characters the
next time they load.

Examples:
  toonforge create "Mira Vex" --owner alice --race half-elf --class sorcerer
  toonforge levelup <id> --class sorcerer
  toonforge rest <id> --tier long
  toonforge export <id> --format html`,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./toonforge.yaml)")
	rootCmd.PersistentFlags().String("data-dir", "", "rulebook data directory")
	rootCmd.PersistentFlags().String("store", "", "character store backend: redis or memory")
	rootCmd.PersistentFlags().String("redis-addr", "", "redis server address")
	rootCmd.PersistentFlags().String("output-dir", "", "directory for exported sheets")

	for _, key := range []string{"data-dir", "store", "redis-addr", "output-dir"} {
		if err := viper.BindPFlag(key, rootCmd.PersistentFlags().Lookup(key)); err != nil {
			panic(err)
		}
	}
}

// initConfig reads in the config file and environment variables if set.
// Precedence: flags, then TOONFORGE_* environment, then config file,
// then the defaults from internal/config.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName("toonforge")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("TOONFORGE")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	envCfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	if envCfg != nil {
		viper.SetDefault("data-dir", envCfg.Library.DataDir)
		viper.SetDefault("store", "redis")
		viper.SetDefault("redis-addr", envCfg.Redis.Addr)
		viper.SetDefault("redis-db", envCfg.Redis.DB)
		viper.SetDefault("output-dir", envCfg.Export.OutputDir)
		viper.SetDefault("pdf-template", envCfg.Export.PDFTemplate)
	}

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// Execute adds all child commands to the root command and sets flags
// appropriately. Called once by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func fail(format string, args ...any) {
	fmt.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}
