package cmd

import (
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string

	// Global output flags only
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "go-iso9660",
	Short: "Read-only ISO9660 explorer with Rock Ridge support",
	Long: `go-iso9660 is a read-only command-line tool for exploring ISO9660
images and the POSIX metadata their Rock Ridge extensions record.

Works directly with .iso files without mounting. Shows the long names,
permissions, ownership, timestamps, symlink targets, and relocation
markers that the System Use areas carry.

Commands:
  list       Show volume identity and the top-level directory
  inspect    Walk the directory tree and decode Rock Ridge metadata`,
	Version: "0.1.0-dev",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if viper.GetBool("verbose") {
			log.SetLevel(log.DebugLevel)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.go-iso9660.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "output format (table, json)")

	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))

	log.SetOutput(os.Stderr)
	log.SetLevel(log.InfoLevel)
}

// initConfig reads in a config file and ISO9660_* environment
// variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".go-iso9660")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("ISO9660")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
		// No config file is fine, flags and defaults apply.
	} else {
		log.Debugf("Using config file: %s", viper.ConfigFileUsed())
	}
}
