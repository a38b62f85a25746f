package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	adapterhttp "lfreleng/internal/adapters/http"
	"lfreleng/internal/adapters/terminal"
	"lfreleng/internal/config"
	"lfreleng/internal/logging"
)

var cfgFile string

// Build information
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
	builtBy = "unknown"
)

// SetVersionInfo updates the build information variables
func SetVersionInfo(v, c, d, b string) {
	version = v
	commit = c
	date = d
	builtBy = b
}

var rootCmd = &cobra.Command{
	Use:   "lfreleng",
	Short: "Linux Foundation release engineering command-line tools",
	Long: `lfreleng bundles the release engineering utilities used across
Linux Foundation projects: OpenStack resource cleanup, INFO.yaml
governance tooling, and LFID/GitHub group membership management.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI. Any fatal condition is reported with an ERROR
// prefix and exit status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.config/lfreleng/config.yaml)")
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home + "/.config/lfreleng")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("LFRELENG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// toolConfig resolves the viper state into an explicit value; commands
// pass it down so nothing below the CLI reads ambient configuration.
func toolConfig() config.Config {
	return config.FromViper(viper.GetViper())
}

func newAdapter() *adapterhttp.Adapter {
	return adapterhttp.NewAdapter(30*time.Second, false, logging.Default().Logger)
}

// promptSecret reads a secret from the terminal without echo. envVar
// allows CI jobs to supply the secret through the environment instead.
func promptSecret(prompt, envVar string) (string, error) {
	return terminal.NewAdapter(os.Stdin, os.Stderr).ReadSecret(prompt, envVar)
}
