// internal/cli/root.go
package ragdeck

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ragdeck/internal/appconfig"
	"ragdeck/internal/logging"
)

var (
	cfgFile       string
	currentConfig *appconfig.Config
	appVersion    = "dev"
	appCommit     = "none"
	appDate       = "unknown"
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "ragdeck",
	Short: "ragdeck — terminal wizard for a setup/ingest/query RAG gateway",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureConfigLoaded(); err != nil {
			return err
		}

		if !cmd.Flags().Changed("debug") {
			_ = cmd.Flags().Set("debug", strconv.FormatBool(viper.GetBool("debug")))
		}
		for _, name := range []string{"gateway", "logFile"} {
			if !cmd.Flags().Changed(name) {
				_ = cmd.Flags().Set(name, viper.GetString(name))
			}
		}
		if !cmd.Flags().Changed("timeout") {
			_ = cmd.Flags().Set("timeout", strconv.Itoa(viper.GetInt("timeout")))
		}

		cfg := appconfig.Config{
			GatewayURL:     viper.GetString("gateway"),
			Debug:          viper.GetBool("debug"),
			TimeoutSeconds: viper.GetInt("timeout"),
			LogFile:        viper.GetString("logFile"),
			ManualLabel:    viper.GetString("manualLabel"),
			DefaultK:       viper.GetInt("defaultK"),
		}
		cfg.ConfigPath = cfgFile
		currentConfig = &cfg

		if err := logging.Init(currentConfig.LogFilePath()); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", appVersion, appCommit, appDate)

	defer logging.Close()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config/config.json", "config file (e.g., config/config.json)")

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug output")
	rootCmd.PersistentFlags().String("gateway", "", "gateway base address (default http://localhost:8000)")
	rootCmd.PersistentFlags().Int("timeout", 0, "gateway request timeout in seconds (0 = default)")
	rootCmd.PersistentFlags().String("logFile", "", "path to the log file")

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindPFlag("gateway", rootCmd.PersistentFlags().Lookup("gateway"))
	_ = viper.BindPFlag("timeout", rootCmd.PersistentFlags().Lookup("timeout"))
	_ = viper.BindPFlag("logFile", rootCmd.PersistentFlags().Lookup("logFile"))
}

// initConfig reads in the config file if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

// ensureConfigLoaded reads the config file into viper. When the default
// path is missing, appconfig.Load takes over: it knows the legacy
// config location and the built-in defaults, and its values are seeded
// into viper so the flag layering still applies on top.
func ensureConfigLoaded() error {
	err := viper.ReadInConfig()
	if err == nil {
		return nil
	}
	if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
		if _, ok := err.(*os.PathError); !ok {
			return fmt.Errorf("failed to load config: %w", err)
		}
	}

	fileCfg, err := appconfig.Load(cfgFile)
	if err != nil {
		return err
	}
	viper.SetDefault("gateway", fileCfg.GatewayURL)
	viper.SetDefault("debug", fileCfg.Debug)
	viper.SetDefault("timeout", fileCfg.TimeoutSeconds)
	viper.SetDefault("logFile", fileCfg.LogFile)
	viper.SetDefault("manualLabel", fileCfg.ManualLabel)
	viper.SetDefault("defaultK", fileCfg.DefaultK)
	return nil
}

// GetConfig returns the loaded application configuration for other packages.
func GetConfig() *appconfig.Config {
	return currentConfig
}

// DebugEnabled returns true if debug mode is enabled.
func DebugEnabled() bool { return viper.GetBool("debug") }

// SetVersionInfo allows the main package to inject build-time variables.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}
