package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"farc/internal/config"
	"farc/internal/jobs"
)

// Global debug flag
var debugMode bool

// debugPrint prints debug messages only when debug mode is enabled
func debugPrint(format string, args ...interface{}) {
	if debugMode {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

var rootCmd = &cobra.Command{
	Use:   "farc",
	Short: "Archive and search toolkit",
	Long: `farc creates, extracts and lists archives across zip, tar, gzip, bzip2,
lz4 and 7-Zip, and searches directory trees by file name or content,
optionally backed by a persistent content index.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		debugMode = viper.GetBool("debug")
		if debugMode {
			jobs.SetDebug(debugPrint)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("prefer-tools", false, "Use external command-line tools instead of built-in codecs")
	viper.BindPFlags(rootCmd.PersistentFlags())
}

func initConfig() {
	viper.SetEnvPrefix("FARC")
	viper.AutomaticEnv()
}

// loadConfig merges the on-disk configuration with flag and environment
// overrides.
func loadConfig() *config.Config {
	cfg, err := config.NewManager().Load()
	if err != nil {
		debugPrint("config load failed, using defaults: %v", err)
		cfg = config.Default()
	}
	if viper.GetBool("prefer-tools") {
		cfg.Archive.PreferTools = true
	}
	return cfg
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
