package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/encoder-quality/internal/encoder"
	"github.com/psantana5/encoder-quality/internal/logging"
)

var (
	cfgFile      string
	assetsDir    string
	resourcesDir string
	outputDir    string
	logLevel     string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "encq",
	Short: "Quality regression harness for video encoders",
	Long: `encq runs sets of test assets through video encoders and scores every
encoded output against its source with VMAF, in parallel, with per-encode
timeouts and fail-fast support.`,
	SilenceUsage: true,
}

// ExitCodeError makes a command exit with a specific process exit code.
type ExitCodeError struct {
	Code    int
	Message string
}

func (e *ExitCodeError) Error() string {
	return e.Message
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ec *ExitCodeError
		if errors.As(err, &ec) {
			return ec.Code
		}
		return 1
	}
	return 0
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.encq/config)")
	rootCmd.PersistentFlags().StringVar(&assetsDir, "assets-dir", "assets",
		fmt.Sprintf("directory where asset lists are read from, multiple directories are supported with OS path separator (%c)", os.PathListSeparator))
	rootCmd.PersistentFlags().StringVar(&resourcesDir, "resources-dir", "resources",
		"directory where downloaded resources are stored")
	rootCmd.PersistentFlags().StringVar(&outputDir, "output-dir", filepath.Join(os.TempDir(), "encq_output"),
		"directory where encoder outputs are stored")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			os.Exit(1)
		}

		// Search config in home directory with name ".encq/config" (without extension)
		viper.AddConfigPath(filepath.Join(home, ".encq"))
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("ENCQ")
	viper.AutomaticEnv() // read in environment variables that match

	viper.BindEnv("assets_dir")
	viper.BindEnv("resources_dir")
	viper.BindEnv("output_dir")
	viper.BindEnv("log_level")

	// The config file is optional
	_ = viper.ReadInConfig()

	applyConfigString("assets-dir", "assets_dir", &assetsDir)
	applyConfigString("resources-dir", "resources_dir", &resourcesDir)
	applyConfigString("output-dir", "output_dir", &outputDir)
	applyConfigString("log-level", "log_level", &logLevel)
}

// applyConfigString fills target from env or the config file unless the flag
// was given explicitly. Precedence: flag > env > config file > default.
func applyConfigString(flag, key string, target *string) {
	if rootCmd.PersistentFlags().Changed(flag) {
		return
	}
	if v := viper.GetString(key); v != "" {
		*target = v
	}
}

func newLogger() *logging.Logger {
	return logging.NewLogger(logging.ParseLevel(logLevel), false)
}

// buildRegistry returns the builtin encoders plus the variants of an
// optional catalog file.
func buildRegistry(catalogPath string) (*encoder.Registry, error) {
	registry, err := encoder.Builtin()
	if err != nil {
		return nil, err
	}
	if catalogPath == "" {
		return registry, nil
	}

	extra, err := encoder.LoadCatalog(catalogPath)
	if err != nil {
		return nil, err
	}
	for _, enc := range extra {
		if err := registry.Register(enc); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
