package softkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/dasdy/softkeys/logging"
	"github.com/dasdy/softkeys/prefs"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

var logCtx = logging.PackageCtx("cmd")

var (
	cfgFile    string
	layoutsDir string
	verbose    bool
	logLevel   string
)

// LogLevel is the level of the default logger, set from --log-level.
var LogLevel = new(slog.LevelVar)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "softkeys",
	Short: "Drive a soft keyboard from recorded or live touch events",
	Long: `Softkeys runs the input engine of a soft keyboard: keyboard switching,
layout composition and multi-pointer touch tracking. Touch events come from
touch panels, files or stdin, and every typed key is logged to a database
that can be visualized as a heat map.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		bindFlags(cmd, args)

		level, err := logging.ParseLevel(logLevel)
		if err != nil {
			return err
		}

		LogLevel.Set(level)

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.softkeys.toml)")
	rootCmd.PersistentFlags().StringVar(&layoutsDir, "layouts", "data/layouts",
		"Directory with keyboard layout definitions")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"If provided, every key event is logged")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info",
		"Minimal level of logged messages: debug, info, warn or error")
}

func initConfig() {
	prefs.SetDefaults(viper.GetViper())

	if cfgFile != "" {
		slog.DebugContext(logCtx, "Using config file", "path", cfgFile)
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("toml")
		viper.SetConfigName(".softkeys")
	}

	viper.SetEnvPrefix("softkeys")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if !errors.As(err, &configFileNotFoundError) {
			slog.ErrorContext(logCtx, "Error reading config file", "error", err)
			os.Exit(1)
		}

		slog.InfoContext(logCtx, "No config file found, using defaults")

		return
	}

	slog.InfoContext(logCtx, "Loaded config file", "path", viper.ConfigFileUsed())
}

// set values to the PFlag variables from config, if they are set. Priority is still given to explicitly provided CLI flags.
func bindFlags(cmd *cobra.Command, _ []string) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		// Since viper does case-insensitive comparisons, we only need to remove the hyphens.
		configName := strings.ReplaceAll(f.Name, "-", "")

		if !f.Changed && viper.IsSet(configName) {
			val := viper.Get(configName)

			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				slog.ErrorContext(logCtx, "Error setting flag from config", "flag", f.Name, "error", err)
				panic(err)
			}

			slog.DebugContext(logCtx, "Flag set to config value", "flag", f.Name, "value", val)
		}
	})
}

// loadPreferences decodes the config and loads the layout catalog with it.
func loadPreferences() (prefs.Preferences, error) {
	p, err := prefs.Load(viper.GetViper())
	if err != nil {
		return prefs.Preferences{}, fmt.Errorf("invalid config: %w", err)
	}

	return p, nil
}
