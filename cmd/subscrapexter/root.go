// cmd/subscrapexter/root.go
package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/valpere/SubScrapexter/internal/config"
	apperrors "github.com/valpere/SubScrapexter/internal/errors"
	"github.com/valpere/SubScrapexter/internal/utils"
)

// envPrefix namespaces environment overrides, e.g. SUBSCRAPEXTER_OUTPUT_FILE
const envPrefix = "SUBSCRAPEXTER"

// app holds the state of one command-line invocation
type app struct {
	stdout io.Writer
	stderr io.Writer

	viper  *viper.Viper
	errors *apperrors.Service

	configFile string
	verbose    bool
}

func newApp(stdout, stderr io.Writer) *app {
	return &app{
		stdout: stdout,
		stderr: stderr,
		viper:  viper.New(),
		errors: apperrors.NewService(),
	}
}

// rootCommand builds the command tree
func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "subscrapexter",
		Short: "Extract YouTube subscriptions from a saved MHTML page",
		Long: `SubScrapexter reads a YouTube subscriptions page saved as MHTML
("Web Page, Single File") and exports every channel with its link,
profile image, subscriber count and description.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.errors.WithVerbose(a.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	root.SetVersionTemplate(versionText())
	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperrors.Config(err, "invalid command line")
	})

	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "YAML configuration file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging, technical error details, sample channels")

	root.AddCommand(
		a.extractCommand(),
		a.inspectCommand(),
		a.templateCommand(),
		a.versionCommand(),
	)
	return root
}

// exactArgs reports wrong positional arguments as configuration errors
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return apperrors.Config(err, "usage: %s", cmd.UseLine())
		}
		return nil
	}
}

// loadConfig resolves the run configuration. Precedence is flags, then
// SUBSCRAPEXTER_* environment variables, then the config file, then defaults.
// flagKeys maps configuration keys to the command's flag names.
func (a *app) loadConfig(cmd *cobra.Command, flagKeys map[string]string) (*config.Config, error) {
	v := a.viper

	setDefaults(v, config.Default())

	if a.configFile != "" {
		fileCfg, err := config.LoadFromFile(a.configFile)
		if err != nil {
			return nil, apperrors.Config(err, "failed to load configuration")
		}
		data, err := yaml.Marshal(fileCfg)
		if err != nil {
			return nil, apperrors.Config(err, "failed to load configuration")
		}
		v.SetConfigType("yaml")
		if err := v.ReadConfig(bytes.NewReader(data)); err != nil {
			return nil, apperrors.Config(err, "failed to read configuration")
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, name := range flagKeys {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			return nil, apperrors.Config(nil, "unknown flag --%s", name)
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, apperrors.Config(err, "failed to bind --%s", name)
		}
	}

	cfg := &config.Config{
		Extractor: config.ExtractorConfig{
			Quality:              v.GetString("extractor.quality"),
			Encoding:             v.GetString("extractor.encoding"),
			Workers:              v.GetInt("extractor.workers"),
			DescriptionMaxLength: v.GetInt("extractor.description_max_length"),
		},
		Output: config.OutputConfig{
			File:   v.GetString("output.file"),
			Dir:    v.GetString("output.dir"),
			Format: v.GetString("output.format"),
		},
		Logging: config.LoggingConfig{Level: v.GetString("logging.level")},
		Metrics: config.MetricsConfig{File: v.GetString("metrics.file")},
	}

	if err := cfg.Validate(); err != nil {
		return nil, apperrors.Config(err, "invalid configuration")
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *config.Config) {
	v.SetDefault("extractor.quality", cfg.Extractor.Quality)
	v.SetDefault("extractor.encoding", cfg.Extractor.Encoding)
	v.SetDefault("extractor.workers", cfg.Extractor.Workers)
	v.SetDefault("extractor.description_max_length", cfg.Extractor.DescriptionMaxLength)
	v.SetDefault("output.file", cfg.Output.File)
	v.SetDefault("output.dir", cfg.Output.Dir)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("metrics.file", cfg.Metrics.File)
}

// newLogger creates the run logger; --verbose forces debug level
func (a *app) newLogger(cfg *config.Config) utils.Logger {
	level := utils.ParseLogLevel(cfg.Logging.Level)
	if a.verbose {
		level = utils.DebugLevel
	}
	return utils.NewLoggerWithOutput(level, a.stderr)
}

func versionText() string {
	return fmt.Sprintf("SubScrapexter %s\nBuild time: %s\nGit commit: %s\n", version, buildTime, gitCommit)
}
