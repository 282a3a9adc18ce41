package cmd

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mohelwah/inkwell/internal/config"
	"github.com/mohelwah/inkwell/internal/log"
)

var (
	cfgFile string
	verbose bool

	appConfig config.Config
	logger    zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "inkwell",
	Short: "Content-integrity tooling for the blog",
	Long: `inkwell keeps the blog's content set publishable: it loads every
Markdown document under ./content/, parses the front-matter the
publishing platform consumes, and checks the properties the platform
assumes (required metadata, resolvable links and images, well-formed
code fences, unique permalinks, a consistent author policy).

Rendering is out of scope; that stays with the publishing platform.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger = log.Setup(verbose)
		return initializeConfig()
	},
}

// Execute runs the CLI. Exit codes: 0 clean, 1 findings at error
// severity, 2 usage or configuration errors.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFindings) {
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(2)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func initializeConfig() error {
	v := viper.New()

	v.SetDefault("siteTitle", "")
	v.SetDefault("baseURL", "")
	v.SetDefault("contentDir", "content")
	v.SetDefault("staticDir", "static")
	v.SetDefault("defaultAuthor", "")
	v.SetDefault("authorPolicy", config.AuthorAbsent)
	v.SetDefault("requiredKeys", []string{"title", "date"})
	v.SetDefault("knownLanguages", []string{})
	v.SetDefault("checks.externalLinks", false)
	v.SetDefault("checks.linkTimeout", "10s")
	v.SetDefault("checks.requestsPerSecond", 4.0)
	v.SetDefault("checks.cacheFile", "")
	v.SetDefault("checks.cacheTTL", "24h")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("INKWELL")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if cfgFile != "" {
				return fmt.Errorf("config file %s not found: %w", cfgFile, err)
			}
			logger.Debug().Msg("no config file found, using defaults and environment")
		} else {
			return fmt.Errorf("read config file: %w", err)
		}
	} else {
		logger.Debug().Str("file", v.ConfigFileUsed()).Msg("using config file")
	}

	if err := v.Unmarshal(&appConfig); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := config.Validate(appConfig); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}
