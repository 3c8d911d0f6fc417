// Package cmd implements the deistem command line.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/deidaraiorek/deistem/internal/config"
	"github.com/deidaraiorek/deistem/internal/logger"
	"github.com/deidaraiorek/deistem/stemmer"
)

// NewRootCmd builds the command tree around a fresh viper instance.
func NewRootCmd() *cobra.Command {
	conf := config.NewViper()

	root := &cobra.Command{
		Use:   "deistem",
		Short: "deistem: cached Snowball stemming",
		Long: `
deistem reduces words to their stems with the Snowball family of algorithms,
keeping recent results in a bounded FIFO cache. It can stem from the command
line, serve stems over HTTP, and build a stem dictionary from crawled pages.`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.String("config", "",
		"Configuration file. Takes precedence over default values, but is "+
			"overridden by environment variables and flags.")
	flags.String("log_level", "info", "Log level: debug, info, warn or error.")
	flags.String("log_format", "json", "Log format: json or console.")
	flags.StringP("algorithm", "a", "english", "Stemming algorithm or alias.")
	flags.Int("cache_size", stemmer.DefaultCacheSize, "Stems cached per stemmer; 0 disables the cache.")
	flags.String("pages_db", "search.db", "SQLite database holding crawled pages.")
	flags.String("index_db", "index.db", "SQLite database holding the stem dictionary.")
	bindFlags(conf, flags)

	root.AddCommand(
		newAlgorithmsCmd(),
		newStemCmd(conf),
		newServeCmd(conf),
		newIndexCmd(conf),
		newIngestCmd(conf),
		newLookupCmd(conf),
		newTopCmd(conf),
		newBenchCmd(conf),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. It is called by main.main().
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadConfig(conf *viper.Viper) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(conf)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// bindFlags makes every flag in fs a viper key of the same name, so that flag
// names and config keys stay interchangeable.
func bindFlags(conf *viper.Viper, fs *flag.FlagSet) {
	fs.VisitAll(func(f *flag.Flag) {
		conf.BindPFlag(f.Name, f)
	})
}
