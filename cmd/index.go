package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/deidaraiorek/deistem/internal/indexer"
)

func newIndexCmd(conf *viper.Viper) *cobra.Command {
	c := &cobra.Command{
		Use:   "index",
		Short: "Build the stem dictionary from the pages database",
		Long: `
Read crawled pages from --pages_db, stem their title, description and
content, and record which words share a stem in --index_db. Indexing resumes
after the last page indexed by a previous run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(conf)
			if err != nil {
				return err
			}
			defer log.Sync()

			icfg := indexer.DefaultConfig()
			icfg.Algorithm = cfg.Algorithm
			icfg.CacheSize = cfg.CacheSize
			icfg.BatchSize = cfg.BatchSize

			log.Info("starting indexer",
				zap.String("pages_db", cfg.PagesDB),
				zap.String("index_db", cfg.IndexDB))
			idx, err := indexer.NewIndexer(cfg.PagesDB, cfg.IndexDB, icfg, log)
			if err != nil {
				return err
			}
			defer idx.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return idx.IndexAll(ctx)
		},
	}
	c.Flags().Int("batch_size", 1000, "Pages per transaction.")
	bindFlags(conf, c.Flags())
	return c
}
