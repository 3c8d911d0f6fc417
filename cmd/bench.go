package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deidaraiorek/deistem/internal/bench"
)

func newBenchCmd(conf *viper.Viper) *cobra.Command {
	bcfg := bench.DefaultConfig()
	c := &cobra.Command{
		Use:   "bench file...",
		Short: "Time batch stemming of word files at several cache sizes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(conf)
			if err != nil {
				return err
			}
			defer log.Sync()

			bcfg.Algorithm = cfg.Algorithm
			results, err := bench.Run(cmd.Context(), bcfg, args, log)
			if err != nil {
				return err
			}
			for _, r := range results {
				fmt.Fprintln(cmd.OutOrStdout(), r)
			}
			return nil
		},
	}
	f := c.Flags()
	f.IntSliceVar(&bcfg.CacheSizes, "cache_sizes", bcfg.CacheSizes, "Cache sizes to measure.")
	f.IntSliceVar(&bcfg.Iterations, "iterations", bcfg.Iterations, "StemWords calls per measurement.")
	f.IntVar(&bcfg.Repeat, "repeat", bcfg.Repeat, "Measurements per setting; the fastest is reported.")
	return c
}
