package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deidaraiorek/deistem/internal/config"
	"github.com/deidaraiorek/deistem/internal/corpus"
	"github.com/deidaraiorek/deistem/stemmer"
)

func newStemCmd(conf *viper.Viper) *cobra.Command {
	var stats bool
	c := &cobra.Command{
		Use:   "stem [word...]",
		Short: "Stem words given as arguments, or read from stdin",
		Long: `
Stem each word and print one stem per line, in input order. With no
arguments, whitespace separated words are read from standard input.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(conf)
			if err != nil {
				return err
			}

			words := args
			if len(words) == 0 {
				if words, err = corpus.ReadWords(cmd.InOrStdin()); err != nil {
					return err
				}
			}

			s, err := stemmer.New(cfg.Algorithm, stemmer.WithCacheSize(cfg.CacheSize))
			if err != nil {
				return err
			}
			stems, err := s.StemWords(words)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, stem := range stems {
				fmt.Fprintln(out, stem)
			}
			if stats {
				st := s.Stats()
				fmt.Fprintf(cmd.ErrOrStderr(), "hits=%d misses=%d evictions=%d cached=%d\n",
					st.Hits, st.Misses, st.Evictions, s.Len())
			}
			return nil
		},
	}
	c.Flags().BoolVar(&stats, "stats", false, "Print cache statistics to stderr.")
	return c
}
