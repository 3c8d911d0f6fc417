package cmd

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deidaraiorek/deistem/algorithm"
	"github.com/deidaraiorek/deistem/internal/config"
	"github.com/deidaraiorek/deistem/internal/storage"
)

func openIndex(conf *viper.Viper) (*storage.StemDB, string, error) {
	cfg, err := config.Load(conf)
	if err != nil {
		return nil, "", err
	}
	canonical, err := algorithm.Default().Canonical(cfg.Algorithm)
	if err != nil {
		return nil, "", err
	}
	db, err := storage.NewStemDB(cfg.IndexDB)
	if err != nil {
		return nil, "", err
	}
	return db, canonical, nil
}

func newLookupCmd(conf *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup term...",
		Short: "Show the indexed stem of each term and the words sharing it",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, algo, err := openIndex(conf)
			if err != nil {
				return err
			}
			defer db.Close()

			out := cmd.OutOrStdout()
			for _, term := range args {
				stem, err := db.LookupStem(strings.ToLower(term), algo)
				if errors.Is(err, storage.ErrNotFound) {
					fmt.Fprintf(out, "%s\t-\n", term)
					continue
				}
				if err != nil {
					return err
				}
				forms, err := db.TermsForStem(stem, algo)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%s\t%s\n", term, stem, strings.Join(forms, " "))
			}
			return nil
		},
	}
}

func newTopCmd(conf *viper.Viper) *cobra.Command {
	var limit int
	c := &cobra.Command{
		Use:   "top",
		Short: "List the most frequent indexed stems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, algo, err := openIndex(conf)
			if err != nil {
				return err
			}
			defer db.Close()

			top, err := db.TopStems(algo, limit)
			if err != nil {
				return err
			}
			for _, sc := range top {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\t%d\n", sc.Stem, sc.Frequency, sc.DocumentFrequency)
			}
			return nil
		},
	}
	c.Flags().IntVarP(&limit, "limit", "n", 20, "Number of stems to list.")
	return c
}
