package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/deidaraiorek/deistem/internal/corpus"
)

func newIngestCmd(conf *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest file...",
		Short: "Store text files as pages for the indexer",
		Long: `
Store each file in --pages_db as a page, so that "deistem index" can build a
stem dictionary without a crawler. The first line of a file becomes the page
title. Re-ingesting a file replaces its page.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(conf)
			if err != nil {
				return err
			}
			defer log.Sync()

			db, err := corpus.NewPageDB(cfg.PagesDB)
			if err != nil {
				return err
			}
			defer db.Close()

			for _, path := range args {
				page, err := pageFromFile(path)
				if err != nil {
					return err
				}
				id, err := db.SavePage(page)
				if err != nil {
					return errors.Wrapf(err, "saving %s", path)
				}
				log.Debug("ingested", zap.String("url", page.URL), zap.Int("id", id))
				fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", id, page.URL)
			}
			return nil
		},
	}
}

func pageFromFile(path string) (*corpus.Page, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolving %s", path)
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	content := string(data)
	title, _, _ := strings.Cut(content, "\n")
	return &corpus.Page{
		URL:        "file://" + filepath.ToSlash(abs),
		Title:      strings.TrimSpace(title),
		Content:    content,
		StatusCode: 200,
	}, nil
}
