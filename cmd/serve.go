package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/deidaraiorek/deistem/internal/server"
)

func newServeCmd(conf *viper.Viper) *cobra.Command {
	c := &cobra.Command{
		Use:   "serve",
		Short: "Serve stems over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig(conf)
			if err != nil {
				return err
			}
			defer log.Sync()

			srv, err := server.New(server.Config{
				Addr:             cfg.Addr,
				DefaultAlgorithm: cfg.Algorithm,
				CacheSize:        cfg.CacheSize,
			}, log)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.ListenAndServe(ctx)
		},
	}
	c.Flags().String("addr", ":8080", "Address to listen on.")
	bindFlags(conf, c.Flags())
	return c
}
