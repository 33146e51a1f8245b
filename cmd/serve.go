package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/spigell/ares/internal/metrics"
	"github.com/spigell/ares/internal/server"
	"github.com/spigell/ares/internal/sessions"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve interview sessions over an HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("listen", "", "address to listen on (default from server.listen)")
	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func runServe() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	config, err := getConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := newLogger(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "creating a logger: %s\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	log.Info("starting the ares api", zap.String("version", version))

	store := sessions.NewStore(config.Server.SessionTTL)
	recorder := metrics.New(store.Count)

	service, err := newService(ctx, config, log, recorder)
	if err != nil {
		log.Fatal("preparing the interview service", zap.Error(err))
	}

	srv, err := server.New(config.Server, server.Deps{
		Service: service,
		Store:   store,
		Metrics: recorder,
		Logger:  log,
	})
	if err != nil {
		log.Fatal("creating the http api", zap.Error(err))
	}

	if err := srv.Run(ctx); err != nil {
		log.Fatal("serving", zap.Error(err))
	}
}
