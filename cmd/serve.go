package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/labmatch/internal/api"
	"github.com/spigell/labmatch/internal/ingest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve ingestion and matching over HTTP",
	Run: func(_ *cobra.Command, _ []string) {
		runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringP("listen", "l", "", "address to listen on (default is :8080)")

	viper.BindPFlag("server.listen", serveCmd.Flags().Lookup("listen"))
}

func runServe() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, config := setup()

	if !viper.GetBool("debug") {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Deps{
		Candidates: newStore(config, logger),
		Ingestor:   ingest.New(logger),
		Merger:     newMerger(ctx, config, logger),
		Filters:    filterConfig(config),
		Logger:     logger,
	})

	logger.Info("starting the labmatch server", zap.String("version", version))

	if err := api.Serve(ctx, config.Server.Listen, router, logger); err != nil {
		logger.Fatal("serving http", zap.Error(err))
	}
}
