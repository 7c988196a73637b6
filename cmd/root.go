package cmd

import (
	"catering-quote/common/constant"
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

func Start() {
	cfg := newCfg("env")
	slog.SetLogLoggerLevel(slog.Level(cfg.GetInt("log.level")))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	shutdownTracer := newTracerProvider(ctx, cfg)
	defer func() {
		if err := shutdownTracer(context.Background()); err != nil {
			slog.Error("failed to shutdown tracer provider", slog.Any(constant.LogFieldErr, err))
		}
	}()

	var exportOut string
	exportCmd := &cobra.Command{
		Use:   "export-catalog",
		Short: "Fetch the remote catalog table and write it as CSV",
		Run: func(cmd *cobra.Command, args []string) {
			runExportCatalogCmd(ctx, exportOut)
		},
	}
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output file, stdout when empty")

	rootCmd := &cobra.Command{Use: "catering-quote"}
	cmd := []*cobra.Command{
		{
			Use:   "serve-http",
			Short: "Run HTTP server",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
		},
		{
			Use:   "serve-queue:email",
			Short: "Run queue email server",
			Run: func(cmd *cobra.Command, args []string) {
				runQueueEmailCmd(ctx)
			},
		},
		exportCmd,
		{
			Use:   "dev",
			Short: "Run dev server, for testing purpose",
			Run: func(cmd *cobra.Command, args []string) {
				runHttpServerCmd(ctx)
			},
			PreRun: func(cmd *cobra.Command, args []string) {
				if cfg.GetString("email.delivery") != constant.EmailDeliveryQueue {
					return
				}
				go func() {
					runQueueEmailCmd(ctx)
				}()
			},
		},
	}

	rootCmd.AddCommand(cmd...)
	if err := rootCmd.Execute(); err != nil {
		log.Fatalln(err)
	}
}
