package cmd

import (
	inboundCron "catering-quote/inbound/cron"
	inboundHttp "catering-quote/inbound/http"
	emailOutbound "catering-quote/outbound/email"
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"runtime/pprof"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
)

func runHttpServerCmd(ctx context.Context) {
	cfg := newCfg("env")

	if cfg.GetString("env") == "dev" {
		cpu, err := os.Create("http-cpu.prof")
		if err != nil {
			log.Fatalf("could not create CPU profile: %v", err)
		}
		defer cpu.Close()

		err = pprof.StartCPUProfile(cpu)
		if err != nil {
			log.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()

		mem, err := os.Create("http-mem.prof")
		if err != nil {
			log.Fatalf("could not create memory profile: %v", err)
		}
		defer mem.Close()

		err = pprof.WriteHeapProfile(mem)
		if err != nil {
			log.Fatalf("could not write memory profile: %v", err)
		}
	}

	validate := validator.New()

	var cacheClient *redis.Client
	if needsRedis(cfg) {
		cacheClient = newRedis(cfg)
		defer cacheClient.Close()
	}

	source, closeSource := newCatalogSource(cfg, cacheClient)
	defer closeSource()

	notifier, closeNotifier := newNotifier(ctx, cfg)
	defer closeNotifier()

	formatter := newFormatter(cfg)
	renderer, err := emailOutbound.NewRenderer(cfg.GetString("email.format"), formatter)
	if err != nil {
		log.Fatalln("unable to build email renderer", err)
	}

	catalogCron := &inboundCron.CatalogCron{
		Cfg:    cfg,
		Source: source,
	}

	err = catalogCron.InitCatalog(ctx)
	if err != nil {
		log.Fatalln("unable to load catalog", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		slog.DebugContext(r.Context(), "health check")
		w.WriteHeader(http.StatusOK)
	})

	timeoutMiddleware := inboundHttp.TimeoutMiddleware(20 * time.Second)
	corsMiddleware := inboundHttp.CorsMiddleware(cfg.GetString("server.cors_origin"))

	inboundHttp.RegisterCatalogHttp(mux)
	inboundHttp.RegisterSessionHttp(
		mux,
		cfg,
		newSessionStore(cfg, cacheClient),
		notifier,
		renderer,
		validate,
		formatter,
		newPolicy(cfg),
	)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.GetInt("server.port")),
		Handler:           timeoutMiddleware(corsMiddleware(inboundHttp.RequestLogMiddleware(mux))),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalln("unable to start server", err)
		}
	}()

	slog.Info("http server started",
		slog.Int("port", cfg.GetInt("server.port")),
		slog.String("catalog_source", cfg.GetString("catalog.source")),
		slog.String("email_delivery", cfg.GetString("email.delivery")),
	)

	go func() {
		catalogCron.Start(ctx)
	}()

	<-ctx.Done()

	ctxShutDown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctxShutDown); err != nil {
		log.Fatalln("unable to shutdown server", err)
	}

	slog.Info("http server stopped")
}
