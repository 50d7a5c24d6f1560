package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/marcelsud/webhook-logger/config"
	"github.com/marcelsud/webhook-logger/internal/activity"
	"github.com/marcelsud/webhook-logger/internal/http/chi"
	"github.com/marcelsud/webhook-logger/metrics"
	"github.com/marcelsud/webhook-logger/sources"
	"github.com/marcelsud/webhook-logger/webhook"
	"github.com/marcelsud/webhook-logger/webhook/file"
	"github.com/marcelsud/webhook-logger/webhook/redis"
)

const TIMEOUT = 30 * time.Second

/* main é a porta de entrada e saída da aplicação: é aqui que as
 * dependências são iniciadas e amarradas.
 *
 * As importações devem ser feitas apenas em uma direção: para baixo.
 * O aplicativo (api) importa camadas de negócios, que importam a
 * camada de armazenamento.
 */

func main() {
	cfg, err := config.GetConfig()
	if err != nil {
		fmt.Println(err)
		return
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
	defer stop()

	loader := sources.NewLoader()
	if cfg.SourcesFile != "" {
		if err := loader.Load(cfg.SourcesFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				fmt.Println(err)
				return
			}
			logger.Info("no sources file found, signature verification limited to the github channel", "file", cfg.SourcesFile)
		}
	}
	// The distinguished github channel keeps its env-only configuration
	if cfg.GithubSecret != "" && !loader.Exists("github") {
		if err := loader.Register("github", sources.DefaultSignatureHeader, cfg.GithubSecret); err != nil {
			fmt.Println(err)
			return
		}
	}

	activityLog, err := activity.New(cfg.LogsDir, logger)
	if err != nil {
		fmt.Println(err)
		return
	}

	repo, err := newRepository(cfg, logger)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer repo.Close(ctx)

	s := webhook.NewService(repo, loader, logger, activityLog)

	collector := metrics.NewStoreCollector(repo)
	exporter, err := metrics.NewOTelExporter(collector)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer exporter.Shutdown(ctx)

	r := chi.Handlers(ctx, s, cfg.MaxBodyBytes, exporter.ServeHTTP())
	srv := &http.Server{
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		Addr:         ":" + cfg.Port,
		Handler:      r,
	}

	errShutdown := make(chan error, 1)
	go shutdown(srv, ctx, errShutdown)
	fmt.Printf("Listening on port %s\n", cfg.Port)
	fmt.Printf("Webhook endpoint: http://localhost:%s/webhook/{source}\n", cfg.Port)
	err = srv.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		fmt.Println(err)
		return
	}
	err = <-errShutdown
	if err != nil {
		fmt.Println(err)
		return
	}
}

// newRepository builds the record store selected by STORAGE_BACKEND
func newRepository(cfg *config.Config, logger *slog.Logger) (webhook.Repository, error) {
	switch cfg.StorageBackend {
	case "redis":
		return redis.NewRepository(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	case "file", "":
		return file.NewRepository(cfg.WebhooksDir, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.StorageBackend)
	}
}

func shutdown(server *http.Server, ctxShutdown context.Context, errShutdown chan error) {
	<-ctxShutdown.Done()

	ctxTimeout, stop := context.WithTimeout(context.Background(), TIMEOUT)
	defer stop()

	err := server.Shutdown(ctxTimeout)
	switch err {
	case nil:
		fmt.Printf("\nShutting down server...\n")
		errShutdown <- nil
	case context.DeadlineExceeded:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	default:
		errShutdown <- fmt.Errorf("Forcing closing the server")
	}
}
