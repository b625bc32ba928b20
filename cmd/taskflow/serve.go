package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"taskflow/internal/infrastructure/seed"
	httpiface "taskflow/internal/interface/http"
	projectuc "taskflow/internal/usecase/project"
	taskuc "taskflow/internal/usecase/task"
)

func newServeCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) (err error) {
			ctx := cmd.Context()
			a, err := newApp(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer func() { err = multierr.Append(err, a.Close()) }()

			if c.cfg.Seed {
				res, err := seed.Run(ctx, a.factory, time.Now())
				if err != nil {
					return err
				}
				a.logger.Info("seed data applied", zap.Int("inserted", res.Total()))
			}
			return serve(ctx, a)
		},
	}
}

// serve は ctx がキャンセルされるまで HTTP サーバを動かし、終了時は graceful shutdown する。
func serve(ctx context.Context, a *app) error {
	projects := projectuc.NewService(a.factory, a.logger)
	tasks := taskuc.NewService(a.factory, a.logger)
	httpLogger := a.logger.Named("http")

	router := httpiface.NewRouter(
		httpiface.NewProjectHandler(projects, httpLogger),
		httpiface.NewTaskHandler(tasks, httpLogger),
		httpLogger,
	)
	srv := &http.Server{
		Addr:         a.cfg.HTTP.Addr,
		Handler:      router,
		ReadTimeout:  a.cfg.HTTP.ReadTimeout,
		WriteTimeout: a.cfg.HTTP.WriteTimeout,
		IdleTimeout:  a.cfg.HTTP.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("taskflow listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
