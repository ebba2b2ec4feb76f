package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reserveit/internal/jobs"
	"reserveit/internal/usecase"
	"reserveit/internal/wire"
	"reserveit/pkg/mq"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reconciliation scheduler",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			rt, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if port != "" {
				rt.config.App.Port = port
			}

			rt.logger.Info("Starting application",
				zap.String("app", rt.config.App.Name),
				zap.String("port", rt.config.App.Port),
				zap.Bool("debug", rt.config.App.Debug),
			)

			var events usecase.EventPublisher
			if rt.config.Events.RabbitURL != "" {
				publisher, err := mq.NewPublisher(rt.config.Events.RabbitURL, rt.config.Events.Exchange)
				if err != nil {
					// bookings must keep working without the broker
					rt.logger.Warn("Booking events disabled", zap.Error(err))
				} else {
					defer publisher.Close()
					events = publisher
					rt.logger.Info("Publishing booking events", zap.String("exchange", rt.config.Events.Exchange))
				}
			}

			identity := usecase.NewIdentityValidator(rt.config.Identity, rt.logger)
			app := wire.Wiring(rt.repos, identity, events, rt.logger)

			if _, err := app.Service.Resource.SeedDefaults(ctx); err != nil {
				return err
			}

			scheduler := jobs.NewScheduler(app.Service.Reconcile, rt.logger)
			if err := scheduler.Register(rt.config.Reconcile.Schedule); err != nil {
				return err
			}
			scheduler.Start()
			defer func() {
				stopCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
				defer stop()
				scheduler.Stop(stopCtx)
			}()

			return APIServer(ctx, app.Router, rt.config.App.Port, rt.logger)
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides PORT")
	return cmd
}

// APIServer serves route until ctx is cancelled, then drains in-flight requests
func APIServer(ctx context.Context, route *chi.Mux, port string, logger *zap.Logger) error {
	addr := fmt.Sprintf(":%s", port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           route,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
