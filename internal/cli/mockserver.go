package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/five82/narrator/internal/logging"
	"github.com/five82/narrator/internal/mockcaption"
)

func newMockServerCmd() *cobra.Command {
	var (
		addr     string
		caption  string
		status   int
		delay    time.Duration
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run a local stand-in for the captioning service",
		Long: `Serves POST /process-image and GET /healthcheck so narrator can be
tried without the real captioning model.`,
		Example: `  # Answer every photo with a fixed caption
  narrator mock-server --caption "a red apple"

  # Exercise the failure path
  narrator mock-server --status 500`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := logging.New(logLevel, "")
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			server := &http.Server{
				Addr: addr,
				Handler: mockcaption.New(mockcaption.Options{
					Caption: caption,
					Status:  status,
					Delay:   delay,
					Logger:  log,
				}),
				ReadHeaderTimeout: 10 * time.Second,
			}

			serverErr := make(chan error, 1)
			go func() {
				log.Info("mock captioning service listening", zap.String("addr", addr))
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					serverErr <- err
				}
			}()

			select {
			case <-cmd.Context().Done():
				log.Info("shutting down mock service")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					log.Error("mock service shutdown failed", zap.Error(err))
					return err
				}
				return nil
			case err := <-serverErr:
				return err
			}
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "address to listen on")
	cmd.Flags().StringVar(&caption, "caption", "", "caption to return (default describes the upload)")
	cmd.Flags().IntVar(&status, "status", 0, "force this HTTP status on /process-image")
	cmd.Flags().DurationVar(&delay, "delay", 0, "wait this long before answering")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "log level")

	return cmd
}
