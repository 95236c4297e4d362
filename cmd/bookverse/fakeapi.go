package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/di"
	"github.com/bookverseapp/bookverse/internal/di/providers"
)

func newFakeAPICmd(flags *config.Flags) *cobra.Command {
	var settings providers.FakeAPISettings

	cmd := &cobra.Command{
		Use:   "fake-api",
		Short: "Serve an in-memory catalog API for local development",
		Long: `Serves the catalog REST API from memory, seeded from a YAML file or a
built-in sample catalog. Changes are lost on exit.

Example:
  bookverse fake-api --addr :5000 --seed catalog.yaml --latency 300ms`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFakeAPI(cmd.Context(), *flags, settings)
		},
	}

	cmd.Flags().StringVar(&flags.FakeAPIAddr, "addr", "", "listen address (FAKE_API_ADDR, default :5000)")
	cmd.Flags().StringVar(&flags.FakeAPISeed, "seed", "", "YAML seed catalog (FAKE_API_SEED)")
	cmd.Flags().DurationVar(&settings.Latency, "latency", 0, "delay every API response")
	cmd.Flags().BoolVar(&settings.Wrapped, "wrapped", false, `wrap payloads in {"success","data"} envelopes`)
	cmd.Flags().StringSliceVar(&settings.AllowedOrigins, "cors-origin", nil, "allowed CORS origins")
	return cmd
}

func runFakeAPI(ctx context.Context, flags config.Flags, settings providers.FakeAPISettings) error {
	injector := di.NewContainer(flags, providers.SinkStderr)
	defer closeContainer(injector)
	do.ProvideValue(injector, settings)

	srv, err := do.Invoke[*providers.FakeAPIHandle](injector)
	if err != nil {
		return err
	}
	log := do.MustInvoke[*providers.LoggerHandle](injector)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()
	log.Info("Fake API listening", "addr", srv.Addr, "latency", settings.Latency.String())

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case <-ctx.Done():
		// The container shuts the server down on return.
		log.Info("Shutting down fake API gracefully...")
	}
	return nil
}
