package main

import (
	"context"
	"fmt"
	"os"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/di"
	"github.com/bookverseapp/bookverse/internal/di/providers"
	"github.com/bookverseapp/bookverse/internal/tui"
	"github.com/bookverseapp/bookverse/internal/validation"
)

func newRootCmd() *cobra.Command {
	flags := &config.Flags{}

	root := &cobra.Command{
		Use:   "bookverse",
		Short: "BookVerse - personal book catalog dashboard",
		Long: `BookVerse browses and edits a personal book catalog served by a REST API.

Run without arguments to open the terminal dashboard. Use "bookverse fake-api"
to serve an in-memory catalog for local development.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), *flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.Env, "env", "", "environment: development, staging or production (ENV)")
	pf.StringVar(&flags.LogLevel, "log-level", "", "log level: debug, info, warn or error (LOG_LEVEL)")
	pf.StringVar(&flags.LogFile, "log-file", "", "dashboard log file (LOG_FILE, default ~/.bookverse/bookverse.log)")
	pf.StringVar(&flags.APIURL, "api-url", "", "catalog API base URL (API_BASE_URL, default http://localhost:5000/api)")
	pf.StringVar(&flags.APITimeout, "api-timeout", "", "per-request timeout, 0 for none (API_TIMEOUT)")
	pf.StringVar(&flags.RateLimit, "rate-limit", "", "requests per second per resource, 0 for unlimited (API_RATE_LIMIT)")
	pf.StringVar(&flags.RateBurst, "rate-burst", "", "request burst per resource (API_RATE_BURST)")
	pf.StringVar(&flags.SearchDebounce, "search-debounce", "", "delay before search text applies (SEARCH_DEBOUNCE)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "path to a .env file (default .env)")

	root.AddCommand(
		newDashboardCmd(flags),
		newListCmd(flags),
		newFakeAPICmd(flags),
	)
	return root
}

func newDashboardCmd(flags *config.Flags) *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Open the terminal dashboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDashboard(cmd.Context(), *flags)
		},
	}
}

func runDashboard(ctx context.Context, flags config.Flags) error {
	injector := di.NewContainer(flags, providers.SinkFile)
	defer closeContainer(injector)

	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	log, err := do.Invoke[*providers.LoggerHandle](injector)
	if err != nil {
		return err
	}
	ctrl, err := do.Invoke[*providers.ControllerHandle](injector)
	if err != nil {
		return err
	}
	gw := do.MustInvoke[*providers.GatewayHandle](injector)
	v := do.MustInvoke[*validation.Validator](injector)

	log.Info("Dashboard started")
	defer log.Info("Dashboard closed")

	err = tui.Run(ctx, ctrl.Controller, tui.Options{
		Submitter: gw.Client,
		Validator: v,
		Logger:    log.Component("tui").Logger,
	})
	if err != nil {
		log.WithError(err).Error("Dashboard failed")
	}
	return err
}

func closeContainer(injector *do.RootScope) {
	if err := di.Shutdown(injector); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
	}
}
