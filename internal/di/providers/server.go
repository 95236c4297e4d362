package providers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/samber/do/v2"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/fakeapi"
)

// FakeAPISettings carries the fake-api command options that are not part
// of the configuration file.
type FakeAPISettings struct {
	Latency        time.Duration
	AllowedOrigins []string
	Wrapped        bool
}

// FakeAPIHandle wraps the development HTTP server with Shutdownable.
type FakeAPIHandle struct {
	*http.Server
	API *fakeapi.Server
}

// Shutdown implements do.Shutdownable.
func (h *FakeAPIHandle) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Server.Shutdown(ctx)
}

// ProvideFakeAPI provides the in-memory catalog server. It is not started;
// the caller runs ListenAndServe.
func ProvideFakeAPI(i do.Injector) (*FakeAPIHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	settings, err := do.Invoke[FakeAPISettings](i)
	if err != nil {
		settings = FakeAPISettings{}
	}

	seed, err := fakeapi.LoadSeed(cfg.FakeAPI.SeedFile)
	if err != nil {
		return nil, fmt.Errorf("load seed: %w", err)
	}
	catalog, err := fakeapi.NewCatalog(seed)
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}

	api := fakeapi.New(catalog, fakeapi.Options{
		Logger:         log.Component("fakeapi").Logger,
		Wrapped:        settings.Wrapped,
		Latency:        settings.Latency,
		AllowedOrigins: settings.AllowedOrigins,
	})

	srv := &http.Server{
		Addr:              cfg.FakeAPI.Addr,
		Handler:           api,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Fake API configured",
		"addr", cfg.FakeAPI.Addr,
		"seed", cfg.FakeAPI.SeedFile,
		"books", len(catalog.Books()),
		"genres", len(catalog.Genres()),
	)

	return &FakeAPIHandle{Server: srv, API: api}, nil
}
