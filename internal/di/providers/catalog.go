package providers

import (
	"github.com/samber/do/v2"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/dashboard"
	"github.com/bookverseapp/bookverse/internal/gateway"
	"github.com/bookverseapp/bookverse/internal/notify"
	"github.com/bookverseapp/bookverse/internal/store"
	"github.com/bookverseapp/bookverse/internal/validation"
)

// GatewayHandle wraps the API client with shutdown capability.
type GatewayHandle struct {
	*gateway.Client
}

// Shutdown implements do.Shutdownable.
func (h *GatewayHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideGateway provides the catalog API client.
func ProvideGateway(i do.Injector) (*GatewayHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	v := do.MustInvoke[*validation.Validator](i)

	client := gateway.New(gateway.Options{
		BaseURL:   cfg.API.BaseURL,
		Logger:    log.Component("gateway").Logger,
		Validator: v,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		RateBurst: cfg.API.RateBurst,
	})

	log.Debug("Gateway configured",
		"base_url", cfg.API.BaseURL,
		"timeout", cfg.API.Timeout,
		"rate_limit", cfg.API.RateLimit,
	)

	return &GatewayHandle{Client: client}, nil
}

// ProvideStore provides the dashboard state container.
func ProvideStore(i do.Injector) (*store.Store, error) {
	log := do.MustInvoke[*LoggerHandle](i)
	return store.New(log.Component("store").Logger), nil
}

// ProvideNotifier provides the toast queue.
func ProvideNotifier(i do.Injector) (*notify.Notifier, error) {
	log := do.MustInvoke[*LoggerHandle](i)
	return notify.New(log.Component("notify").Logger, notify.DefaultDuration), nil
}

// ControllerHandle wraps the dashboard controller with shutdown capability.
type ControllerHandle struct {
	*dashboard.Controller
}

// Shutdown implements do.Shutdownable.
func (h *ControllerHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideController provides the dashboard controller.
func ProvideController(i do.Injector) (*ControllerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*LoggerHandle](i)
	gw := do.MustInvoke[*GatewayHandle](i)
	st := do.MustInvoke[*store.Store](i)
	notifier := do.MustInvoke[*notify.Notifier](i)

	ctrl := dashboard.New(gw.Client, st, dashboard.Options{
		Logger:         log.Component("dashboard").Logger,
		Notifier:       notifier,
		SearchDebounce: cfg.UI.SearchDebounce,
	})

	return &ControllerHandle{Controller: ctrl}, nil
}
