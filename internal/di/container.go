// Package di provides dependency injection configuration for the BookVerse client.
package di

import (
	"github.com/samber/do/v2"

	"github.com/bookverseapp/bookverse/internal/config"
	"github.com/bookverseapp/bookverse/internal/di/providers"
)

// NewContainer creates and configures the DI container with all providers.
// Nothing is constructed until a command invokes it.
func NewContainer(flags config.Flags, sink providers.LogSink) *do.RootScope {
	injector := do.New()

	// Inputs from the command line
	do.ProvideValue(injector, flags)
	do.ProvideValue(injector, sink)

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideValidator)

	// Remote catalog
	do.Provide(injector, providers.ProvideGateway)

	// Dashboard state
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideNotifier)
	do.Provide(injector, providers.ProvideController)

	// Development server
	do.Provide(injector, providers.ProvideFakeAPI)

	return injector
}

// Shutdown tears down everything the container built, in reverse
// dependency order.
func Shutdown(injector *do.RootScope) error {
	if report := injector.Shutdown(); report != nil && !report.Succeed {
		return report
	}
	return nil
}
