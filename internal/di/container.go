// Package di provides dependency injection configuration for the PaperTrail server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/papertrailapp/papertrail-server/internal/auth"
	"github.com/papertrailapp/papertrail-server/internal/config"
	"github.com/papertrailapp/papertrail-server/internal/di/providers"
	"github.com/papertrailapp/papertrail-server/internal/logger"
	"github.com/papertrailapp/papertrail-server/internal/search"
	"github.com/papertrailapp/papertrail-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideSSEManager)
	do.Provide(injector, providers.ProvideStore)

	// Search layer
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSearchIndexer)

	// Metadata layer
	do.Provide(injector, providers.ProvideOpenAlexClient)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideProfileService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideSocialService)
	do.Provide(injector, providers.ProvideFeedService)
	do.Provide(injector, providers.ProvideReactionService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	// Invoke core services to trigger initialization
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	// Hooks the indexer into the store before the server accepts writes.
	_ = do.MustInvoke[*search.Indexer](injector)
	_ = do.MustInvoke[*providers.OpenAlexClientHandle](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.ProfileService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.SocialService](injector)
	_ = do.MustInvoke[*service.FeedService](injector)
	_ = do.MustInvoke[*service.ReactionService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	// Rebuild the catalog index if it is empty but papers exist.
	providers.TriggerSearchSyncIfNeeded(injector)

	return nil
}
