package main

import (
	"time"

	"github.com/ryanm101/gamemeta/cache"
	"github.com/ryanm101/gamemeta/config"
	"github.com/ryanm101/gamemeta/logging"
	"github.com/ryanm101/gamemeta/metadata"
)

// responseCache is shared by every wrapped provider for the process
// lifetime; closeClient releases it together with the client.
var responseCache cache.Cache

// buildClient constructs a metadata client from the enabled providers in
// the configuration. Providers that fail to initialize (usually missing
// credentials) are logged and skipped rather than aborting the command.
func buildClient() *metadata.Client {
	responseCache = buildCache()
	cacheTTL := time.Duration(cfg.Cache.TTLSecs) * time.Second

	var providers []metadata.Provider

	for _, name := range cfg.EnabledProviders() {
		pc := cfg.Provider(name)
		timeout := time.Duration(pc.TimeoutSecs) * time.Second
		if timeout <= 0 {
			timeout = time.Duration(cfg.DefaultTimeout) * time.Second
		}

		provider, err := buildProvider(name, pc, timeout)
		if err != nil {
			logging.Warn("skipping provider", "provider", name, "error", err)
			continue
		}
		if provider == nil {
			logging.Debug("provider not implemented", "provider", name)
			continue
		}
		providers = append(providers, metadata.NewCachedProvider(provider, responseCache, cacheTTL))
	}

	return metadata.NewClient(providers...)
}

func closeClient(client *metadata.Client) {
	_ = client.Close()
	if responseCache != nil {
		_ = responseCache.Close()
	}
}

// buildCache constructs the configured response cache backend, falling back
// to no caching when the backend cannot be opened.
func buildCache() cache.Cache {
	ttl := time.Duration(cfg.Cache.TTLSecs) * time.Second

	switch cfg.Cache.Backend {
	case "sqlite":
		c, err := cache.NewSQLite(cfg.Cache.Path, ttl)
		if err != nil {
			logging.Warn("cache unavailable, continuing without", "error", err)
			return cache.Null{}
		}
		return c
	case "none":
		return cache.Null{}
	default:
		return cache.NewMemory(cfg.Cache.MaxSize, ttl)
	}
}

func buildProvider(name string, pc config.ProviderConfig, timeout time.Duration) (metadata.Provider, error) {
	switch name {
	case "igdb":
		return metadata.NewIGDBProvider(pc.Credential("client_id"), pc.Credential("client_secret"))
	case "mobygames":
		return metadata.NewMobyGamesProvider(pc.Credential("api_key"), cfg.UserAgent, timeout)
	case "screenscraper":
		return metadata.NewScreenScraperProvider(pc.Credential("username"), pc.Credential("password"),
			metadata.ScreenScraperOptions{
				DevID:          pc.Credential("devid"),
				DevPassword:    pc.Credential("devpassword"),
				RegionPriority: cfg.RegionPriority,
				Timeout:        timeout,
			})
	case "retroachievements":
		return metadata.NewRetroAchievementsProvider(pc.Credential("username"), pc.Credential("api_key"), timeout)
	case "hasheous":
		return metadata.NewHasheousProvider(false, timeout), nil
	case "playmatch":
		return metadata.NewPlaymatchProvider(timeout), nil
	default:
		return nil, nil
	}
}
