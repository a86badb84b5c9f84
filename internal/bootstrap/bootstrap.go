// Package bootstrap builds the remote fetch adapter and the importer from the
// application config. It is shared by the worker manager and the CLI.
package bootstrap

import (
	"context"

	"bizplan-workers/internal/common/config"
	"bizplan-workers/internal/common/database"
	httpclient "bizplan-workers/internal/common/http"
	"bizplan-workers/internal/common/logger"
	"bizplan-workers/internal/common/observability"
	"bizplan-workers/internal/importer"
)

// Remote is the fetch adapter plus the cache connection it may hold.
type Remote struct {
	Client *httpclient.Client
	redis  *database.RedisClient
}

// NewRemote builds the fetch adapter. When the cache is enabled but Redis
// does not answer, the adapter runs uncached.
func NewRemote(ctx context.Context, cfg *config.Config, log logger.Logger) *Remote {
	opts := []httpclient.Option{httpclient.WithLogger(log)}

	r := &Remote{}
	if cfg.Cache.Enabled {
		rdb := database.NewRedis(cfg.Cache.Redis)
		if err := rdb.Ping(ctx); err != nil {
			log.Warn("response cache unavailable, continuing without it", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
				"error":   err.Error(),
			})
			_ = rdb.Close()
		} else {
			r.redis = rdb
			opts = append(opts, httpclient.WithCache(database.NewResponseCache(rdb, cfg.Cache.KeyPrefix, cfg.Cache.TTL())))
			log.Info("response cache enabled", map[string]interface{}{
				"address": cfg.Cache.Redis.Address,
				"ttl":     cfg.Cache.TTL().String(),
			})
		}
	}

	r.Client = httpclient.NewClient(httpclient.Config{
		BaseURL: cfg.Remote.BaseURL,
		Token:   cfg.Remote.Token,
		Timeout: cfg.Remote.Timeout(),
	}, opts...)
	return r
}

// Cached reports whether responses go through Redis.
func (r *Remote) Cached() bool {
	return r.redis != nil
}

func (r *Remote) Close() error {
	if r.redis == nil {
		return nil
	}
	return r.redis.Close()
}

// NewImporter builds an importer over the remote client.
func NewImporter(remote *Remote, log logger.Logger, obs *observability.Observability, lenient bool) *importer.Importer {
	opts := []importer.Option{importer.WithLogger(log), importer.WithObservability(obs)}
	if lenient {
		opts = append(opts, importer.WithLenientFallback())
	}
	return importer.New(remote.Client, opts...)
}
