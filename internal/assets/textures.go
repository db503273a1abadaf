package assets

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Faultbox/holocard/internal/engine/texture"
	"github.com/Faultbox/holocard/internal/fault"
	"github.com/Faultbox/holocard/internal/logger"
)

// LoadTextures fetches and decodes every path concurrently and returns them as
// an ordered Set. The first failure cancels the remaining loads and is
// returned as a *fault.AssetLoadError; no partial set is ever returned.
// GPU upload is left to the caller's render thread.
func (m *Manager) LoadTextures(ctx context.Context, paths []string) (*texture.Set, error) {
	if len(paths) == 0 {
		return nil, fault.Configf("no texture paths configured")
	}

	log := logger.Named("assets")
	start := time.Now()
	loaded := make([]*texture.Texture, len(paths))
	g, ctx := errgroup.WithContext(ctx)

	for i, p := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return &fault.AssetLoadError{Index: i, Path: p, Err: err}
			}
			data, err := m.Load(p)
			if err != nil {
				return &fault.AssetLoadError{Index: i, Path: p, Err: err}
			}
			tex, err := texture.Decode(p, data)
			if err != nil {
				return &fault.AssetLoadError{Index: i, Path: p, Err: err}
			}
			log.Debug("texture decoded",
				zap.Int("index", i),
				zap.String("path", p),
				zap.Int("width", tex.Width),
				zap.Int("height", tex.Height),
			)
			loaded[i] = tex
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	set, err := texture.NewSet(loaded)
	if err != nil {
		return nil, err
	}

	hits, misses := m.cache.Stats()
	log.Info("textures loaded",
		zap.Int("count", set.Len()),
		zap.Strings("sources", m.Sources()),
		zap.Int("cache_hits", hits),
		zap.Int("cache_misses", misses),
		zap.Duration("elapsed", time.Since(start)),
	)
	return set, nil
}
