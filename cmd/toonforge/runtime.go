package main

import (
	"context"
	"os"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/viper"

	apperrors "github.com/toonforge/toonforge/internal/errors"
	"github.com/toonforge/toonforge/internal/export"
	"github.com/toonforge/toonforge/internal/repositories/characters"
	"github.com/toonforge/toonforge/internal/rulebook"
	charsvc "github.com/toonforge/toonforge/internal/services/character"
)

// runtime wires the rulebook library, character store and service for
// one command invocation.
type runtime struct {
	library  *rulebook.Library
	service  charsvc.Service
	exporter *export.Exporter
	closers  []func() error
}

func newRuntime(ctx context.Context) (*runtime, error) {
	library, err := rulebook.Load(ctx, viper.GetString("data-dir"))
	if err != nil {
		return nil, apperrors.Wrapf(err, "failed to load rulebook data from %s", viper.GetString("data-dir"))
	}

	rt := &runtime{library: library}

	var repo characters.Repository
	switch store := viper.GetString("store"); store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     viper.GetString("redis-addr"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("redis-db"),
		})
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, apperrors.Wrapf(err, "failed to connect to redis at %s", viper.GetString("redis-addr"))
		}
		rt.closers = append(rt.closers, client.Close)
		repo = characters.NewRedisRepository(&characters.RedisRepoConfig{
			Client:  client,
			Library: library,
		})
	case "memory":
		repo = characters.NewInMemoryRepository(library)
	default:
		return nil, apperrors.InvalidArgumentf("unknown store backend: %s (want redis or memory)", store)
	}

	rt.service = charsvc.NewService(&charsvc.ServiceConfig{
		Repository: repo,
		Library:    library,
	})
	rt.exporter = &export.Exporter{
		OutputDir:   viper.GetString("output-dir"),
		PDFTemplate: viper.GetString("pdf-template"),
	}

	return rt, nil
}

func (rt *runtime) Close() {
	for _, closer := range rt.closers {
		_ = closer()
	}
}

// mustRuntime builds the runtime or exits with the error.
func mustRuntime(ctx context.Context) *runtime {
	rt, err := newRuntime(ctx)
	if err != nil {
		fail("%v", err)
	}
	return rt
}
