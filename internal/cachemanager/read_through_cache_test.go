package cachemanager

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type capInput struct {
	Label     string
	Highlight bool
}

func renderFn(calls *int) func(ctx context.Context, in capInput) (string, error) {
	return func(ctx context.Context, in capInput) (string, error) {
		*calls++
		if in.Label == "" {
			return "", errors.New("empty label")
		}
		out := "[ " + in.Label + " ]"
		if in.Highlight {
			out = ">" + out + "<"
		}
		return out, nil
	}
}

func TestReadThroughCache_RendersOncePerKey(t *testing.T) {
	calls := 0
	cache := NewInMemoryCacheManager[string, string]("keycap-cache", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache(cache, renderFn(&calls), false)

	got, err := rtc.Get(context.Background(), "letters:0:0:plain", capInput{Label: "q"}, DefaultExpiration)
	require.NoError(t, err)
	require.Equal(t, "[ q ]", got)

	got, err = rtc.Get(context.Background(), "letters:0:0:plain", capInput{Label: "q"}, DefaultExpiration)
	require.NoError(t, err)
	require.Equal(t, "[ q ]", got)
	require.Equal(t, 1, calls, "second get is served from the cache")
}

func TestReadThroughCache_DistinctKeysRenderSeparately(t *testing.T) {
	calls := 0
	cache := NewInMemoryCacheManager[string, string]("keycap-cache", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache(cache, renderFn(&calls), false)

	plain, err := rtc.Get(context.Background(), "letters:0:0:plain", capInput{Label: "q"}, DefaultExpiration)
	require.NoError(t, err)
	lit, err := rtc.Get(context.Background(), "letters:0:0:lit", capInput{Label: "q", Highlight: true}, DefaultExpiration)
	require.NoError(t, err)

	require.NotEqual(t, plain, lit)
	require.Equal(t, 2, calls)
}

func TestReadThroughCache_SkipCacheAlwaysRenders(t *testing.T) {
	calls := 0
	cache := NewInMemoryCacheManager[string, string]("keycap-cache", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache(cache, renderFn(&calls), true)

	for i := 0; i < 3; i++ {
		_, err := rtc.Get(context.Background(), "letters:0:0:plain", capInput{Label: "q"}, DefaultExpiration)
		require.NoError(t, err)
	}
	require.Equal(t, 3, calls)
}

func TestReadThroughCache_ErrorNotCached(t *testing.T) {
	calls := 0
	cache := NewInMemoryCacheManager[string, string]("keycap-cache", DefaultExpiration, DefaultCleanupInterval)
	rtc := NewReadThroughCache(cache, renderFn(&calls), false)

	_, err := rtc.Get(context.Background(), "bad", capInput{}, DefaultExpiration)
	require.Error(t, err)

	_, err = rtc.Get(context.Background(), "bad", capInput{}, DefaultExpiration)
	require.Error(t, err)
	require.Equal(t, 2, calls, "failed renders are retried, not cached")
}
