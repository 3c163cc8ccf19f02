package keys

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultFeedURL is the public key API.
const DefaultFeedURL = "https://keyapi.deadbyqueue.com/keys"

// DefaultFeedTimeout — таймаут одного запроса к feed.
const DefaultFeedTimeout = 5 * time.Second

// maxFeedSize ограничивает тело ответа feed в памяти.
const maxFeedSize = 4 << 20

// Source отдаёт набор ключей.
type Source interface {
	Name() string
	Fetch(ctx context.Context) (map[string]string, error)
}

// Cache хранит полученные ключи между запусками.
type Cache interface {
	SaveAll(ctx context.Context, entries map[string]string) error
	LoadAll(ctx context.Context) (map[string]string, error)
}

// boundedCache добавляет deadline к каждому вызову обёрнутого Cache.
type boundedCache struct {
	cache   Cache
	timeout time.Duration
}

// BoundedCache wraps cache so that each SaveAll and LoadAll gives up after
// timeout. A non-positive timeout returns cache unchanged.
func BoundedCache(cache Cache, timeout time.Duration) Cache {
	if timeout <= 0 {
		return cache
	}
	return &boundedCache{cache: cache, timeout: timeout}
}

func (b *boundedCache) SaveAll(ctx context.Context, entries map[string]string) error {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.cache.SaveAll(ctx, entries)
}

func (b *boundedCache) LoadAll(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()
	return b.cache.LoadAll(ctx)
}

// Load опрашивает все sources параллельно и сливает результаты в Store.
// При конфликте key id побеждает более поздний source. Упавшие sources
// логируются и пропускаются, поэтому Load не возвращает ошибку:
// пустой Store тоже валидный результат.
func Load(ctx context.Context, sources ...Source) *Store {
	results := make([]map[string]string, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	for i, src := range sources {
		g.Go(func() error {
			entries, err := src.Fetch(gctx)
			if err != nil {
				slog.Warn("key source failed", "source", src.Name(), "err", err)
				return nil
			}
			slog.Info("key source loaded", "source", src.Name(), "keys", len(entries))
			results[i] = entries
			return nil
		})
	}
	_ = g.Wait()

	merged := make(map[string]string)
	for _, r := range results {
		maps.Copy(merged, r)
	}
	return NewStore(merged)
}

// StaticSource отдаёт фиксированную таблицу ключей.
type StaticSource struct {
	name    string
	entries map[string]string
}

// NewStaticSource создаёт StaticSource поверх копии entries.
func NewStaticSource(name string, entries map[string]string) *StaticSource {
	return &StaticSource{name: name, entries: maps.Clone(entries)}
}

func (s *StaticSource) Name() string { return s.name }

func (s *StaticSource) Fetch(context.Context) (map[string]string, error) {
	return maps.Clone(s.entries), nil
}

// FeedSource скачивает и парсит удалённый список ключей.
type FeedSource struct {
	URL     string
	Timeout time.Duration
	Client  *http.Client
}

// NewFeedSource создаёт FeedSource с http.DefaultClient.
func NewFeedSource(url string, timeout time.Duration) *FeedSource {
	if url == "" {
		url = DefaultFeedURL
	}
	if timeout <= 0 {
		timeout = DefaultFeedTimeout
	}
	return &FeedSource{URL: url, Timeout: timeout, Client: http.DefaultClient}
}

func (f *FeedSource) Name() string { return "feed" }

func (f *FeedSource) Fetch(ctx context.Context) (map[string]string, error) {
	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("building feed request: %w", err)
	}

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("requesting key feed %s: %w", f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("key feed %s: unexpected status %s", f.URL, resp.Status)
	}

	// Читаем на байт больше лимита, чтобы отличить переполнение от ровного размера
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedSize+1))
	if err != nil {
		return nil, fmt.Errorf("reading key feed: %w", err)
	}
	if len(body) > maxFeedSize {
		return nil, fmt.Errorf("key feed %s: body exceeds %d bytes", f.URL, maxFeedSize)
	}
	return ParseFeed(string(body))
}

// CachingSource сохраняет каждый успешный непустой fetch внутреннего source.
// Ошибки записи в кэш только логируются.
type CachingSource struct {
	inner Source
	cache Cache
}

// NewCachingSource wraps inner with write-through caching.
func NewCachingSource(inner Source, cache Cache) *CachingSource {
	return &CachingSource{inner: inner, cache: cache}
}

func (c *CachingSource) Name() string { return c.inner.Name() }

func (c *CachingSource) Fetch(ctx context.Context) (map[string]string, error) {
	entries, err := c.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) > 0 {
		if err := c.cache.SaveAll(ctx, entries); err != nil {
			slog.Warn("caching keys failed", "source", c.inner.Name(), "err", err)
		}
	}
	return entries, nil
}

// CacheSource читает ранее закэшированные ключи.
type CacheSource struct {
	cache Cache
}

// NewCacheSource создаёт Source поверх cache.
func NewCacheSource(cache Cache) *CacheSource {
	return &CacheSource{cache: cache}
}

func (c *CacheSource) Name() string { return "cache" }

func (c *CacheSource) Fetch(ctx context.Context) (map[string]string, error) {
	entries, err := c.cache.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading cached keys: %w", err)
	}
	return entries, nil
}
