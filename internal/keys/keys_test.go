package keys

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/dbdcrypt/internal/testutil"
)

func TestParseFeed_Filtering(t *testing.T) {
	feed := `
"9.3.0_live": "AAA"
"9.2.9_live": "BBB"
"9999.0_live": "CCC"
"m_5.1_live": "DDD"
`
	got, err := ParseFeed(feed)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"9.3.0_live": "AAA"}, got)
}

func TestParseFeed_Formats(t *testing.T) {
	feed := "  10.0.1_ptb :  \"x\\\"y\"  \n" +
		"9.4.0_stage: bare\n" +
		"\"9.5.0_qa\": \"trailing\",\n" +
		"no separator here\n" +
		"\n" +
		"\"\": \"empty id\"\n" +
		"9.6.0_cert: \n" +
		"beta_live: \"not numeric\"\n" +
		"9.3_live: \"short version\"\n" +
		"9.3.0.1_live: \"long version\"\n"

	got, err := ParseFeed(feed)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"10.0.1_ptb":   `x"y`,
		"9.4.0_stage":  "bare",
		"9.5.0_qa":     "trailing",
		"9.3.0.1_live": "long version",
	}, got)
}

func TestParseFeed_MaterialMayContainColon(t *testing.T) {
	got, err := ParseFeed(`"9.3.0_live": "a:b"`)
	require.NoError(t, err)
	assert.Equal(t, "a:b", got["9.3.0_live"])
}

func TestParseFeed_LineTooLong(t *testing.T) {
	feed := "\"9.3.0_live\": \"AAA\"\n\"9.3.0_ptb\": \"" + strings.Repeat("B", maxFeedLine) + "\"\n"

	got, err := ParseFeed(feed)
	require.ErrorIs(t, err, bufio.ErrTooLong)
	assert.Nil(t, got)
}

func TestCompareVersion(t *testing.T) {
	assert.Equal(t, 0, compareVersion([]int{9, 3, 0}, []int{9, 3, 0}))
	assert.Equal(t, -1, compareVersion([]int{9, 2, 9}, []int{9, 3, 0}))
	assert.Equal(t, 1, compareVersion([]int{10}, []int{9, 3, 0}))
	assert.Equal(t, -1, compareVersion([]int{9, 3}, []int{9, 3, 0}))
	assert.Equal(t, 1, compareVersion([]int{9, 3, 0, 0}, []int{9, 3, 0}))
}

func TestStore(t *testing.T) {
	src := map[string]string{"b": "2", "a": "1"}
	s := NewStore(src)
	src["c"] = "3"

	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.IDs())

	v, ok := s.Lookup("a")
	assert.True(t, ok)
	assert.Equal(t, "1", v)

	_, ok = s.Lookup("c")
	assert.False(t, ok)

	var empty *Store
	assert.Zero(t, empty.Len())
	_, ok = empty.Lookup("a")
	assert.False(t, ok)
}

func TestStore_ConcurrentReads(t *testing.T) {
	s := NewStore(map[string]string{"9.3.0_live": "k"})
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				_, _ = s.Lookup("9.3.0_live")
				_ = s.IDs()
			}
		}()
	}
	wg.Wait()
}

func TestFeedSource_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("\"9.3.0_live\": \"AAA\"\n\"9.0.0_live\": \"OLD\"\n"))
	}))
	defer srv.Close()

	entries, err := NewFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"9.3.0_live": "AAA"}, entries)
}

func TestFeedSource_BadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	_, err := NewFeedSource(srv.URL, time.Second).Fetch(context.Background())
	require.Error(t, err)
}

func TestFeedSource_OversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		line := "\"9.3.0_live\": \"AAA\"\n"
		_, _ = w.Write([]byte(strings.Repeat(line, maxFeedSize/len(line)+1)))
	}))
	defer srv.Close()

	_, err := NewFeedSource(srv.URL, 5*time.Second).Fetch(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestFeedSource_Timeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	start := time.Now()
	_, err := NewFeedSource(srv.URL, 50*time.Millisecond).Fetch(context.Background())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 5*time.Second)
}

type failingSource struct{}

func (failingSource) Name() string { return "failing" }
func (failingSource) Fetch(context.Context) (map[string]string, error) {
	return nil, testutil.ErrSimulated
}

func TestLoad_MergesAndDegrades(t *testing.T) {
	store := Load(context.Background(),
		NewStaticSource("first", map[string]string{"9.3.0_live": "old", "9.3.0_ptb": "p"}),
		failingSource{},
		NewStaticSource("second", map[string]string{"9.3.0_live": "new"}),
	)

	assert.Equal(t, 2, store.Len())
	v, _ := store.Lookup("9.3.0_live")
	assert.Equal(t, "new", v)
}

func TestLoad_AllFailingYieldsEmptyStore(t *testing.T) {
	store := Load(context.Background(), failingSource{}, NewFeedSource("http://127.0.0.1:1/keys", 100*time.Millisecond))
	require.NotNil(t, store)
	assert.Zero(t, store.Len())
}

type memCache struct {
	mu      sync.Mutex
	entries map[string]string
	saveErr error
}

func (m *memCache) SaveAll(_ context.Context, entries map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	if m.entries == nil {
		m.entries = map[string]string{}
	}
	for k, v := range entries {
		m.entries[k] = v
	}
	return nil
}

func (m *memCache) LoadAll(context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := map[string]string{}
	for k, v := range m.entries {
		out[k] = v
	}
	return out, nil
}

func TestCachingSource_WritesThrough(t *testing.T) {
	cache := &memCache{}
	src := NewCachingSource(NewStaticSource("feed", map[string]string{"9.3.0_live": "AAA"}), cache)

	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	cached, err := NewCacheSource(cache).Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, entries, cached)
}

func TestCachingSource_IgnoresCacheFailure(t *testing.T) {
	cache := &memCache{saveErr: testutil.ErrSimulated}
	src := NewCachingSource(NewStaticSource("feed", map[string]string{"9.3.0_live": "AAA"}), cache)

	entries, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCachingSource_PropagatesFetchError(t *testing.T) {
	_, err := NewCachingSource(failingSource{}, &memCache{}).Fetch(context.Background())
	require.Error(t, err)
}

// stallingCache блокирует каждый вызов до отмены контекста.
type stallingCache struct{}

func (stallingCache) SaveAll(ctx context.Context, _ map[string]string) error {
	<-ctx.Done()
	return ctx.Err()
}

func (stallingCache) LoadAll(ctx context.Context) (map[string]string, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func TestBoundedCache_GivesUp(t *testing.T) {
	cache := BoundedCache(stallingCache{}, 50*time.Millisecond)

	start := time.Now()
	_, err := NewCacheSource(cache).Fetch(context.Background())
	require.ErrorIs(t, err, context.DeadlineExceeded)

	err = cache.SaveAll(context.Background(), map[string]string{"9.3.0_live": "AAA"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)

	store := Load(context.Background(), NewLegacySource(), NewCacheSource(cache))
	assert.Equal(t, len(LegacyKeys), store.Len())
}

func TestBoundedCache_NonPositiveTimeoutIsIdentity(t *testing.T) {
	cache := &memCache{}
	assert.Same(t, cache, BoundedCache(cache, 0))
}

func TestLegacySource(t *testing.T) {
	entries, err := NewLegacySource().Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, 5)
	assert.Contains(t, entries, "8.4.0_live")
}
