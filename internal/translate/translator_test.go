package translate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = value.(string)
	return nil
}

func (c *fakeCache) Get(ctx context.Context, key string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values[key], nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.values, key)
	return nil
}

func (c *fakeCache) GenerateKey(operation, key string) string {
	return "test:" + operation + ":" + key
}

func TestNormalize_UsesService(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tomate", r.URL.Query().Get("q"))
		w.Write([]byte(`{"keyword":"tomato"}`))
	}))
	defer server.Close()

	tr := NewHTTPTranslator(server.URL, time.Second, newFakeCache(), zap.NewNop())

	result := tr.Normalize(context.Background(), "  Tomate ")
	assert.Equal(t, "tomato", result.Keyword)
	assert.False(t, result.Fallback)
}

func TestNormalize_CachesResult(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Write([]byte(`{"keyword":"tomato"}`))
	}))
	defer server.Close()

	tr := NewHTTPTranslator(server.URL, time.Second, newFakeCache(), zap.NewNop())

	first := tr.Normalize(context.Background(), "tomate")
	second := tr.Normalize(context.Background(), "tomate")

	assert.Equal(t, "tomato", first.Keyword)
	assert.Equal(t, "tomato", second.Keyword)
	assert.Equal(t, 1, calls)
}

func TestNormalize_FallsBackOnFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	tr := NewHTTPTranslator(server.URL, time.Second, newFakeCache(), zap.NewNop())

	result := tr.Normalize(context.Background(), "Tomate")
	assert.Equal(t, "tomate", result.Keyword)
	assert.True(t, result.Fallback)
}

func TestNormalize_EmptyKeyword(t *testing.T) {
	tr := NewHTTPTranslator("", time.Second, newFakeCache(), zap.NewNop())

	result := tr.Normalize(context.Background(), "   ")
	assert.Equal(t, "", result.Keyword)
	assert.False(t, result.Fallback)
}

func TestNormalize_NoBaseURL(t *testing.T) {
	tr := NewHTTPTranslator("", time.Second, newFakeCache(), zap.NewNop())

	result := tr.Normalize(context.Background(), "Mango")
	assert.Equal(t, "mango", result.Keyword)
	assert.True(t, result.Fallback)
}
