package translate

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"radagast/internal/infrastructure/rediscache"
)

// Result is a normalized search keyword. Fallback marks that the external
// service was unreachable and the local heuristic was used instead.
type Result struct {
	Keyword  string
	Fallback bool
}

type Translator interface {
	Normalize(ctx context.Context, keyword string) Result
}

// HTTPTranslator normalizes free-text keywords through an external
// translation service, memoizing results in redis. It never fails the
// caller: a lowercase/trim of the input is the local fallback.
type HTTPTranslator struct {
	baseURL  string
	client   *http.Client
	timeout  time.Duration
	cache    rediscache.Cache
	cacheTTL time.Duration
	logger   *zap.Logger
}

func NewHTTPTranslator(baseURL string, timeout time.Duration, cache rediscache.Cache, logger *zap.Logger) *HTTPTranslator {
	return &HTTPTranslator{
		baseURL:  baseURL,
		client:   &http.Client{Timeout: timeout},
		timeout:  timeout,
		cache:    cache,
		cacheTTL: 24 * time.Hour,
		logger:   logger,
	}
}

func (t *HTTPTranslator) Normalize(ctx context.Context, keyword string) Result {
	local := Result{Keyword: strings.ToLower(strings.TrimSpace(keyword)), Fallback: true}
	if local.Keyword == "" {
		return Result{}
	}

	if t.baseURL == "" {
		return local
	}

	cacheKey := t.cache.GenerateKey("translate", local.Keyword)
	if cached, err := t.cache.Get(ctx, cacheKey); err == nil && cached != "" {
		return Result{Keyword: cached}
	}

	reqCtx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	endpoint := t.baseURL + "/normalize?q=" + url.QueryEscape(local.Keyword)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, endpoint, nil)
	if err != nil {
		t.logger.Warn("translator request build failed, using local fallback", zap.Error(err))
		return local
	}

	resp, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("translator unavailable, using local fallback", zap.Error(err))
		return local
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.logger.Warn("translator returned non-200, using local fallback", zap.Int("status", resp.StatusCode))
		return local
	}

	var body struct {
		Keyword string `json:"keyword"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Keyword == "" {
		t.logger.Warn("translator response decode failed, using local fallback", zap.Error(err))
		return local
	}

	normalized := strings.ToLower(strings.TrimSpace(body.Keyword))
	if err := t.cache.Set(ctx, cacheKey, normalized, t.cacheTTL); err != nil {
		t.logger.Warn("translator cache write failed", zap.Error(err))
	}

	return Result{Keyword: normalized}
}
