package usda

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/macrolens/foodcore/internal/domain"
)

const (
	cachePrefix     = "usda:"
	barcodePageSize = 25
)

// specialCharsRegex removes characters that cause USDA API/nginx proxy errors
var specialCharsRegex = regexp.MustCompile(`[#%+@!^*()=\[\]{}<>|\\~` + "`" + `]`)

// errNotFound marks a 404 from the API; it never leaves this package
var errNotFound = errors.New("usda: not found")

// ClientConfig holds USDA client settings
type ClientConfig struct {
	APIKey          string
	BaseURL         string
	Timeout         time.Duration
	RequestsPerHour int
	CacheTTL        time.Duration
	NotFoundTTL     time.Duration
}

// Client handles communication with the USDA FoodData Central API
type Client struct {
	httpClient  *http.Client
	apiKey      string
	baseURL     string
	rateLimiter *rate.Limiter
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	notFoundTTL time.Duration
	logger      *zap.Logger
}

// NewClient creates a new USDA API client
func NewClient(cfg ClientConfig, cache domain.CacheRepository, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	perHour := cfg.RequestsPerHour
	if perHour <= 0 {
		perHour = 1000 // USDA default key quota
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	notFoundTTL := cfg.NotFoundTTL
	if notFoundTTL <= 0 {
		notFoundTTL = time.Hour
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		apiKey:      cfg.APIKey,
		baseURL:     strings.TrimSuffix(cfg.BaseURL, "/"),
		rateLimiter: rate.NewLimiter(rate.Limit(float64(perHour)/3600), 10),
		cache:       cache,
		cacheTTL:    cacheTTL,
		notFoundTTL: notFoundTTL,
		logger:      logger.Named("usda"),
	}
}

// Configured reports whether an API key is present
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// SearchFoods searches the USDA database. It never fails: a missing key,
// a network error or a non-2xx status all yield an empty slice.
func (c *Client) SearchFoods(ctx context.Context, query string, limit int) []domain.USDAFood {
	if !c.Configured() {
		c.logger.Debug("api key not configured, skipping search")
		return []domain.USDAFood{}
	}

	cacheKey := fmt.Sprintf("%ssearch:%s:%d", cachePrefix, domain.NormalizeName(query), limit)
	var cached []domain.USDAFood
	if c.readCache(ctx, cacheKey, &cached) {
		return nonNil(cached)
	}

	params := url.Values{}
	params.Add("query", sanitizeQuery(query))
	params.Add("pageSize", strconv.Itoa(limit))
	params.Add("dataType", "Foundation,SR Legacy,Survey (FNDDS),Branded")

	var searchResp domain.USDASearchResponse
	if err := c.get(ctx, "/v1/foods/search", params, &searchResp); err != nil {
		c.logger.Warn("search failed",
			zap.String("query", query),
			zap.Error(err),
		)
		return []domain.USDAFood{}
	}

	foods := nonNil(searchResp.Foods)
	c.logger.Debug("search completed",
		zap.String("query", query),
		zap.Int("foods", len(foods)),
	)
	c.writeCache(ctx, cacheKey, foods, c.cacheTTL)
	return foods
}

// GetFoodByBarcode finds a branded food whose GTIN/UPC equals the cleaned barcode.
// Returns (nil, nil) when the product is unknown. Upstream failures are returned
// wrapped in domain.ErrUpstreamUnavailable.
func (c *Client) GetFoodByBarcode(ctx context.Context, barcode string) (*domain.USDAFood, error) {
	if !c.Configured() {
		return nil, nil
	}

	cacheKey := cachePrefix + "barcode:" + barcode
	var cached *domain.USDAFood
	if c.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	params := url.Values{}
	params.Add("query", barcode)
	params.Add("dataType", "Branded")
	params.Add("pageSize", strconv.Itoa(barcodePageSize))

	var searchResp domain.USDASearchResponse
	err := c.get(ctx, "/v1/foods/search", params, &searchResp)
	if err != nil && !errors.Is(err, errNotFound) {
		c.logger.Error("barcode lookup failed",
			zap.String("barcode", barcode),
			zap.Error(err),
		)
		return nil, err
	}

	var match *domain.USDAFood
	for i := range searchResp.Foods {
		if sameGTIN(searchResp.Foods[i].GtinUpc, barcode) {
			match = &searchResp.Foods[i]
			break
		}
	}

	if match == nil {
		c.writeCache(ctx, cacheKey, nil, c.notFoundTTL)
		return nil, nil
	}
	c.writeCache(ctx, cacheKey, match, c.cacheTTL)
	return match, nil
}

// ClearCache drops every cached USDA response
func (c *Client) ClearCache(ctx context.Context) error {
	return c.cache.Invalidate(ctx, cachePrefix)
}

// get executes a GET request against path and decodes the JSON body into out
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", domain.ErrUpstreamUnavailable, err)
	}

	params.Set("api_key", c.apiKey)
	reqURL := fmt.Sprintf("%s%s?%s", c.baseURL, path, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "foodcore/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: status %d, body: %s", domain.ErrUpstreamUnavailable, resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamUnavailable, err)
	}
	return nil
}

// readCache decodes a cached JSON value into out. A cached null decodes to the
// zero value and still counts as a hit.
func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	data, err := c.cache.Get(ctx, key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, value any, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := c.cache.Set(ctx, key, data, ttl); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// sanitizeQuery strips characters the USDA proxy rejects
func sanitizeQuery(query string) string {
	q := strings.ReplaceAll(query, "&", " and ")
	q = specialCharsRegex.ReplaceAllString(q, " ")
	return strings.Join(strings.Fields(q), " ")
}

// sameGTIN compares two barcodes ignoring separators and leading zero padding
// (UPC-A vs EAN-13 vs GTIN-14 encodings of the same product)
func sameGTIN(a, b string) bool {
	a = strings.TrimLeft(domain.CleanBarcode(a), "0")
	b = strings.TrimLeft(domain.CleanBarcode(b), "0")
	return a != "" && a == b
}

func nonNil(foods []domain.USDAFood) []domain.USDAFood {
	if foods == nil {
		return []domain.USDAFood{}
	}
	return foods
}
