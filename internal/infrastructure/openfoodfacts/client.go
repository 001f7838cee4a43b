package openfoodfacts

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/macrolens/foodcore/internal/domain"
)

const cachePrefix = "off:"

// searchFields limits the search payload to what the mapper reads
const searchFields = "code,product_name,product_name_en,generic_name,brands,brand_owner,categories," +
	"image_url,image_front_url,nutriscore_grade,nova_group,ingredients_text,quantity,serving_size,nutriments"

// ClientConfig holds Open Food Facts client settings
type ClientConfig struct {
	BaseURL     string
	UserAgent   string
	Timeout     time.Duration
	CacheTTL    time.Duration
	NotFoundTTL time.Duration
}

// Client talks to the Open Food Facts public API. No credentials are needed,
// but the API asks for a descriptive User-Agent.
type Client struct {
	http        *resty.Client
	cache       domain.CacheRepository
	cacheTTL    time.Duration
	notFoundTTL time.Duration
	logger      *zap.Logger
}

// NewClient creates a new Open Food Facts client
func NewClient(cfg ClientConfig, cache domain.CacheRepository, logger *zap.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "foodcore/1.0"
	}
	cacheTTL := cfg.CacheTTL
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	notFoundTTL := cfg.NotFoundTTL
	if notFoundTTL <= 0 {
		notFoundTTL = time.Hour
	}

	httpClient := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetTimeout(timeout).
		SetHeader("User-Agent", userAgent).
		SetHeader("Accept", "application/json")

	return &Client{
		http:        httpClient,
		cache:       cache,
		cacheTTL:    cacheTTL,
		notFoundTTL: notFoundTTL,
		logger:      logger.Named("openfoodfacts"),
	}
}

// SearchProducts runs a full-text product search. It never fails: upstream
// problems are logged and yield an empty slice.
func (c *Client) SearchProducts(ctx context.Context, query string, limit int) []domain.OFFProduct {
	cacheKey := fmt.Sprintf("%ssearch:%s:%d", cachePrefix, domain.NormalizeName(query), limit)
	var cached []domain.OFFProduct
	if c.readCache(ctx, cacheKey, &cached) {
		return nonNil(cached)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"search_terms":  query,
			"search_simple": "1",
			"action":        "process",
			"json":          "1",
			"page_size":     strconv.Itoa(limit),
			"fields":        searchFields,
		}).
		Get("/cgi/search.pl")
	if err != nil {
		c.logger.Warn("search failed", zap.String("query", query), zap.Error(err))
		return []domain.OFFProduct{}
	}
	if resp.IsError() {
		c.logger.Warn("search returned error status",
			zap.String("query", query),
			zap.Int("status", resp.StatusCode()),
		)
		return []domain.OFFProduct{}
	}

	var searchResp domain.OFFSearchResponse
	if err := json.Unmarshal(resp.Body(), &searchResp); err != nil {
		c.logger.Warn("search response not decodable", zap.String("query", query), zap.Error(err))
		return []domain.OFFProduct{}
	}

	products := nonNil(searchResp.Products)
	c.writeCache(ctx, cacheKey, products, c.cacheTTL)
	return products
}

// LookupProduct fetches a product by barcode. Returns (nil, nil) when the
// product does not exist; transport and status failures are returned wrapped
// in domain.ErrUpstreamUnavailable.
func (c *Client) LookupProduct(ctx context.Context, code string) (*domain.OFFProduct, error) {
	cacheKey := cachePrefix + "product:" + code
	var cached *domain.OFFProduct
	if c.readCache(ctx, cacheKey, &cached) {
		return cached, nil
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("code", code).
		Get("/api/v2/product/{code}.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUpstreamUnavailable, err)
	}

	// v2 answers unknown products with 404 and status 0
	if resp.StatusCode() == http.StatusNotFound {
		c.writeCache(ctx, cacheKey, nil, c.notFoundTTL)
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("%w: status %d", domain.ErrUpstreamUnavailable, resp.StatusCode())
	}

	var productResp domain.OFFProductResponse
	if err := json.Unmarshal(resp.Body(), &productResp); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrUpstreamUnavailable, err)
	}

	if productResp.Status != 1 || productResp.Product == nil {
		c.writeCache(ctx, cacheKey, nil, c.notFoundTTL)
		return nil, nil
	}

	product := productResp.Product
	if product.Code == "" {
		product.Code = code
	}
	c.writeCache(ctx, cacheKey, product, c.cacheTTL)
	return product, nil
}

// GetProduct is LookupProduct with failures logged and mapped to nil
func (c *Client) GetProduct(ctx context.Context, code string) *domain.OFFProduct {
	product, err := c.LookupProduct(ctx, code)
	if err != nil {
		c.logger.Warn("product lookup failed", zap.String("code", code), zap.Error(err))
		return nil
	}
	return product
}

// ClearCache drops every cached Open Food Facts response
func (c *Client) ClearCache(ctx context.Context) error {
	return c.cache.Invalidate(ctx, cachePrefix)
}

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

func nonNil(products []domain.OFFProduct) []domain.OFFProduct {
	if products == nil {
		return []domain.OFFProduct{}
	}
	return products
}
