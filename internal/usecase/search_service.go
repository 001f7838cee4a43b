package usecase

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/macrolens/foodcore/internal/domain"
)

// SearchConfig holds configuration for the search service
type SearchConfig struct {
	DefaultLimit          int
	MaxLimit              int
	FetchMultiplier       int // per-source over-fetch so dedup has material to work with
	MaxFetchLimit         int
	EnrichmentConcurrency int
}

// SearchRequest is a single fused search
type SearchRequest struct {
	Query   string
	Limit   int
	Sources []string // optional subset of configured source names
}

// SearchService fans a query out to every enabled source and fuses the results
type SearchService struct {
	sources  []domain.FoodSource
	enricher domain.ProductEnricher
	config   SearchConfig
	logger   *zap.Logger
}

// NewSearchService creates a search service. Source order is significant:
// it fixes the concatenation order and therefore the dedup tie-break.
// enricher may be nil to disable enrichment.
func NewSearchService(
	sources []domain.FoodSource,
	enricher domain.ProductEnricher,
	config SearchConfig,
	logger *zap.Logger,
) *SearchService {
	if config.DefaultLimit <= 0 {
		config.DefaultLimit = 20
	}
	if config.MaxLimit <= 0 {
		config.MaxLimit = 100
	}
	if config.DefaultLimit > config.MaxLimit {
		config.DefaultLimit = config.MaxLimit
	}
	if config.FetchMultiplier <= 0 {
		config.FetchMultiplier = 2
	}
	if config.MaxFetchLimit <= 0 {
		config.MaxFetchLimit = config.MaxLimit * config.FetchMultiplier
	}
	if config.EnrichmentConcurrency <= 0 {
		config.EnrichmentConcurrency = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &SearchService{
		sources:  sources,
		enricher: enricher,
		config:   config,
		logger:   logger.Named("search"),
	}
}

// Search runs the fused search.
// Flow: resolve sources -> fan out -> concat -> dedup -> score -> sort -> truncate -> enrich
func (s *SearchService) Search(ctx context.Context, req SearchRequest) (*domain.SearchResult, error) {
	query := strings.TrimSpace(req.Query)
	if query == "" {
		return nil, domain.ErrInvalidRequest
	}

	enabled, err := s.resolveSources(req.Sources)
	if err != nil {
		return nil, err
	}

	limit := s.limit(req.Limit)
	fetchLimit := limit * s.config.FetchMultiplier
	if fetchLimit > s.config.MaxFetchLimit {
		fetchLimit = s.config.MaxFetchLimit
	}
	if fetchLimit < limit {
		fetchLimit = limit
	}

	perSource := s.fanOut(ctx, enabled, query, fetchLimit)

	var all []domain.CanonicalFoodItem
	for _, items := range perSource {
		all = append(all, items...)
	}

	normalizedQuery := domain.NormalizeName(query)
	results := dedupe(all)
	for i := range results {
		results[i].RelevanceScore = RelevanceScore(results[i].NormalizedName, normalizedQuery)
		results[i].DataCompleteness = DataCompleteness(&results[i])
	}
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].RelevanceScore > results[j].RelevanceScore
	})

	totalCount := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	s.enrich(ctx, results)

	names := make([]string, len(enabled))
	for i, src := range enabled {
		names[i] = string(src.Name())
	}

	s.logger.Debug("search completed",
		zap.String("query", query),
		zap.Strings("sources", names),
		zap.Int("fetched", len(all)),
		zap.Int("total", totalCount),
		zap.Int("returned", len(results)),
	)

	return &domain.SearchResult{
		Results:    results,
		TotalCount: totalCount,
		Sources:    names,
	}, nil
}

// resolveSources intersects the requested names with the configured sources,
// keeping configured order. Unknown names are ignored.
func (s *SearchService) resolveSources(requested []string) ([]domain.FoodSource, error) {
	wanted := make(map[string]bool, len(requested))
	for _, name := range requested {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			wanted[name] = true
		}
	}
	if len(wanted) == 0 {
		return s.sources, nil
	}

	var enabled []domain.FoodSource
	for _, src := range s.sources {
		if wanted[string(src.Name())] {
			enabled = append(enabled, src)
		}
	}
	if len(enabled) == 0 {
		return nil, domain.ErrNoValidSources
	}
	return enabled, nil
}

func (s *SearchService) limit(requested int) int {
	if requested <= 0 {
		return s.config.DefaultLimit
	}
	if requested > s.config.MaxLimit {
		return s.config.MaxLimit
	}
	return requested
}

// fanOut queries every source concurrently. Results are indexed by source
// position so the caller sees them in configured order, not arrival order.
func (s *SearchService) fanOut(ctx context.Context, sources []domain.FoodSource, query string, limit int) [][]domain.CanonicalFoodItem {
	perSource := make([][]domain.CanonicalFoodItem, len(sources))

	var g errgroup.Group
	for i, src := range sources {
		g.Go(func() error {
			perSource[i] = src.Search(ctx, query, limit)
			return nil
		})
	}
	_ = g.Wait() // sources never fail

	return perSource
}

// dedupe keeps the first item seen for each normalized name
func dedupe(items []domain.CanonicalFoodItem) []domain.CanonicalFoodItem {
	seen := make(map[string]bool, len(items))
	out := make([]domain.CanonicalFoodItem, 0, len(items))
	for _, item := range items {
		key := item.NormalizedName
		if key == "" {
			key = domain.NormalizeName(item.Name)
			item.NormalizedName = key
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}

// enrich backfills presentation fields from Open Food Facts for items that
// carry a barcode but came from another source. Failures leave items untouched.
func (s *SearchService) enrich(ctx context.Context, items []domain.CanonicalFoodItem) {
	if s.enricher == nil {
		return
	}

	var g errgroup.Group
	g.SetLimit(s.config.EnrichmentConcurrency)
	for i := range items {
		if !needsEnrichment(&items[i]) {
			continue
		}
		g.Go(func() error {
			enrichItem(ctx, s.enricher, &items[i])
			return nil
		})
	}
	_ = g.Wait()
}

func needsEnrichment(item *domain.CanonicalFoodItem) bool {
	return item.Source != domain.SourceOpenFoodFacts && domain.CleanBarcode(item.GtinUpc) != ""
}

// enrichItem fills empty image, Nutri-Score and NOVA fields. Existing values win.
func enrichItem(ctx context.Context, enricher domain.ProductEnricher, item *domain.CanonicalFoodItem) {
	extra := enricher.ProductByBarcode(ctx, domain.CleanBarcode(item.GtinUpc))
	if extra == nil {
		return
	}

	if item.ImageURL == "" {
		item.ImageURL = extra.ImageURL
	}
	if item.NutriscoreGrade == "" {
		item.NutriscoreGrade = extra.NutriscoreGrade
	}
	if item.NovaGroup == nil && extra.NovaGroup != nil {
		g := *extra.NovaGroup
		item.NovaGroup = &g
	}
	item.DataCompleteness = DataCompleteness(item)
}
